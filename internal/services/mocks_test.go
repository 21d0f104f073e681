package services

import (
	"context"
	"time"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared across the package tests.

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Client, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) HasSentReminders(ctx context.Context, clientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) DeleteCascade(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByStatus(ctx context.Context, status models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListOverdue(ctx context.Context, today time.Time, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, today, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) List(ctx context.Context, limit, offset int) ([]*models.Reminder, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListByStatus(ctx context.Context, status models.ReminderStatus, limit, offset int) ([]*models.Reminder, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*models.Reminder, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListDue(ctx context.Context, today time.Time) ([]*models.Reminder, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Create(ctx context.Context, sequence *models.ReminderSequence) error {
	args := m.Called(ctx, sequence)
	return args.Error(0)
}

func (m *MockSequenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReminderSequence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReminderSequence), args.Error(1)
}

func (m *MockSequenceRepository) GetDefault(ctx context.Context) (*models.ReminderSequence, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReminderSequence), args.Error(1)
}

func (m *MockSequenceRepository) List(ctx context.Context) ([]*models.ReminderSequence, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.ReminderSequence), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDefaultSequence(ctx context.Context) (*models.ReminderSequence, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReminderSequence), args.Error(1)
}

func (m *MockCacheService) SetDefaultSequence(ctx context.Context, sequence *models.ReminderSequence, ttl time.Duration) error {
	args := m.Called(ctx, sequence, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDefaultSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, toEmail, toName, subject, htmlBody, textBody string) (string, error) {
	args := m.Called(ctx, toEmail, toName, subject, htmlBody, textBody)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, reminder *models.Reminder, invoice *models.Invoice, client *models.Client) DispatchResult {
	args := m.Called(ctx, reminder, invoice, client)
	return args.Get(0).(DispatchResult)
}

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) PlanForInvoice(ctx context.Context, invoice *models.Invoice) ([]*models.Reminder, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reminder), args.Error(1)
}
