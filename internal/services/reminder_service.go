package services

import (
	"context"
	"errors"
	"fmt"

	"relancer/internal/models"
	"relancer/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReminderService exposes the manual reminder controls: listing,
// immediate send and retry of failed attempts.
type ReminderService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error)
	List(ctx context.Context, limit, offset int) ([]*models.Reminder, error)
	ListByStatus(ctx context.Context, status models.ReminderStatus, limit, offset int) ([]*models.Reminder, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*models.Reminder, error)
	SendNow(ctx context.Context, id uuid.UUID) (*models.Reminder, DispatchResult, error)
	Retry(ctx context.Context, id uuid.UUID) (*models.Reminder, DispatchResult, error)
}

type reminderService struct {
	reminderRepo repositories.ReminderRepository
	invoiceRepo  repositories.InvoiceRepository
	clientRepo   repositories.ClientRepository
	dispatcher   ReminderDispatcher
}

func NewReminderService(reminderRepo repositories.ReminderRepository, invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository, dispatcher ReminderDispatcher) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		dispatcher:   dispatcher,
	}
}

func (s *reminderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	reminder, err := s.reminderRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReminderNotFound
	}
	return reminder, err
}

func (s *reminderService) List(ctx context.Context, limit, offset int) ([]*models.Reminder, error) {
	return s.reminderRepo.List(ctx, limit, offset)
}

func (s *reminderService) ListByStatus(ctx context.Context, status models.ReminderStatus, limit, offset int) ([]*models.Reminder, error) {
	return s.reminderRepo.ListByStatus(ctx, status, limit, offset)
}

func (s *reminderService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*models.Reminder, error) {
	return s.reminderRepo.ListByInvoice(ctx, invoiceID)
}

// SendNow dispatches one reminder immediately. Reminders that were
// already processed are rejected without any state change.
func (s *reminderService) SendNow(ctx context.Context, id uuid.UUID) (*models.Reminder, DispatchResult, error) {
	reminder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, DispatchResult{}, err
	}
	if reminder.Status != models.ReminderStatusPending {
		return reminder, DispatchResult{}, ErrReminderNotPending
	}

	return s.dispatch(ctx, reminder)
}

// Retry resets a failed reminder to pending and dispatches it right
// away. Only failed reminders are eligible.
func (s *reminderService) Retry(ctx context.Context, id uuid.UUID) (*models.Reminder, DispatchResult, error) {
	reminder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, DispatchResult{}, err
	}
	if reminder.Status != models.ReminderStatusFailed {
		return reminder, DispatchResult{}, ErrReminderNotFailed
	}

	if err := reminder.Transition(models.ReminderStatusPending); err != nil {
		return reminder, DispatchResult{}, err
	}
	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		return reminder, DispatchResult{}, fmt.Errorf("failed to reset reminder: %w", err)
	}

	return s.dispatch(ctx, reminder)
}

func (s *reminderService) dispatch(ctx context.Context, reminder *models.Reminder) (*models.Reminder, DispatchResult, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, reminder.InvoiceID)
	if err != nil {
		return reminder, DispatchResult{}, fmt.Errorf("failed to load invoice: %w", err)
	}
	client, err := s.clientRepo.GetByID(ctx, invoice.ClientID)
	if err != nil {
		return reminder, DispatchResult{}, fmt.Errorf("failed to load client: %w", err)
	}

	result := s.dispatcher.Dispatch(ctx, reminder, invoice, client)
	return reminder, result, nil
}
