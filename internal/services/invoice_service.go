package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"relancer/internal/models"
	"relancer/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice lifecycle operations. Creating an
// invoice is the single place reminder planning happens.
type InvoiceService interface {
	Create(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateInvoiceRequest) (*models.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	ListByStatus(ctx context.Context, status models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListOverdue(ctx context.Context, today time.Time, limit, offset int) ([]*models.Invoice, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type CreateInvoiceRequest struct {
	ClientID      uuid.UUID
	InvoiceNumber string
	Amount        decimal.Decimal
	Currency      string
	IssueDate     time.Time
	DueDate       time.Time
	Description   *string
}

type UpdateInvoiceRequest struct {
	Amount      *decimal.Decimal
	Currency    *string
	IssueDate   *time.Time
	DueDate     *time.Time
	Status      *models.InvoiceStatus
	Description *string
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	clientRepo  repositories.ClientRepository
	planner     ReminderPlanner
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository, planner ReminderPlanner) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		planner:     planner,
	}
}

// Create persists a new pending invoice and plans its reminders against
// the current default sequence. Later sequence edits do not reschedule
// what was planned here.
func (s *invoiceService) Create(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if req.InvoiceNumber == "" {
		return nil, fmt.Errorf("invoice number is required")
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("due date cannot precede issue date")
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	existing, err := s.invoiceRepo.GetByNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateInvoiceNumber
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Currency:      currency,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Status:        models.InvoiceStatusPending,
		Description:   req.Description,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if _, err := s.planner.PlanForInvoice(ctx, invoice); err != nil {
		return invoice, fmt.Errorf("invoice created but reminder planning failed: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return invoice, err
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, req *UpdateInvoiceRequest) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		invoice.Amount = *req.Amount
	}
	if req.Currency != nil {
		invoice.Currency = *req.Currency
	}
	if req.IssueDate != nil {
		invoice.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}
	if req.Description != nil {
		invoice.Description = req.Description
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceService) ListByStatus(ctx context.Context, status models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByStatus(ctx, status, limit, offset)
}

func (s *invoiceService) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByClient(ctx, clientID, limit, offset)
}

func (s *invoiceService) ListOverdue(ctx context.Context, today time.Time, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListOverdue(ctx, today, limit, offset)
}

// MarkPaid settles the invoice and cancels its pending reminders in a
// single transaction. Sent and failed reminders are left untouched.
func (s *invoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if err := s.invoiceRepo.MarkPaid(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}
