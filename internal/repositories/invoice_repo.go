package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	ListByStatus(ctx context.Context, status models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListOverdue(ctx context.Context, today time.Time, limit, offset int) ([]*models.Invoice, error)
	MarkPaid(ctx context.Context, id uuid.UUID) error
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

const invoiceColumns = "id, client_id, invoice_number, amount, currency, issue_date, due_date, status, description, created_at, updated_at"

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(&invoice.ID, &invoice.ClientID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Currency, &invoice.IssueDate, &invoice.DueDate, &invoice.Status, &invoice.Description, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func scanInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, client_id, invoice_number, amount, currency, issue_date, due_date, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.ClientID, invoice.InvoiceNumber, invoice.Amount, invoice.Currency, invoice.IssueDate, invoice.DueDate, invoice.Status, invoice.Description)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRow(ctx, query, id))
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return invoice, err
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = $1, currency = $2, issue_date = $3, due_date = $4, status = $5, description = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, invoice.Amount, invoice.Currency, invoice.IssueDate, invoice.DueDate, invoice.Status, invoice.Description, invoice.ID)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY due_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanInvoices(rows)
}

func (r *invoiceRepo) ListByStatus(ctx context.Context, status models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1 ORDER BY due_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanInvoices(rows)
}

func (r *invoiceRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 ORDER BY due_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanInvoices(rows)
}

func (r *invoiceRepo) ListOverdue(ctx context.Context, today time.Time, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = 'pending' AND due_date < $1 ORDER BY due_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, today, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanInvoices(rows)
}

// MarkPaid sets the invoice to paid and cancels its pending reminders
// in one transaction, so a racing sweep never dispatches a reminder for
// an invoice already settled.
func (r *invoiceRepo) MarkPaid(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin mark-paid: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE invoices SET status = 'paid', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `UPDATE reminders SET status = 'cancelled' WHERE invoice_id = $1 AND status = 'pending'`, id); err != nil {
		return fmt.Errorf("failed to cancel pending reminders: %w", err)
	}

	return tx.Commit(ctx)
}

// MarkOverdue flips every pending invoice past its due date to overdue
// and returns the number of invoices updated. Running it again on the
// same day is a no-op.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `UPDATE invoices SET status = 'overdue', updated_at = NOW() WHERE status = 'pending' AND due_date < $1`
	tag, err := r.db.Exec(ctx, query, today)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
