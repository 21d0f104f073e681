package repositories

import (
	"context"
	"time"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error)
	Update(ctx context.Context, reminder *models.Reminder) error
	List(ctx context.Context, limit, offset int) ([]*models.Reminder, error)
	ListByStatus(ctx context.Context, status models.ReminderStatus, limit, offset int) ([]*models.Reminder, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*models.Reminder, error)
	ListDue(ctx context.Context, today time.Time) ([]*models.Reminder, error)
}

const reminderColumns = "id, invoice_id, sequence_id, step_number, scheduled_date, status, sent_at, error_message, email_subject, email_body, created_at"

type reminderRepo struct {
	db DB
}

func NewReminderRepo(db DB) ReminderRepository {
	return &reminderRepo{db: db}
}

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	err := row.Scan(&reminder.ID, &reminder.InvoiceID, &reminder.SequenceID, &reminder.StepNumber, &reminder.ScheduledDate, &reminder.Status, &reminder.SentAt, &reminder.ErrorMessage, &reminder.EmailSubject, &reminder.EmailBody, &reminder.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func (r *reminderRepo) Create(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, invoice_id, sequence_id, step_number, scheduled_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, reminder.ID, reminder.InvoiceID, reminder.SequenceID, reminder.StepNumber, reminder.ScheduledDate, reminder.Status)
	return err
}

func (r *reminderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	return scanReminder(r.db.QueryRow(ctx, query, id))
}

// Update persists the mutable dispatch state: status, sent_at, the
// error message and the rendered subject/body snapshot.
func (r *reminderRepo) Update(ctx context.Context, reminder *models.Reminder) error {
	query := `
		UPDATE reminders
		SET status = $1, sent_at = $2, error_message = $3, email_subject = $4, email_body = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, reminder.Status, reminder.SentAt, reminder.ErrorMessage, reminder.EmailSubject, reminder.EmailBody, reminder.ID)
	return err
}

func (r *reminderRepo) List(ctx context.Context, limit, offset int) ([]*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders ORDER BY scheduled_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func (r *reminderRepo) ListByStatus(ctx context.Context, status models.ReminderStatus, limit, offset int) ([]*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE status = $1 ORDER BY scheduled_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func (r *reminderRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE invoice_id = $1 ORDER BY scheduled_date ASC`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

// ListDue returns every pending reminder whose scheduled date has
// arrived, oldest first.
func (r *reminderRepo) ListDue(ctx context.Context, today time.Time) ([]*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE status = 'pending' AND scheduled_date <= $1 ORDER BY scheduled_date ASC`
	rows, err := r.db.Query(ctx, query, today)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}
