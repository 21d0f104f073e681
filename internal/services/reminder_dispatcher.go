package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"relancer/internal/mailer"
	"relancer/internal/models"
	"relancer/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
)

const defaultSendTimeout = 30 * time.Second

// DispatchResult is the outcome of one dispatch attempt. Every failure
// kind is converted into the reminder's persisted state; Dispatch never
// panics or propagates channel errors past its boundary.
type DispatchResult struct {
	Success bool
	Message string
}

// ReminderDispatcher renders and sends a single reminder, recording the
// resulting state transition.
type ReminderDispatcher interface {
	Dispatch(ctx context.Context, reminder *models.Reminder, invoice *models.Invoice, client *models.Client) DispatchResult
}

type reminderDispatcher struct {
	sequenceRepo repositories.SequenceRepository
	reminderRepo repositories.ReminderRepository
	mail         mailer.Mailer
	senderName   string
	sendTimeout  time.Duration
	clock        clockwork.Clock
}

func NewReminderDispatcher(sequenceRepo repositories.SequenceRepository, reminderRepo repositories.ReminderRepository, mail mailer.Mailer, senderName string, sendTimeout time.Duration, clock clockwork.Clock) ReminderDispatcher {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &reminderDispatcher{
		sequenceRepo: sequenceRepo,
		reminderRepo: reminderRepo,
		mail:         mail,
		senderName:   senderName,
		sendTimeout:  sendTimeout,
		clock:        clock,
	}
}

// Dispatch resolves the reminder's template against the sequence it was
// planned from, substitutes invoice/client variables, sends the email
// under a bounded timeout and persists SENT or FAILED. Templates are
// late-bound: step edits between planning and sending take effect.
func (d *reminderDispatcher) Dispatch(ctx context.Context, reminder *models.Reminder, invoice *models.Invoice, client *models.Client) DispatchResult {
	sequence, err := d.sequenceRepo.GetByID(ctx, reminder.SequenceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return d.fail(ctx, reminder, "no reminder sequence configured")
		}
		return d.fail(ctx, reminder, fmt.Sprintf("failed to load reminder sequence: %v", err))
	}

	step := sequence.StepByNumber(reminder.StepNumber)
	if step == nil {
		return d.fail(ctx, reminder, fmt.Sprintf("step %d not found in sequence %q", reminder.StepNumber, sequence.Name))
	}

	vars := mailer.TemplateVars{
		ClientName:    client.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount.StringFixed(2),
		Currency:      invoice.Currency,
		DueDate:       invoice.DueDate.Format("02/01/2006"),
		IssueDate:     invoice.IssueDate.Format("02/01/2006"),
		SenderName:    d.senderName,
	}

	subject, err := mailer.RenderTemplate(step.SubjectTemplate, vars)
	if err != nil {
		return d.fail(ctx, reminder, fmt.Sprintf("template error: %v", err))
	}
	body, err := mailer.RenderTemplate(step.BodyTemplate, vars)
	if err != nil {
		return d.fail(ctx, reminder, fmt.Sprintf("template error: %v", err))
	}

	// Snapshot what was attempted, whatever the channel outcome.
	reminder.EmailSubject = &subject
	reminder.EmailBody = &body

	htmlBody := mailer.TextToHTML(body)

	// The channel call runs outside any store transaction; only the
	// final state is persisted, in a single short update.
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	_, sendErr := d.mail.Send(sendCtx, client.Email, client.Name, subject, htmlBody, body)
	if sendErr != nil {
		return d.fail(ctx, reminder, sendFailureMessage(sendErr))
	}

	if err := reminder.Transition(models.ReminderStatusSent); err != nil {
		return DispatchResult{Success: false, Message: err.Error()}
	}
	sentAt := d.clock.Now().UTC()
	reminder.SentAt = &sentAt
	reminder.ErrorMessage = nil

	if err := d.reminderRepo.Update(ctx, reminder); err != nil {
		log.Printf("Failed to persist sent reminder %s: %v", reminder.ID, err)
		return DispatchResult{Success: false, Message: fmt.Sprintf("email sent but state not persisted: %v", err)}
	}

	log.Printf("Reminder %s sent to %s", reminder.ID, client.Email)
	return DispatchResult{Success: true, Message: fmt.Sprintf("reminder sent to %s", client.Email)}
}

func (d *reminderDispatcher) fail(ctx context.Context, reminder *models.Reminder, message string) DispatchResult {
	if err := reminder.Transition(models.ReminderStatusFailed); err != nil {
		return DispatchResult{Success: false, Message: err.Error()}
	}
	reminder.ErrorMessage = &message

	if err := d.reminderRepo.Update(ctx, reminder); err != nil {
		log.Printf("Failed to persist failed reminder %s: %v", reminder.ID, err)
	}

	log.Printf("Reminder %s failed: %s", reminder.ID, message)
	return DispatchResult{Success: false, Message: message}
}

func sendFailureMessage(err error) string {
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		return "email service not configured (missing API key)"
	case mailer.IsTimeout(err):
		return "timeout sending email"
	default:
		return err.Error()
	}
}
