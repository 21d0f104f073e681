package services

import (
	"context"
	"log"

	"relancer/internal/models"
	"relancer/internal/repositories"

	"github.com/google/uuid"
)

// ReminderPlanner materializes one pending reminder per step of the
// active default sequence when an invoice is created. Planning must be
// invoked exactly once per invoice; it is the invoice service's job to
// call it only at creation time.
type ReminderPlanner interface {
	PlanForInvoice(ctx context.Context, invoice *models.Invoice) ([]*models.Reminder, error)
}

type reminderPlanner struct {
	sequences    SequenceService
	reminderRepo repositories.ReminderRepository
}

func NewReminderPlanner(sequences SequenceService, reminderRepo repositories.ReminderRepository) ReminderPlanner {
	return &reminderPlanner{
		sequences:    sequences,
		reminderRepo: reminderRepo,
	}
}

// PlanForInvoice schedules reminders at due_date + days_after_due for
// each step. No active default sequence, or one without steps, plans
// nothing; that is not an error.
func (p *reminderPlanner) PlanForInvoice(ctx context.Context, invoice *models.Invoice) ([]*models.Reminder, error) {
	sequence, err := p.sequences.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if sequence == nil || len(sequence.Steps) == 0 {
		log.Printf("No active default sequence, skipping reminder planning for invoice %s", invoice.InvoiceNumber)
		return nil, nil
	}

	var reminders []*models.Reminder
	for _, step := range sequence.Steps {
		reminder := &models.Reminder{
			ID:            uuid.New(),
			InvoiceID:     invoice.ID,
			SequenceID:    sequence.ID,
			StepNumber:    step.StepNumber,
			ScheduledDate: invoice.DueDate.AddDate(0, 0, step.DaysAfterDue),
			Status:        models.ReminderStatusPending,
		}
		if err := p.reminderRepo.Create(ctx, reminder); err != nil {
			return reminders, err
		}
		reminders = append(reminders, reminder)
	}

	log.Printf("Planned %d reminder(s) for invoice %s", len(reminders), invoice.InvoiceNumber)
	return reminders, nil
}
