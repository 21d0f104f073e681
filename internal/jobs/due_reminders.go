package jobs

import (
	"context"
	"log"

	"relancer/internal/models"
	"relancer/internal/repositories"
	"relancer/internal/services"

	"github.com/jonboulle/clockwork"
)

// SweepSummary counts the per-reminder outcomes of one sweep run.
type SweepSummary struct {
	Processed int
	Sent      int
	Failed    int
	Cancelled int
}

// DueReminderSweep scans for pending reminders whose scheduled date has
// arrived and hands them to the dispatcher, cancelling those whose
// invoice was paid or whose client went inactive in the meantime. Each
// reminder is committed independently; one failure never blocks the
// rest of the batch.
type DueReminderSweep struct {
	reminderRepo repositories.ReminderRepository
	invoiceRepo  repositories.InvoiceRepository
	clientRepo   repositories.ClientRepository
	dispatcher   services.ReminderDispatcher
	clock        clockwork.Clock
}

func NewDueReminderSweep(reminderRepo repositories.ReminderRepository, invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository, dispatcher services.ReminderDispatcher, clock clockwork.Clock) *DueReminderSweep {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DueReminderSweep{
		reminderRepo: reminderRepo,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Run processes every due reminder once. Errors loading the batch end
// the run early; untouched reminders stay pending and the next tick
// picks them up.
func (s *DueReminderSweep) Run(ctx context.Context) (SweepSummary, error) {
	log.Println("Starting due-reminder sweep")

	today := s.clock.Now()
	reminders, err := s.reminderRepo.ListDue(ctx, today)
	if err != nil {
		log.Printf("Due-reminder sweep aborted: %v", err)
		return SweepSummary{}, err
	}

	log.Printf("%d reminder(s) due", len(reminders))

	var summary SweepSummary
	for _, reminder := range reminders {
		summary.Processed++

		invoice, err := s.invoiceRepo.GetByID(ctx, reminder.InvoiceID)
		if err != nil {
			log.Printf("Skipping reminder %s: failed to load invoice: %v", reminder.ID, err)
			summary.Failed++
			continue
		}

		if invoice.Status == models.InvoiceStatusPaid {
			s.cancel(ctx, reminder, "invoice paid", &summary)
			continue
		}

		client, err := s.clientRepo.GetByID(ctx, invoice.ClientID)
		if err != nil {
			log.Printf("Skipping reminder %s: failed to load client: %v", reminder.ID, err)
			summary.Failed++
			continue
		}

		if !client.IsActive {
			s.cancel(ctx, reminder, "client inactive", &summary)
			continue
		}

		result := s.dispatcher.Dispatch(ctx, reminder, invoice, client)
		if result.Success {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}

	log.Printf("Due-reminder sweep finished: %d sent, %d failed, %d cancelled", summary.Sent, summary.Failed, summary.Cancelled)
	return summary, nil
}

func (s *DueReminderSweep) cancel(ctx context.Context, reminder *models.Reminder, reason string, summary *SweepSummary) {
	if err := reminder.Transition(models.ReminderStatusCancelled); err != nil {
		log.Printf("Cannot cancel reminder %s: %v", reminder.ID, err)
		summary.Failed++
		return
	}
	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		log.Printf("Failed to persist cancelled reminder %s: %v", reminder.ID, err)
		summary.Failed++
		return
	}
	log.Printf("Reminder %s cancelled (%s)", reminder.ID, reason)
	summary.Cancelled++
}
