package jobs

import (
	"context"
	"log"

	"relancer/internal/repositories"

	"github.com/jonboulle/clockwork"
)

// OverdueSweep flips pending invoices past their due date to overdue.
// Status bookkeeping only: reminders stay governed by their own
// scheduled dates, and an overdue invoice remains eligible for
// dispatch until it is paid.
type OverdueSweep struct {
	invoiceRepo repositories.InvoiceRepository
	clock       clockwork.Clock
}

func NewOverdueSweep(invoiceRepo repositories.InvoiceRepository, clock clockwork.Clock) *OverdueSweep {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OverdueSweep{
		invoiceRepo: invoiceRepo,
		clock:       clock,
	}
}

// Run performs the bulk status update and returns how many invoices
// were flipped. Running twice on the same day changes nothing.
func (s *OverdueSweep) Run(ctx context.Context) (int64, error) {
	log.Println("Starting overdue-invoice sweep")

	updated, err := s.invoiceRepo.MarkOverdue(ctx, s.clock.Now())
	if err != nil {
		log.Printf("Overdue-invoice sweep failed: %v", err)
		return 0, err
	}

	log.Printf("%d invoice(s) marked overdue", updated)
	return updated, nil
}
