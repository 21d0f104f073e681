package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReminderStatus is the lifecycle state of a scheduled reminder.
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusFailed    ReminderStatus = "failed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// TransitionError reports a reminder status change that the state
// machine does not allow.
type TransitionError struct {
	From ReminderStatus
	To   ReminderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid reminder transition from %q to %q", e.From, e.To)
}

// reminderTransitions holds the allowed status transitions: a pending
// reminder can be sent, failed or cancelled; a failed reminder can be
// reset to pending for a manual retry. Sent and cancelled are terminal.
var reminderTransitions = map[ReminderStatus][]ReminderStatus{
	ReminderStatusPending: {ReminderStatusSent, ReminderStatusFailed, ReminderStatusCancelled},
	ReminderStatusFailed:  {ReminderStatusPending},
}

// Reminder is a scheduled, stateful instance of one sequence step for
// one invoice. The sequence planned against is recorded so template
// resolution at dispatch time targets the planned sequence even if the
// default changes later; templates themselves stay late-bound.
type Reminder struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	InvoiceID     uuid.UUID      `json:"invoice_id" db:"invoice_id"`
	SequenceID    uuid.UUID      `json:"sequence_id" db:"sequence_id"`
	StepNumber    int            `json:"step_number" db:"step_number"`
	ScheduledDate time.Time      `json:"scheduled_date" db:"scheduled_date"`
	Status        ReminderStatus `json:"status" db:"status"`
	SentAt        *time.Time     `json:"sent_at" db:"sent_at"`
	ErrorMessage  *string        `json:"error_message" db:"error_message"`
	EmailSubject  *string        `json:"email_subject" db:"email_subject"`
	EmailBody     *string        `json:"email_body" db:"email_body"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// Transition moves the reminder to the given status, rejecting moves
// the state machine does not allow.
func (r *Reminder) Transition(to ReminderStatus) error {
	for _, allowed := range reminderTransitions[r.Status] {
		if allowed == to {
			r.Status = to
			return nil
		}
	}
	return &TransitionError{From: r.Status, To: to}
}
