package models

import (
	"time"

	"github.com/google/uuid"
)

// ReminderSequence is an ordered set of reminder steps. At most one
// active sequence carries the default flag; new invoices are planned
// against the default at creation time.
type ReminderSequence struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	IsDefault bool            `json:"is_default" db:"is_default"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	Steps     []*ReminderStep `json:"steps" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// StepByNumber returns the step with the given step number, or nil.
func (s *ReminderSequence) StepByNumber(number int) *ReminderStep {
	for _, step := range s.Steps {
		if step.StepNumber == number {
			return step
		}
	}
	return nil
}

// ReminderStep is one rung of a sequence: an offset in days from the
// invoice due date plus the subject/body templates to send.
type ReminderStep struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SequenceID      uuid.UUID `json:"sequence_id" db:"sequence_id"`
	StepNumber      int       `json:"step_number" db:"step_number"`
	DaysAfterDue    int       `json:"days_after_due" db:"days_after_due"`
	SubjectTemplate string    `json:"subject_template" db:"subject_template"`
	BodyTemplate    string    `json:"body_template" db:"body_template"`
}
