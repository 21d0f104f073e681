package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"relancer/internal/caching"
	"relancer/internal/models"
	"relancer/internal/repositories"

	"github.com/google/uuid"
)

const sequenceCacheTTL = 5 * time.Minute

// SequenceService manages reminder sequences. The default sequence is
// read once per planned invoice and once per dispatched reminder, so it
// is cached; every mutation invalidates the cache.
type SequenceService interface {
	GetDefault(ctx context.Context) (*models.ReminderSequence, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReminderSequence, error)
	List(ctx context.Context) ([]*models.ReminderSequence, error)
	Create(ctx context.Context, req *CreateSequenceRequest) (*models.ReminderSequence, error)
	EnsureDefault(ctx context.Context) error
}

type CreateSequenceRequest struct {
	Name      string              `json:"name"`
	IsDefault bool                `json:"is_default"`
	IsActive  bool                `json:"is_active"`
	Steps     []CreateStepRequest `json:"steps"`
}

type CreateStepRequest struct {
	StepNumber      int    `json:"step_number"`
	DaysAfterDue    int    `json:"days_after_due"`
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `json:"body_template"`
}

type sequenceService struct {
	sequenceRepo repositories.SequenceRepository
	cacheSvc     caching.CacheService
}

func NewSequenceService(sequenceRepo repositories.SequenceRepository, cacheSvc caching.CacheService) SequenceService {
	return &sequenceService{
		sequenceRepo: sequenceRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *sequenceService) GetDefault(ctx context.Context) (*models.ReminderSequence, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetDefaultSequence(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			log.Printf("Sequence cache read failed: %v", err)
		}
	}

	sequence, err := s.sequenceRepo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}

	if sequence != nil && s.cacheSvc != nil {
		if err := s.cacheSvc.SetDefaultSequence(ctx, sequence, sequenceCacheTTL); err != nil {
			log.Printf("Sequence cache write failed: %v", err)
		}
	}
	return sequence, nil
}

func (s *sequenceService) GetByID(ctx context.Context, id uuid.UUID) (*models.ReminderSequence, error) {
	return s.sequenceRepo.GetByID(ctx, id)
}

func (s *sequenceService) List(ctx context.Context) ([]*models.ReminderSequence, error) {
	return s.sequenceRepo.List(ctx)
}

func (s *sequenceService) Create(ctx context.Context, req *CreateSequenceRequest) (*models.ReminderSequence, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("sequence name is required")
	}
	if len(req.Steps) == 0 {
		return nil, fmt.Errorf("sequence needs at least one step")
	}

	seen := make(map[int]bool, len(req.Steps))
	for _, step := range req.Steps {
		if step.StepNumber < 1 {
			return nil, fmt.Errorf("step numbers are 1-based")
		}
		if seen[step.StepNumber] {
			return nil, fmt.Errorf("duplicate step number %d", step.StepNumber)
		}
		seen[step.StepNumber] = true
		if step.DaysAfterDue < 0 {
			return nil, fmt.Errorf("days_after_due cannot be negative for step %d", step.StepNumber)
		}
		if step.SubjectTemplate == "" || step.BodyTemplate == "" {
			return nil, fmt.Errorf("step %d needs subject and body templates", step.StepNumber)
		}
	}

	sequence := &models.ReminderSequence{
		ID:        uuid.New(),
		Name:      req.Name,
		IsDefault: req.IsDefault,
		IsActive:  req.IsActive,
	}
	for _, step := range req.Steps {
		sequence.Steps = append(sequence.Steps, &models.ReminderStep{
			ID:              uuid.New(),
			SequenceID:      sequence.ID,
			StepNumber:      step.StepNumber,
			DaysAfterDue:    step.DaysAfterDue,
			SubjectTemplate: step.SubjectTemplate,
			BodyTemplate:    step.BodyTemplate,
		})
	}

	if err := s.sequenceRepo.Create(ctx, sequence); err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.InvalidateDefaultSequence(ctx); err != nil {
			log.Printf("Sequence cache invalidation failed: %v", err)
		}
	}
	return sequence, nil
}

// EnsureDefault seeds the standard four-step sequence when no active
// default exists yet. Called once at startup.
func (s *sequenceService) EnsureDefault(ctx context.Context) error {
	existing, err := s.sequenceRepo.GetDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up default sequence: %w", err)
	}
	if existing != nil {
		return nil
	}

	_, err = s.Create(ctx, defaultSequenceRequest())
	if err != nil {
		return fmt.Errorf("failed to seed default sequence: %w", err)
	}
	log.Println("Seeded default reminder sequence")
	return nil
}

func defaultSequenceRequest() *CreateSequenceRequest {
	return &CreateSequenceRequest{
		Name:      "Standard Sequence",
		IsDefault: true,
		IsActive:  true,
		Steps: []CreateStepRequest{
			{
				StepNumber:      1,
				DaysAfterDue:    1,
				SubjectTemplate: "Reminder: invoice {invoice_number} is due",
				BodyTemplate: `Hello {client_name},

This is a reminder that invoice {invoice_number} for {amount} {currency} reached its due date on {due_date}.

Please arrange payment at your earliest convenience.

If you have already paid, please disregard this message.

Kind regards,
{sender_name}`,
			},
			{
				StepNumber:      2,
				DaysAfterDue:    7,
				SubjectTemplate: "Second reminder: invoice {invoice_number} is unpaid",
				BodyTemplate: `Hello {client_name},

Unless we are mistaken, we have not yet received payment for invoice {invoice_number} for {amount} {currency}, due since {due_date}.

Please settle this invoice as soon as possible.

Do not hesitate to contact us with any questions.

Kind regards,
{sender_name}`,
			},
			{
				StepNumber:      3,
				DaysAfterDue:    15,
				SubjectTemplate: "URGENT: invoice {invoice_number} is overdue",
				BodyTemplate: `Hello {client_name},

Despite our previous reminders, invoice {invoice_number} for {amount} {currency} remains unpaid.

This invoice was due on {due_date}, which is now more than 15 days ago.

We ask you to complete payment within 48 hours to avoid collection measures.

Kind regards,
{sender_name}`,
			},
			{
				StepNumber:      4,
				DaysAfterDue:    30,
				SubjectTemplate: "FINAL NOTICE: invoice {invoice_number} - action required",
				BodyTemplate: `Hello {client_name},

This is our final notice regarding invoice {invoice_number} for {amount} {currency}, unpaid since {due_date}.

Without payment within 7 days we will have to hand this file over to our collection service.

To avoid this, please pay immediately or contact us to arrange a settlement.

Kind regards,
{sender_name}`,
			},
		},
	}
}
