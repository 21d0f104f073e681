package repositories

import (
	"context"
	"errors"
	"fmt"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SequenceRepository interface {
	Create(ctx context.Context, sequence *models.ReminderSequence) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReminderSequence, error)
	GetDefault(ctx context.Context) (*models.ReminderSequence, error)
	List(ctx context.Context) ([]*models.ReminderSequence, error)
}

type sequenceRepo struct {
	db DB
}

func NewSequenceRepo(db DB) SequenceRepository {
	return &sequenceRepo{db: db}
}

// Create inserts a sequence with its steps in one transaction. When the
// new sequence is flagged default, the flag is cleared everywhere else
// first so at most one default exists.
func (r *sequenceRepo) Create(ctx context.Context, sequence *models.ReminderSequence) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin sequence create: %w", err)
	}
	defer tx.Rollback(ctx)

	if sequence.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE reminder_sequences SET is_default = false WHERE is_default = true`); err != nil {
			return fmt.Errorf("failed to clear default flag: %w", err)
		}
	}

	query := `
		INSERT INTO reminder_sequences (id, name, is_default, is_active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := tx.Exec(ctx, query, sequence.ID, sequence.Name, sequence.IsDefault, sequence.IsActive); err != nil {
		return fmt.Errorf("failed to insert sequence: %w", err)
	}

	stepQuery := `
		INSERT INTO reminder_steps (id, sequence_id, step_number, days_after_due, subject_template, body_template)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, step := range sequence.Steps {
		if _, err := tx.Exec(ctx, stepQuery, step.ID, step.SequenceID, step.StepNumber, step.DaysAfterDue, step.SubjectTemplate, step.BodyTemplate); err != nil {
			return fmt.Errorf("failed to insert step %d: %w", step.StepNumber, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *sequenceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReminderSequence, error) {
	sequence := &models.ReminderSequence{}
	query := `
		SELECT id, name, is_default, is_active, created_at
		FROM reminder_sequences
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&sequence.ID, &sequence.Name, &sequence.IsDefault, &sequence.IsActive, &sequence.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := r.loadSteps(ctx, sequence); err != nil {
		return nil, err
	}
	return sequence, nil
}

// GetDefault returns the active default sequence with its steps, or
// (nil, nil) when none is configured.
func (r *sequenceRepo) GetDefault(ctx context.Context) (*models.ReminderSequence, error) {
	sequence := &models.ReminderSequence{}
	query := `
		SELECT id, name, is_default, is_active, created_at
		FROM reminder_sequences
		WHERE is_default = true AND is_active = true
	`
	err := r.db.QueryRow(ctx, query).Scan(&sequence.ID, &sequence.Name, &sequence.IsDefault, &sequence.IsActive, &sequence.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadSteps(ctx, sequence); err != nil {
		return nil, err
	}
	return sequence, nil
}

func (r *sequenceRepo) List(ctx context.Context) ([]*models.ReminderSequence, error) {
	query := `
		SELECT id, name, is_default, is_active, created_at
		FROM reminder_sequences
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sequences []*models.ReminderSequence
	for rows.Next() {
		sequence := &models.ReminderSequence{}
		if err := rows.Scan(&sequence.ID, &sequence.Name, &sequence.IsDefault, &sequence.IsActive, &sequence.CreatedAt); err != nil {
			return nil, err
		}
		sequences = append(sequences, sequence)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sequence := range sequences {
		if err := r.loadSteps(ctx, sequence); err != nil {
			return nil, err
		}
	}
	return sequences, nil
}

func (r *sequenceRepo) loadSteps(ctx context.Context, sequence *models.ReminderSequence) error {
	query := `
		SELECT id, sequence_id, step_number, days_after_due, subject_template, body_template
		FROM reminder_steps
		WHERE sequence_id = $1
		ORDER BY days_after_due ASC
	`
	rows, err := r.db.Query(ctx, query, sequence.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		step := &models.ReminderStep{}
		if err := rows.Scan(&step.ID, &step.SequenceID, &step.StepNumber, &step.DaysAfterDue, &step.SubjectTemplate, &step.BodyTemplate); err != nil {
			return err
		}
		sequence.Steps = append(sequence.Steps, step)
	}
	return rows.Err()
}
