package repositories

import (
	"context"
	"errors"
	"fmt"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Client, error)
	HasSentReminders(ctx context.Context, clientID uuid.UUID) (bool, error)
	DeleteCascade(ctx context.Context, clientID uuid.UUID) error
}

type clientRepo struct {
	db DB
}

func NewClientRepo(db DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, email, company, phone, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.Name, client.Email, client.Company, client.Phone, client.Address, client.IsActive)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, name, email, company, phone, address, is_active, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.Name, &client.Email, &client.Company, &client.Phone, &client.Address, &client.IsActive, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, name, email, company, phone, address, is_active, created_at, updated_at
		FROM clients
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&client.ID, &client.Name, &client.Email, &client.Company, &client.Phone, &client.Address, &client.IsActive, &client.CreatedAt, &client.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, company = $3, phone = $4, address = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.Email, client.Company, client.Phone, client.Address, client.IsActive, client.ID)
	return err
}

func (r *clientRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE clients SET is_active = false, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *clientRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Client, error) {
	query := `
		SELECT id, name, email, company, phone, address, is_active, created_at, updated_at
		FROM clients
		WHERE ($1 = false OR is_active = true)
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Company, &client.Phone, &client.Address, &client.IsActive, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// HasSentReminders reports whether any reminder for the client's
// invoices has already gone out.
func (r *clientRepo) HasSentReminders(ctx context.Context, clientID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reminders r
			JOIN invoices i ON i.id = r.invoice_id
			WHERE i.client_id = $1 AND r.status = 'sent'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, clientID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteCascade removes the client with its invoices and their
// reminders in a single transaction, leaf tables first.
func (r *clientRepo) DeleteCascade(ctx context.Context, clientID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cascade delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reminders WHERE invoice_id IN (SELECT id FROM invoices WHERE client_id = $1)`, clientID); err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoices WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("failed to delete invoices: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return tx.Commit(ctx)
}
