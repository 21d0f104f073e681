package services

import (
	"context"
	"errors"
	"fmt"

	"relancer/internal/models"
	"relancer/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClientService interface {
	Create(ctx context.Context, req *CreateClientRequest) (*models.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateClientRequest) (*models.Client, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Client, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
}

type CreateClientRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

type clientService struct {
	clientRepo repositories.ClientRepository
}

func NewClientService(clientRepo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) Create(ctx context.Context, req *CreateClientRequest) (*models.Client, error) {
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("client name and email are required")
	}

	existing, err := s.clientRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	client := &models.Client{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	return client, err
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req *UpdateClientRequest) (*models.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil && *req.Email != client.Email {
		existing, err := s.clientRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateEmail
		}
		client.Email = *req.Email
	}
	if req.Company != nil {
		client.Company = req.Company
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Client, error) {
	return s.clientRepo.List(ctx, activeOnly, limit, offset)
}

// Deactivate is the soft delete: the client stays on file but the
// due-reminder sweep cancels instead of dispatching its reminders.
func (s *clientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Deactivate(ctx, id)
}

// Purge removes the client with its invoices and reminders. Refused
// when any reminder already went out, so delivery history is never
// silently destroyed.
func (s *clientService) Purge(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	sent, err := s.clientRepo.HasSentReminders(ctx, id)
	if err != nil {
		return err
	}
	if sent {
		return ErrClientHasSentReminders
	}

	return s.clientRepo.DeleteCascade(ctx, id)
}
