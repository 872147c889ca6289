package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- DTOs ---

// CreateClientRequest is used for creating a new client.
type CreateClientRequest struct {
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	CarModel *string `json:"car_model"`
	Notes    *string `json:"notes"`
}

// UpdateClientRequest is used for editing a client.
type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	CarModel *string `json:"car_model"`
	Notes    *string `json:"notes"`
}

// --- ClientService Interface ---

type ClientService interface {
	CreateClient(orgID uuid.UUID, req CreateClientRequest) (*models.Client, error)
	GetClientByID(orgID, clientID uuid.UUID) (*models.Client, error)
	GetClients(orgID uuid.UUID, filters models.ClientFilters) ([]models.Client, int, error)
	UpdateClient(orgID, clientID uuid.UUID, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(orgID, clientID uuid.UUID) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(cr repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{clientRepo: cr, db: db}
}

func (s *clientService) CreateClient(orgID uuid.UUID, req CreateClientRequest) (*models.Client, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	client := models.Client{
		OrganizationID: orgID,
		Name:           req.Name,
		Phone:          req.Phone,
		CarModel:       req.CarModel,
		Notes:          req.Notes,
	}
	if _, err := s.clientRepo.CreateClient(s.db, &client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

func (s *clientService) GetClientByID(orgID, clientID uuid.UUID) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(orgID, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(orgID uuid.UUID, filters models.ClientFilters) ([]models.Client, int, error) {
	clients, totalCount, err := s.clientRepo.GetClients(orgID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, totalCount, nil
}

func (s *clientService) UpdateClient(orgID, clientID uuid.UUID, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(orgID, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to fetch client for update: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: client name must not be empty", ErrValidation)
		}
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.CarModel != nil {
		client.CarModel = req.CarModel
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	if err := s.clientRepo.UpdateClient(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(orgID, clientID uuid.UUID) error {
	err := s.clientRepo.DeleteClient(s.db, orgID, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
