package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"
	"canchas_backend/pkg/utils"
)

// --- Client DTOs ---
type CreateClientRequest struct {
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	DNI          int64   `json:"dni" binding:"required,gt=0"`
	BirthDate    *string `json:"birth_date" binding:"omitempty,isodate"` // Format YYYY-MM-DD
	Street       *string `json:"street"`
	StreetNumber *int    `json:"street_number" binding:"omitempty,gte=0"`
	Phone        *int64  `json:"phone" binding:"omitempty,gt=0"`
}

// UpdateClientRequest replaces only the fields that are present.
type UpdateClientRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	DNI          *int64  `json:"dni" binding:"omitempty,gt=0"`
	BirthDate    *string `json:"birth_date" binding:"omitempty,isodate"`
	Street       *string `json:"street"`
	StreetNumber *int    `json:"street_number" binding:"omitempty,gte=0"`
	Phone        *int64  `json:"phone" binding:"omitempty,gt=0"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error)
	GetClientByID(ctx context.Context, clientID int64) (*models.Client, error)
	GetClientByDNI(ctx context.Context, dni int64) (*models.Client, error)
	GetClients(ctx context.Context, searchTerm *string) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID int64) error
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	now        Clock
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, now Clock) ClientService {
	if now == nil {
		now = SystemClock(time.Local)
	}
	return &clientService{clientRepo: repo, now: now}
}

func (s *clientService) validateClient(client *models.Client) error {
	if strings.TrimSpace(client.FirstName) == "" {
		return fmt.Errorf("%w: first name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(client.LastName) == "" {
		return fmt.Errorf("%w: last name cannot be empty", ErrValidation)
	}
	if client.DNI <= 0 {
		return fmt.Errorf("%w: dni must be a positive integer", ErrValidation)
	}
	if client.StreetNumber != nil && *client.StreetNumber < 0 {
		return fmt.Errorf("%w: street number cannot be negative", ErrValidation)
	}
	if client.Phone != nil && *client.Phone <= 0 {
		return fmt.Errorf("%w: phone must be a positive integer", ErrValidation)
	}
	return nil
}

func (s *clientService) parseBirthDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	birthDate, err := ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	today, _ := s.now.today()
	if birthDate.After(today) {
		return nil, fmt.Errorf("%w: birth date cannot be in the future", ErrValidation)
	}
	return &birthDate, nil
}

// trimmedOptional maps blank strings to NULL.
func trimmedOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NewNullString(strings.TrimSpace(*s))
}

func mapClientWriteError(err error, action string) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return fmt.Errorf("%w: %v", ErrDNITaken, err)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: client", ErrEntityNotFound)
	}
	return fmt.Errorf("failed to %s client: %w", action, err)
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error) {
	birthDate, err := s.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	client := &models.Client{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DNI:          req.DNI,
		BirthDate:    birthDate,
		Street:       trimmedOptional(req.Street),
		StreetNumber: req.StreetNumber,
		Phone:        req.Phone,
	}
	if err := s.validateClient(client); err != nil {
		return nil, err
	}

	created, err := s.clientRepo.CreateClient(ctx, client)
	if err != nil {
		return nil, mapClientWriteError(err, "create")
	}
	return created, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: client ID %d", ErrEntityNotFound, clientID)
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClientByDNI(ctx context.Context, dni int64) (*models.Client, error) {
	if dni <= 0 {
		return nil, fmt.Errorf("%w: dni must be a positive integer", ErrValidation)
	}
	client, err := s.clientRepo.GetClientByDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: client with DNI %d", ErrEntityNotFound, dni)
		}
		return nil, fmt.Errorf("failed to get client by DNI: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(ctx context.Context, searchTerm *string) ([]models.Client, error) {
	clients, err := s.clientRepo.GetClients(ctx, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID int64, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		client.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		client.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DNI != nil {
		client.DNI = *req.DNI
	}
	if req.BirthDate != nil {
		birthDate, parseErr := s.parseBirthDate(req.BirthDate)
		if parseErr != nil {
			return nil, parseErr
		}
		client.BirthDate = birthDate
	}
	if req.Street != nil {
		client.Street = trimmedOptional(req.Street)
	}
	if req.StreetNumber != nil {
		client.StreetNumber = req.StreetNumber
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if err := s.validateClient(client); err != nil {
		return nil, err
	}

	updated, err := s.clientRepo.UpdateClient(ctx, client)
	if err != nil {
		return nil, mapClientWriteError(err, "update")
	}
	return updated, nil
}

// DeleteClient refuses to remove a client that still holds reservations.
func (s *clientService) DeleteClient(ctx context.Context, clientID int64) error {
	err := s.clientRepo.DeleteClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: client ID %d", ErrEntityNotFound, clientID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: client ID %d has reservations", ErrEntityInUse, clientID)
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
