package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"
)

// --- Equipment DTOs ---
type EquipmentRequest struct {
	Name  string `json:"name" binding:"required"`
	Stock int    `json:"stock" binding:"gte=0"`
}

type RenameEquipmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// QuantityRequest carries the units added to or removed from a counter.
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type AssignEquipmentRequest struct {
	CourtID     int64 `json:"court_id" binding:"required,gt=0"`
	EquipmentID int64 `json:"equipment_id" binding:"required,gt=0"`
	Quantity    int   `json:"quantity" binding:"required,gt=0"`
}

// EquipmentService keeps the storage stock and the units placed on each court.
// Units assigned to a court leave the stock, and return to it when removed.
type EquipmentService interface {
	CreateEquipment(ctx context.Context, req EquipmentRequest) (*models.Equipment, error)
	GetEquipmentByID(ctx context.Context, equipmentID int64) (*models.Equipment, error)
	GetEquipment(ctx context.Context) ([]models.Equipment, error)
	RenameEquipment(ctx context.Context, equipmentID int64, req RenameEquipmentRequest) (*models.Equipment, error)
	AddStock(ctx context.Context, equipmentID int64, quantity int) (*models.Equipment, error)
	RemoveStock(ctx context.Context, equipmentID int64, quantity int) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID int64) error

	AssignToCourt(ctx context.Context, req AssignEquipmentRequest) (*models.CourtEquipment, error)
	GetAssignmentByID(ctx context.Context, assignmentID int64) (*models.CourtEquipment, error)
	GetAssignments(ctx context.Context, courtID *int64) ([]models.CourtEquipment, error)
	IncreaseAssignment(ctx context.Context, assignmentID int64, quantity int) (*models.CourtEquipment, error)
	DecreaseAssignment(ctx context.Context, assignmentID int64, quantity int) (*models.CourtEquipment, error)
	DeleteAssignment(ctx context.Context, assignmentID int64) error
}

type equipmentService struct {
	equipmentRepo repositories.EquipmentRepository
	courtRepo     repositories.CourtRepository
}

// NewEquipmentService creates a new instance of EquipmentService.
func NewEquipmentService(equipmentRepo repositories.EquipmentRepository, courtRepo repositories.CourtRepository) EquipmentService {
	return &equipmentService{equipmentRepo: equipmentRepo, courtRepo: courtRepo}
}

func mapEquipmentWriteError(err error, what string, id int64) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s ID %d", ErrEntityNotFound, what, id)
	case errors.Is(err, repositories.ErrInsufficientQuantity):
		return fmt.Errorf("%w: %v", ErrInsufficientStock, err)
	case errors.Is(err, repositories.ErrDuplicateKey):
		if what == "equipment" {
			return fmt.Errorf("%w: %v", ErrEquipmentNameTaken, err)
		}
		return fmt.Errorf("%w: %v", ErrEquipmentAlreadyAssigned, err)
	case errors.Is(err, repositories.ErrForeignKey):
		if what == "equipment" {
			return fmt.Errorf("%w: equipment ID %d is assigned to a court", ErrEntityInUse, id)
		}
		return fmt.Errorf("%w: %v", ErrEntityNotFound, err)
	}
	return fmt.Errorf("failed to update %s: %w", what, err)
}

func validQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	return nil
}

func (s *equipmentService) CreateEquipment(ctx context.Context, req EquipmentRequest) (*models.Equipment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: equipment name cannot be empty", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	created, err := s.equipmentRepo.CreateEquipment(ctx, &models.Equipment{Name: name, Stock: req.Stock})
	if err != nil {
		return nil, mapEquipmentWriteError(err, "equipment", 0)
	}
	return created, nil
}

func (s *equipmentService) GetEquipmentByID(ctx context.Context, equipmentID int64) (*models.Equipment, error) {
	equipment, err := s.equipmentRepo.GetEquipmentByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: equipment ID %d", ErrEntityNotFound, equipmentID)
		}
		return nil, fmt.Errorf("failed to get equipment by ID: %w", err)
	}
	return equipment, nil
}

func (s *equipmentService) GetEquipment(ctx context.Context) ([]models.Equipment, error) {
	items, err := s.equipmentRepo.GetEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return items, nil
}

func (s *equipmentService) RenameEquipment(ctx context.Context, equipmentID int64, req RenameEquipmentRequest) (*models.Equipment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: equipment name cannot be empty", ErrValidation)
	}
	renamed, err := s.equipmentRepo.RenameEquipment(ctx, equipmentID, name)
	if err != nil {
		return nil, mapEquipmentWriteError(err, "equipment", equipmentID)
	}
	return renamed, nil
}

func (s *equipmentService) AddStock(ctx context.Context, equipmentID int64, quantity int) (*models.Equipment, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	updated, err := s.equipmentRepo.AdjustStock(ctx, equipmentID, quantity)
	if err != nil {
		return nil, mapEquipmentWriteError(err, "equipment", equipmentID)
	}
	return updated, nil
}

// RemoveStock fails with ErrInsufficientStock instead of letting the stock go negative.
func (s *equipmentService) RemoveStock(ctx context.Context, equipmentID int64, quantity int) (*models.Equipment, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	updated, err := s.equipmentRepo.AdjustStock(ctx, equipmentID, -quantity)
	if err != nil {
		return nil, mapEquipmentWriteError(err, "equipment", equipmentID)
	}
	return updated, nil
}

func (s *equipmentService) DeleteEquipment(ctx context.Context, equipmentID int64) error {
	if err := s.equipmentRepo.DeleteEquipment(ctx, equipmentID); err != nil {
		return mapEquipmentWriteError(err, "equipment", equipmentID)
	}
	return nil
}

func (s *equipmentService) AssignToCourt(ctx context.Context, req AssignEquipmentRequest) (*models.CourtEquipment, error) {
	if req.CourtID <= 0 || req.EquipmentID <= 0 {
		return nil, fmt.Errorf("%w: court and equipment ids must be positive", ErrValidation)
	}
	if err := validQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if _, err := s.courtRepo.GetCourtByID(ctx, req.CourtID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: court ID %d", ErrEntityNotFound, req.CourtID)
		}
		return nil, fmt.Errorf("failed to resolve court: %w", err)
	}
	if _, err := s.GetEquipmentByID(ctx, req.EquipmentID); err != nil {
		return nil, err
	}

	assignment, err := s.equipmentRepo.AssignEquipment(ctx, &models.CourtEquipment{
		CourtID:     req.CourtID,
		EquipmentID: req.EquipmentID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return nil, mapEquipmentWriteError(err, "court equipment", 0)
	}
	return assignment, nil
}

func (s *equipmentService) GetAssignmentByID(ctx context.Context, assignmentID int64) (*models.CourtEquipment, error) {
	assignment, err := s.equipmentRepo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: court equipment ID %d", ErrEntityNotFound, assignmentID)
		}
		return nil, fmt.Errorf("failed to get court equipment by ID: %w", err)
	}
	return assignment, nil
}

func (s *equipmentService) GetAssignments(ctx context.Context, courtID *int64) ([]models.CourtEquipment, error) {
	assignments, err := s.equipmentRepo.GetAssignments(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get court equipment: %w", err)
	}
	return assignments, nil
}

func (s *equipmentService) IncreaseAssignment(ctx context.Context, assignmentID int64, quantity int) (*models.CourtEquipment, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	updated, err := s.equipmentRepo.AdjustAssignment(ctx, assignmentID, quantity)
	if err != nil {
		return nil, mapEquipmentWriteError(err, "court equipment", assignmentID)
	}
	return updated, nil
}

func (s *equipmentService) DecreaseAssignment(ctx context.Context, assignmentID int64, quantity int) (*models.CourtEquipment, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	updated, err := s.equipmentRepo.AdjustAssignment(ctx, assignmentID, -quantity)
	if err != nil {
		return nil, mapEquipmentWriteError(err, "court equipment", assignmentID)
	}
	return updated, nil
}

func (s *equipmentService) DeleteAssignment(ctx context.Context, assignmentID int64) error {
	if err := s.equipmentRepo.DeleteAssignment(ctx, assignmentID); err != nil {
		return mapEquipmentWriteError(err, "court equipment", assignmentID)
	}
	return nil
}
