package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canchas_backend/internal/cache"
	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- Sport and Court DTOs ---
type SportRequest struct {
	Name            string `json:"name" binding:"required"`
	PlayersPerMatch int    `json:"players_per_match" binding:"required,gt=0"`
}

type CourtRequest struct {
	Name    string          `json:"name" binding:"required"`
	Price   decimal.Decimal `json:"price"`
	SportID *int64          `json:"sport_id" binding:"omitempty,gt=0"`
}

// --- SportService Interface ---
type SportService interface {
	CreateSport(ctx context.Context, req SportRequest) (*models.Sport, error)
	GetSportByID(ctx context.Context, sportID int64) (*models.Sport, error)
	GetSports(ctx context.Context) ([]models.Sport, error)
	UpdateSport(ctx context.Context, sportID int64, req SportRequest) (*models.Sport, error)
	DeleteSport(ctx context.Context, sportID int64) error
}

// --- CourtService Interface ---
type CourtService interface {
	CreateCourt(ctx context.Context, req CourtRequest) (*models.Court, error)
	GetCourtByID(ctx context.Context, courtID int64) (*models.Court, error)
	GetCourts(ctx context.Context) ([]models.Court, error)
	UpdateCourt(ctx context.Context, courtID int64, req CourtRequest) (*models.Court, error)
	DeleteCourt(ctx context.Context, courtID int64) error
}

type sportService struct {
	sportRepo repositories.SportRepository
}

// NewSportService creates a new instance of SportService.
func NewSportService(repo repositories.SportRepository) SportService {
	return &sportService{sportRepo: repo}
}

func validateSport(req SportRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: sport name cannot be empty", ErrValidation)
	}
	if req.PlayersPerMatch <= 0 {
		return fmt.Errorf("%w: players per match must be greater than zero", ErrValidation)
	}
	return nil
}

func (s *sportService) CreateSport(ctx context.Context, req SportRequest) (*models.Sport, error) {
	if err := validateSport(req); err != nil {
		return nil, err
	}
	sport := &models.Sport{Name: strings.TrimSpace(req.Name), PlayersPerMatch: req.PlayersPerMatch}
	created, err := s.sportRepo.CreateSport(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to create sport: %w", err)
	}
	return created, nil
}

func (s *sportService) GetSportByID(ctx context.Context, sportID int64) (*models.Sport, error) {
	sport, err := s.sportRepo.GetSportByID(ctx, sportID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: sport ID %d", ErrEntityNotFound, sportID)
		}
		return nil, fmt.Errorf("failed to get sport: %w", err)
	}
	return sport, nil
}

func (s *sportService) GetSports(ctx context.Context) ([]models.Sport, error) {
	sports, err := s.sportRepo.GetSports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sports: %w", err)
	}
	return sports, nil
}

func (s *sportService) UpdateSport(ctx context.Context, sportID int64, req SportRequest) (*models.Sport, error) {
	if err := validateSport(req); err != nil {
		return nil, err
	}
	sport := &models.Sport{ID: sportID, Name: strings.TrimSpace(req.Name), PlayersPerMatch: req.PlayersPerMatch}
	updated, err := s.sportRepo.UpdateSport(ctx, sport)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: sport ID %d", ErrEntityNotFound, sportID)
		}
		return nil, fmt.Errorf("failed to update sport: %w", err)
	}
	return updated, nil
}

func (s *sportService) DeleteSport(ctx context.Context, sportID int64) error {
	if err := s.sportRepo.DeleteSport(ctx, sportID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: sport ID %d", ErrEntityNotFound, sportID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: sport ID %d is assigned to courts", ErrEntityInUse, sportID)
		}
		return fmt.Errorf("failed to delete sport: %w", err)
	}
	return nil
}

type courtService struct {
	courtRepo    repositories.CourtRepository
	sportRepo    repositories.SportRepository
	revenueCache cache.RevenueCache
}

// NewCourtService creates a new instance of CourtService. Revenue is summed from current
// court prices, so court writes invalidate revenueCache; it may be nil.
func NewCourtService(courtRepo repositories.CourtRepository, sportRepo repositories.SportRepository, revenueCache cache.RevenueCache) CourtService {
	if revenueCache == nil {
		revenueCache = cache.NopRevenueCache{}
	}
	return &courtService{courtRepo: courtRepo, sportRepo: sportRepo, revenueCache: revenueCache}
}

func (s *courtService) validateCourt(ctx context.Context, req CourtRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: court name cannot be empty", ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.SportID != nil {
		if _, err := s.sportRepo.GetSportByID(ctx, *req.SportID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: sport ID %d", ErrEntityNotFound, *req.SportID)
			}
			return fmt.Errorf("failed to validate sport: %w", err)
		}
	}
	return nil
}

func mapCourtWriteError(err error, action string, courtID int64) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %v", ErrCourtNameTaken, err)
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: court ID %d", ErrEntityNotFound, courtID)
	case errors.Is(err, repositories.ErrForeignKey):
		if action == "delete" {
			return fmt.Errorf("%w: court ID %d has reservations or equipment", ErrEntityInUse, courtID)
		}
		return fmt.Errorf("%w: sport", ErrEntityNotFound)
	}
	return fmt.Errorf("failed to %s court: %w", action, err)
}

func (s *courtService) CreateCourt(ctx context.Context, req CourtRequest) (*models.Court, error) {
	if err := s.validateCourt(ctx, req); err != nil {
		return nil, err
	}
	court := &models.Court{Name: strings.TrimSpace(req.Name), Price: req.Price, SportID: req.SportID}
	created, err := s.courtRepo.CreateCourt(ctx, court)
	if err != nil {
		return nil, mapCourtWriteError(err, "create", 0)
	}
	return s.GetCourtByID(ctx, created.ID)
}

func (s *courtService) GetCourtByID(ctx context.Context, courtID int64) (*models.Court, error) {
	court, err := s.courtRepo.GetCourtByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: court ID %d", ErrEntityNotFound, courtID)
		}
		return nil, fmt.Errorf("failed to get court: %w", err)
	}
	return court, nil
}

func (s *courtService) GetCourts(ctx context.Context) ([]models.Court, error) {
	courts, err := s.courtRepo.GetCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get courts: %w", err)
	}
	return courts, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, courtID int64, req CourtRequest) (*models.Court, error) {
	if err := s.validateCourt(ctx, req); err != nil {
		return nil, err
	}
	court := &models.Court{ID: courtID, Name: strings.TrimSpace(req.Name), Price: req.Price, SportID: req.SportID}
	if _, err := s.courtRepo.UpdateCourt(ctx, court); err != nil {
		return nil, mapCourtWriteError(err, "update", courtID)
	}
	s.revenueCache.Invalidate(ctx)
	return s.GetCourtByID(ctx, courtID)
}

func (s *courtService) DeleteCourt(ctx context.Context, courtID int64) error {
	if err := s.courtRepo.DeleteCourt(ctx, courtID); err != nil {
		return mapCourtWriteError(err, "delete", courtID)
	}
	s.revenueCache.Invalidate(ctx)
	return nil
}
