package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"canchas_backend/internal/cache"
	"canchas_backend/internal/events"
	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// --- Reservation DTOs ---
type CreateReservationRequest struct {
	ClientID int64  `json:"client_id" binding:"required,gt=0"`
	CourtID  int64  `json:"court_id" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,isodate"` // YYYY-MM-DD
	Time     string `json:"time" binding:"required"`         // HH:MM, parsed by the service
}

type UpdateReservationRequest struct {
	ClientID int64  `json:"client_id" binding:"required,gt=0"`
	CourtID  int64  `json:"court_id" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,isodate"`
	Time     string `json:"time" binding:"required"`
}

const ReservationUpdatedMessage = "Reservation updated successfully"

// --- ReservationService Interface ---
type ReservationService interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*models.ReservationConfirmation, error)
	UpdateReservation(ctx context.Context, reservationID int64, req UpdateReservationRequest) (string, error)
	DeleteReservation(ctx context.Context, reservationID int64) error
	GetReservationByID(ctx context.Context, reservationID int64) (*models.Reservation, error)
	GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error)
}

// --- reservationService Implementation ---
type reservationService struct {
	reservationRepo repositories.ReservationRepository
	courtRepo       repositories.CourtRepository
	clientRepo      repositories.ClientRepository
	checker         *ConflictChecker
	publisher       events.Publisher
	revenueCache    cache.RevenueCache
	now             Clock
}

// NewReservationService creates a new instance of ReservationService.
// publisher and revenueCache may be nil.
func NewReservationService(
	rr repositories.ReservationRepository,
	cr repositories.CourtRepository,
	clr repositories.ClientRepository,
	publisher events.Publisher,
	revenueCache cache.RevenueCache,
	now Clock,
) ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if revenueCache == nil {
		revenueCache = cache.NopRevenueCache{}
	}
	if now == nil {
		now = SystemClock(time.Local)
	}
	return &reservationService{
		reservationRepo: rr,
		courtRepo:       cr,
		clientRepo:      clr,
		checker:         NewConflictChecker(rr, now),
		publisher:       publisher,
		revenueCache:    revenueCache,
		now:             now,
	}
}

func parseSlot(dateText, timeText string) (time.Time, models.TimeOfDay, error) {
	date, err := ParseDate(dateText)
	if err != nil {
		return time.Time{}, 0, err
	}
	at, err := models.ParseTimeOfDay(timeText)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, strings.TrimSpace(timeText))
	}
	return date, at, nil
}

func validateIDs(clientID, courtID int64) error {
	if clientID <= 0 {
		return fmt.Errorf("%w: client_id must be a positive integer", ErrValidation)
	}
	if courtID <= 0 {
		return fmt.Errorf("%w: court_id must be a positive integer", ErrValidation)
	}
	return nil
}

// resolveCourtAndClient loads the current catalog records referenced by a reservation.
func (s *reservationService) resolveCourtAndClient(ctx context.Context, courtID, clientID int64) (*models.Court, *models.Client, error) {
	court, err := s.courtRepo.GetCourtByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: court ID %d", ErrEntityNotFound, courtID)
		}
		return nil, nil, fmt.Errorf("failed to fetch court: %w", err)
	}
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: client ID %d", ErrEntityNotFound, clientID)
		}
		return nil, nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	return court, client, nil
}

// PricePerPlayer splits the court price evenly among the players of its sport.
func PricePerPlayer(court *models.Court) (decimal.Decimal, error) {
	if court.Sport == nil || court.Sport.PlayersPerMatch <= 0 {
		return decimal.Zero, fmt.Errorf("%w: court %q", ErrInvalidSportConfiguration, court.Name)
	}
	return court.Price.Div(decimal.NewFromInt(int64(court.Sport.PlayersPerMatch))), nil
}

// mapSlotConflict turns a store-level uniqueness violation into the scheduler's conflict error.
// It covers writes that raced past the pre-checks.
func mapSlotConflict(err error, courtConflict error) error {
	switch {
	case errors.Is(err, repositories.ErrCourtSlotTaken):
		return fmt.Errorf("%w: %v", courtConflict, err)
	case errors.Is(err, repositories.ErrClientSlotTaken):
		return fmt.Errorf("%w: %v", ErrClientDoubleBooked, err)
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrEntityNotFound, err)
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrEntityNotFound, err)
	}
	return err
}

func (s *reservationService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*models.ReservationConfirmation, error) {
	if err := validateIDs(req.ClientID, req.CourtID); err != nil {
		return nil, err
	}
	date, at, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	court, client, err := s.resolveCourtAndClient(ctx, req.CourtID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.checker.CheckCourtSlot(ctx, court.ID, date, at, nil); err != nil {
		return nil, err
	}
	if err := s.checker.CheckClientSlot(ctx, client.ID, date, at, nil); err != nil {
		return nil, err
	}
	if err := s.checker.CheckDate(date); err != nil {
		return nil, err
	}
	if err := s.checker.CheckTime(date, at); err != nil {
		return nil, err
	}
	perPlayer, err := PricePerPlayer(court)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		ClientID: client.ID,
		CourtID:  court.ID,
		Date:     date,
		Time:     at,
	}
	created, err := s.reservationRepo.CreateReservation(ctx, reservation)
	if err != nil {
		return nil, mapSlotConflict(err, ErrSlotAlreadyBooked)
	}
	created.Client = client
	created.Court = court

	s.afterWrite(ctx, events.ReservationCreated, created)

	confirmation := &models.ReservationConfirmation{
		Reservation:    created,
		Date:           created.Date.Format(models.DateLayout),
		Time:           created.Time.String(),
		CourtName:      court.Name,
		ClientName:     client.FullName(),
		PricePerPlayer: perPlayer.Round(2),
	}
	confirmation.Message = fmt.Sprintf(
		"Reservation registered successfully.\nDate: %s\nTime: %s\nCourt: %s\nClient: %s\nPrice per player: $%s",
		confirmation.Date, confirmation.Time, confirmation.CourtName, confirmation.ClientName,
		perPlayer.StringFixed(2))
	return confirmation, nil
}

func (s *reservationService) UpdateReservation(ctx context.Context, reservationID int64, req UpdateReservationRequest) (string, error) {
	if reservationID <= 0 {
		return "", fmt.Errorf("%w: reservation id must be a positive integer", ErrValidation)
	}
	if err := validateIDs(req.ClientID, req.CourtID); err != nil {
		return "", err
	}

	existing, err := s.reservationRepo.GetReservationByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", fmt.Errorf("%w: reservation ID %d", ErrEntityNotFound, reservationID)
		}
		return "", fmt.Errorf("failed to fetch reservation: %w", err)
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return "", err
	}
	if err := s.checker.CheckDate(date); err != nil {
		return "", err
	}
	at, err := models.ParseTimeOfDay(req.Time)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, strings.TrimSpace(req.Time))
	}
	if err := s.checker.CheckTime(date, at); err != nil {
		return "", err
	}

	court, client, err := s.resolveCourtAndClient(ctx, req.CourtID, req.ClientID)
	if err != nil {
		return "", err
	}
	if err := s.checker.CheckCourtSlotForUpdate(ctx, court.ID, date, at, existing.ID); err != nil {
		return "", err
	}
	if err := s.checker.CheckClientSlot(ctx, client.ID, date, at, &existing.ID); err != nil {
		return "", err
	}

	existing.ClientID = client.ID
	existing.CourtID = court.ID
	existing.Date = date
	existing.Time = at
	updated, err := s.reservationRepo.UpdateReservation(ctx, existing)
	if err != nil {
		return "", mapSlotConflict(err, ErrCourtDoubleBooked)
	}
	updated.Client = client
	updated.Court = court

	s.afterWrite(ctx, events.ReservationUpdated, updated)
	return ReservationUpdatedMessage, nil
}

func (s *reservationService) DeleteReservation(ctx context.Context, reservationID int64) error {
	existing, err := s.reservationRepo.GetReservationByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: reservation ID %d", ErrEntityNotFound, reservationID)
		}
		return fmt.Errorf("failed to fetch reservation: %w", err)
	}
	if err := s.reservationRepo.DeleteReservation(ctx, reservationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: reservation ID %d", ErrEntityNotFound, reservationID)
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.afterWrite(ctx, events.ReservationDeleted, existing)
	return nil
}

func (s *reservationService) GetReservationByID(ctx context.Context, reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: reservation ID %d", ErrEntityNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return reservation, nil
}

func (s *reservationService) GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error) {
	reservations, err := s.reservationRepo.GetReservations(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// afterWrite runs once a change is committed. Failures are logged, never returned:
// the reservation is already stored.
func (s *reservationService) afterWrite(ctx context.Context, eventType string, r *models.Reservation) {
	s.revenueCache.Invalidate(ctx)

	event := events.NewReservationEvent(eventType, r, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("event_type", eventType).
			Int64("reservation_id", r.ID).
			Msg("Failed to publish reservation event")
	}
}
