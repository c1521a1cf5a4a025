package services

import (
	"context"
	"fmt"
	"time"

	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"
)

// ConflictChecker decides whether a candidate slot may be booked.
// Slots are compared by exact (date, time) equality; there is no notion of duration.
type ConflictChecker struct {
	reservations repositories.ReservationRepository
	now          Clock
}

// NewConflictChecker creates a ConflictChecker over the reservation store.
func NewConflictChecker(reservations repositories.ReservationRepository, now Clock) *ConflictChecker {
	return &ConflictChecker{reservations: reservations, now: now}
}

// CheckCourtSlot fails with ErrSlotAlreadyBooked when another reservation holds the court slot.
// excludeID is the reservation being replaced, nil on create.
func (cc *ConflictChecker) CheckCourtSlot(ctx context.Context, courtID int64, date time.Time, at models.TimeOfDay, excludeID *int64) error {
	return cc.checkCourt(ctx, courtID, date, at, excludeID, ErrSlotAlreadyBooked)
}

// CheckCourtSlotForUpdate applies the court rule to a modified reservation, failing with ErrCourtDoubleBooked.
func (cc *ConflictChecker) CheckCourtSlotForUpdate(ctx context.Context, courtID int64, date time.Time, at models.TimeOfDay, excludeID int64) error {
	return cc.checkCourt(ctx, courtID, date, at, &excludeID, ErrCourtDoubleBooked)
}

func (cc *ConflictChecker) checkCourt(ctx context.Context, courtID int64, date time.Time, at models.TimeOfDay, excludeID *int64, conflict error) error {
	available, err := cc.reservations.CheckCourtAvailability(ctx, courtID, models.DateOf(date), at, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check court availability: %w", err)
	}
	if !available {
		return fmt.Errorf("%w: court %d on %s at %s", conflict, courtID, date.Format(models.DateLayout), at)
	}
	return nil
}

// CheckClientSlot fails with ErrClientDoubleBooked when the client already holds the slot.
func (cc *ConflictChecker) CheckClientSlot(ctx context.Context, clientID int64, date time.Time, at models.TimeOfDay, excludeID *int64) error {
	available, err := cc.reservations.CheckClientAvailability(ctx, clientID, models.DateOf(date), at, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check client availability: %w", err)
	}
	if !available {
		return fmt.Errorf("%w: client %d on %s at %s", ErrClientDoubleBooked, clientID, date.Format(models.DateLayout), at)
	}
	return nil
}

// CheckDate fails with ErrPastDate when the date is before today.
func (cc *ConflictChecker) CheckDate(date time.Time) error {
	today, _ := cc.now.today()
	if models.DateOf(date).Before(today) {
		return fmt.Errorf("%w: %s", ErrPastDate, date.Format(models.DateLayout))
	}
	return nil
}

// CheckTime fails with ErrPastTime when the date is today and the slot is earlier than now.
func (cc *ConflictChecker) CheckTime(date time.Time, at models.TimeOfDay) error {
	today, nowTime := cc.now.today()
	if models.DateOf(date).Equal(today) && at < nowTime {
		return fmt.Errorf("%w: %s", ErrPastTime, at)
	}
	return nil
}
