package services

import "errors"

// --- Reservation engine errors ---
// Callers match them with errors.Is; messages carry the human-readable detail.
var (
	ErrValidation                = errors.New("validation error")
	ErrInvalidTimeFormat         = errors.New("invalid time format, please use HH:MM")
	ErrEntityNotFound            = errors.New("entity not found")
	ErrPastDate                  = errors.New("cannot book a date earlier than today")
	ErrPastTime                  = errors.New("cannot book a time earlier than the current time")
	ErrSlotAlreadyBooked         = errors.New("the requested slot is already booked")
	ErrClientDoubleBooked        = errors.New("the client already has a reservation on the same date and time")
	ErrCourtDoubleBooked         = errors.New("the court already has a reservation on the same date and time")
	ErrFutureYear                = errors.New("the requested year has not started yet")
	ErrInvalidSportConfiguration = errors.New("the court's sport has no valid player count")
)

// --- Catalog errors ---
var (
	ErrCourtNameTaken     = errors.New("a court with that name already exists")
	ErrDNITaken           = errors.New("a client with that DNI already exists")
	ErrEntityInUse        = errors.New("entity is referenced by other records")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Equipment errors ---
var (
	ErrInsufficientStock        = errors.New("not enough units available")
	ErrEquipmentNameTaken       = errors.New("equipment with that name already exists")
	ErrEquipmentAlreadyAssigned = errors.New("the court already has that equipment, adjust its quantity instead")
)
