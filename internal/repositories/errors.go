package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq" // For pq.Error
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrCourtSlotTaken is returned when another reservation already holds the (court, date, time) slot.
	ErrCourtSlotTaken = fmt.Errorf("%w: court slot already reserved", ErrDuplicateKey)

	// ErrClientSlotTaken is returned when the client already holds a reservation at (date, time).
	ErrClientSlotTaken = fmt.Errorf("%w: client slot already reserved", ErrDuplicateKey)

	// ErrForeignKey is returned when a referenced record is missing or a record is still referenced.
	ErrForeignKey = errors.New("foreign key constraint violated")

	// ErrInsufficientQuantity is returned when a stock or court quantity would drop below zero.
	ErrInsufficientQuantity = errors.New("quantity cannot drop below zero")
)

// Constraint names declared in schema.sql.
const (
	constraintCourtSlot  = "reservations_court_slot_key"
	constraintClientSlot = "reservations_client_slot_key"

	constraintEquipmentStock         = "equipment_stock_check"
	constraintCourtEquipmentQuantity = "court_equipment_quantity_check"
)

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
// This allows for generic scanning helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

// classifyWriteError maps driver errors of INSERT/UPDATE/DELETE statements onto repository errors.
func classifyWriteError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			switch pqErr.Constraint {
			case constraintCourtSlot:
				return ErrCourtSlotTaken
			case constraintClientSlot:
				return ErrClientSlotTaken
			}
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrForeignKey, pqErr.Message, pqErr.Constraint)
		case "check_violation":
			if pqErr.Constraint == constraintEquipmentStock || pqErr.Constraint == constraintCourtEquipmentQuantity {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrInsufficientQuantity, pqErr.Message, pqErr.Constraint)
			}
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
