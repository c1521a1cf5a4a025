package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
)

func TestClassifyWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"court slot", &pq.Error{Code: "23505", Constraint: constraintCourtSlot}, ErrCourtSlotTaken},
		{"client slot", &pq.Error{Code: "23505", Constraint: constraintClientSlot}, ErrClientSlotTaken},
		{"other unique", &pq.Error{Code: "23505", Constraint: "courts_name_key"}, ErrDuplicateKey},
		{"foreign key", &pq.Error{Code: "23503", Constraint: "reservations_court_id_fkey"}, ErrForeignKey},
		{"stock check", &pq.Error{Code: "23514", Constraint: constraintEquipmentStock}, ErrInsufficientQuantity},
		{"quantity check", &pq.Error{Code: "23514", Constraint: constraintCourtEquipmentQuantity}, ErrInsufficientQuantity},
		{"other check", &pq.Error{Code: "23514", Constraint: "sports_players_per_match_check"}, ErrDatabaseError},
		{"not a driver error", sql.ErrConnDone, ErrDatabaseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyWriteError(tt.err, "insert")
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyWriteError = %v, want %v", got, tt.want)
			}
		})
	}

	// Slot conflicts are still duplicates for callers that only check the general kind.
	if !errors.Is(classifyWriteError(&pq.Error{Code: "23505", Constraint: constraintCourtSlot}, "insert"), ErrDuplicateKey) {
		t.Error("court slot conflict is not an ErrDuplicateKey")
	}
	if errors.Is(classifyWriteError(&pq.Error{Code: "23505", Constraint: "courts_name_key"}, "insert"), ErrCourtSlotTaken) {
		t.Error("name conflict reported as a slot conflict")
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	for in, want := range map[string]string{
		"Perez":    `%Perez%`,
		`50%_off\`: `%50\%\_off\\%`,
		"o'brien":  `%o'brien%`,
		"":         `%%`,
	} {
		if got := containsPattern(in); got != want {
			t.Errorf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}
