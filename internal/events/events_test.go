package events

import (
	"encoding/json"
	"testing"
	"time"

	"canchas_backend/internal/models"

	"github.com/shopspring/decimal"
)

func TestNewReservationEvent(t *testing.T) {
	r := &models.Reservation{
		ID:       11,
		ClientID: 2,
		CourtID:  3,
		Date:     time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		Time:     models.NewTimeOfDay(18, 0),
		Client:   &models.Client{FirstName: "Juan", LastName: "Perez"},
		Court:    &models.Court{Name: "Cancha 1", Price: decimal.NewFromInt(100)},
	}
	at := time.Date(2025, time.May, 9, 12, 0, 0, 0, time.FixedZone("ART", -3*3600))

	e := NewReservationEvent(ReservationCreated, r, at)
	if e.EventID == "" || e.Type != ReservationCreated || e.ReservationID != 11 {
		t.Errorf("event header = %+v", e)
	}
	if e.Date != "2025-05-10" || e.Time != "18:00" || e.CourtPrice != "100.00" || e.ClientName != "Juan Perez" {
		t.Errorf("event body = %+v", e)
	}
	if e.OccurredAt != "2025-05-09T15:00:00Z" {
		t.Errorf("OccurredAt = %s", e.OccurredAt)
	}

	bare := NewReservationEvent(ReservationDeleted, &models.Reservation{ID: 1}, at)
	data, _ := json.Marshal(bare)
	var fields map[string]interface{}
	_ = json.Unmarshal(data, &fields)
	if _, ok := fields["court_name"]; ok {
		t.Errorf("court_name present without a court: %s", data)
	}
}
