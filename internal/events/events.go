// Package events publishes committed reservation changes to a message broker.
package events

import (
	"context"
	"time"

	"canchas_backend/internal/models"

	"github.com/google/uuid"
)

// Event types, also used as routing keys.
const (
	ReservationCreated = "reservation.created"
	ReservationUpdated = "reservation.updated"
	ReservationDeleted = "reservation.deleted"
)

// ReservationEvent carries enough detail for consumers to notify or log
// without querying the primary database.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	ReservationID int64  `json:"reservation_id"`
	ClientID      int64  `json:"client_id"`
	ClientName    string `json:"client_name,omitempty"`
	CourtID       int64  `json:"court_id"`
	CourtName     string `json:"court_name,omitempty"`
	CourtPrice    string `json:"court_price,omitempty"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:MM
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent snapshots r. Client and Court are used when populated.
func NewReservationEvent(eventType string, r *models.Reservation, at time.Time) ReservationEvent {
	event := ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		CourtID:       r.CourtID,
		Date:          r.Date.Format(models.DateLayout),
		Time:          r.Time.String(),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
	if r.Client != nil {
		event.ClientName = r.Client.FullName()
	}
	if r.Court != nil {
		event.CourtName = r.Court.Name
		event.CourtPrice = r.Court.Price.StringFixed(2)
	}
	return event
}

// Publisher delivers reservation events.
type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
func (NopPublisher) Close() error                                 { return nil }
