package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation ("turno") is one court booked by one client at an exact date and time of day.
// Reads always populate Client and Court.
type Reservation struct {
	ID        int64     `json:"id" db:"id"`
	ClientID  int64     `json:"client_id" db:"client_id"`
	CourtID   int64     `json:"court_id" db:"court_id"`
	Date      time.Time `json:"date" db:"reservation_date"` // midnight UTC, date-only
	Time      TimeOfDay `json:"time" db:"reservation_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Client    *Client   `json:"client,omitempty"`
	Court     *Court    `json:"court,omitempty"`
}

// ReservationFilters narrows reservation listings.
// DateFrom and DateTo are inclusive. ClientTerm and ClientDNI are OR-ed with each other,
// every other filter is AND-ed.
type ReservationFilters struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	ClientID   *int64
	CourtID    *int64
	ClientTerm *string // substring of first or last name, case-insensitive
	ClientDNI  *int64
}

// ReservationConfirmation is returned after a successful booking.
type ReservationConfirmation struct {
	Reservation    *Reservation    `json:"reservation"`
	Date           string          `json:"date"` // YYYY-MM-DD
	Time           string          `json:"time"` // HH:MM
	CourtName      string          `json:"court_name"`
	ClientName     string          `json:"client_name"`
	PricePerPlayer decimal.Decimal `json:"price_per_player"`
	Message        string          `json:"message"`
}

// DateLayout is the wire and storage format of reservation dates.
const DateLayout = "2006-01-02"

// DateOf keeps only the calendar date of t, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
