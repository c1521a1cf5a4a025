package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sport defines how many players share a court booking
type Sport struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	PlayersPerMatch int       `json:"players_per_match" db:"players_per_match"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Court represents a bookable court ("cancha") with a flat price per booking
type Court struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	SportID   *int64          `json:"sport_id,omitempty" db:"sport_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	Sport     *Sport          `json:"sport,omitempty"` // For joining with Sport details
}
