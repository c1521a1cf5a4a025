package models

import "time"

// Equipment is an item kept in storage (balls, nets, rackets). Stock counts the units
// that are not assigned to any court.
type Equipment struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Stock     int       `json:"stock" db:"stock"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CourtEquipment records how many units of an equipment item sit on a court.
type CourtEquipment struct {
	ID          int64      `json:"id" db:"id"`
	CourtID     int64      `json:"court_id" db:"court_id"`
	EquipmentID int64      `json:"equipment_id" db:"equipment_id"`
	Quantity    int        `json:"quantity" db:"quantity"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Court       *Court     `json:"court,omitempty"`
	Equipment   *Equipment `json:"equipment,omitempty"`
}
