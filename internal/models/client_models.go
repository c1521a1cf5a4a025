package models

import (
	"strings"
	"time"
)

// Client represents a person who books courts
type Client struct {
	ID           int64      `json:"id" db:"id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	DNI          int64      `json:"dni" db:"dni"` // National id number, unique
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Street       *string    `json:"street,omitempty" db:"street"`
	StreetNumber *int       `json:"street_number,omitempty" db:"street_number"`
	Phone        *int64     `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name the way confirmations print it.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
