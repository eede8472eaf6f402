// Package models defines the data structures that map to database tables
// and the content records that flow through the generation pipeline.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns generated sites and holds a credit balance.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Credits      int       `json:"credits"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanAfford reports whether the user's balance covers a charge of cost credits.
func (u *User) CanAfford(cost int) bool {
	return cost <= 0 || u.Credits >= cost
}
