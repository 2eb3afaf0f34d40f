package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Community users submit reports, officers monitor and confirm them.
const (
	RoleCommunity = "community"
	RoleOfficer   = "officer"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
