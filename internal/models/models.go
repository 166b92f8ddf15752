package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never exposed in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// Capsule is a time-locked message. Its visibility state (locked, unlocked,
// expired) is never stored; it is derived from UnlockAt and the current time.
type Capsule struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Message    string    `json:"message"`
	UnlockAt   time.Time `json:"unlock_at"`
	UnlockCode string    `json:"unlock_code"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
