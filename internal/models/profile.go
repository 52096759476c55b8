package models

import (
	"time"
)

// Profile represents a family member identified by display name and PIN.
// The ID is the canonicalized display name, so there is exactly one profile
// per allowed family name. Profiles are created on first successful login
// and never deleted.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	PIN         string    `json:"-"` // shared-secret convenience, never serialized
	CreatedAt   time.Time `json:"created_at"`
}
