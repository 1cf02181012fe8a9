package domain

import "time"

// Identity models an authenticated actor in the system.
type Identity struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile holds what a household member chose to be called.
// Absence of a profile marks a first-time user.
type UserProfile struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
