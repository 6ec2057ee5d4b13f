package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	Badge             *Badge     `json:"badge" db:"badge"`
	ReferredBy        *uuid.UUID `json:"referred_by" db:"referred_by"`
	RunsAttendedCount int        `json:"runs_attended_count" db:"runs_attended_count"`
	NoShowsCount      int        `json:"no_shows_count" db:"no_shows_count"`
	IsAdmin           bool       `json:"is_admin" db:"is_admin"`
	IsVerified        bool       `json:"is_verified" db:"is_verified"`
	ResetToken        *string    `json:"-" db:"reset_token"`
	ResetTokenExpires *time.Time `json:"-" db:"reset_token_expires"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// DisplayName returns the name used when sorting and addressing the user
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
