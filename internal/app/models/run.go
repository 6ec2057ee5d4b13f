package models

import (
	"time"

	"github.com/google/uuid"
)

// Run defines a scheduled pickup game based on the 'runs' table.
// Exactly one of Cost and TotalCost is set depending on IsVariableCost.
type Run struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Date           time.Time  `json:"date" db:"date"`
	StartTime      string     `json:"start_time" db:"start_time"`
	EndTime        string     `json:"end_time" db:"end_time"`
	LocationID     uuid.UUID  `json:"location_id" db:"location_id"`
	Description    *string    `json:"description" db:"description"`
	Capacity       *int       `json:"capacity" db:"capacity"`
	Cost           *float64   `json:"cost" db:"cost"`
	IsVariableCost bool       `json:"is_variable_cost" db:"is_variable_cost"`
	TotalCost      *float64   `json:"total_cost" db:"total_cost"`
	CreatedBy      uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	IsHistorical   bool       `json:"is_historical" db:"is_historical"`
	IsCompleted    bool       `json:"is_completed" db:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	CompletedBy    *uuid.UUID `json:"completed_by" db:"completed_by"`
	GuestAttendees []string   `json:"guest_attendees" db:"guest_attendees"`
}

// RunParticipant defines a user's RSVP row based on the 'run_participants'
// table. (run_id, user_id) is unique.
type RunParticipant struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	RunID     uuid.UUID  `json:"run_id" db:"run_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Status    RSVPStatus `json:"status" db:"status"`
	Attended  bool       `json:"attended" db:"attended"`
	NoShow    bool       `json:"no_show" db:"no_show"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	// Populated by explicit joins, never lazily
	User *User `json:"user,omitempty"`
}
