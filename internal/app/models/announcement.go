package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement defines a site-wide banner message based on the
// 'announcements' table. At most one row is active at a time.
type Announcement struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Message   string    `json:"message" db:"message"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	IsActive  bool      `json:"is_active" db:"is_active"`
}
