package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/zachm/hooprun/internal/app/models"
)

// VerifyUserRequest toggles a user's verified flag
type VerifyUserRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// AssignBadgeRequest sets or clears a user's badge. A plus_one badge
// requires a referrer holding the regular badge.
type AssignBadgeRequest struct {
	Badge      *string `json:"badge"`
	ReferredBy *string `json:"referred_by"`
}

// BulkAssignBadgeRequest assigns the regular badge to many users at once
type BulkAssignBadgeRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1"`
	Badge   string   `json:"badge" binding:"required"`
}

// CompleteRunRequest finalizes attendance for a run
type CompleteRunRequest struct {
	AttendedUserIDs []string `json:"attended_user_ids"`
	NoShowUserIDs   []string `json:"no_show_user_ids"`
	ExtraAttendees  []string `json:"extra_attendees"`
	GuestAttendees  []string `json:"guest_attendees"`
}

// RemindRunRequest carries the reminder text; it is sent, never stored
type RemindRunRequest struct {
	Message string `json:"message" binding:"required,max=100"`
}

// ImportParticipants lists usernames by RSVP status for one imported run
type ImportParticipants struct {
	Confirmed  []string `json:"confirmed"`
	Interested []string `json:"interested"`
	Out        []string `json:"out"`
}

// ImportRun is one historical run in an import batch
type ImportRun struct {
	Title        string              `json:"title"`
	Date         string              `json:"date"`
	StartTime    string              `json:"start_time"`
	EndTime      string              `json:"end_time"`
	Location     string              `json:"location"`
	Capacity     *int                `json:"capacity"`
	Cost         *float64            `json:"cost"`
	Participants *ImportParticipants `json:"participants"`
}

// ImportRunsRequest is the bulk historical import payload
type ImportRunsRequest struct {
	Runs []ImportRun `json:"runs" binding:"required,min=1"`
}

// ImportRunsResponse reports per-row outcomes of an import batch
type ImportRunsResponse struct {
	Message       string   `json:"message"`
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors"`
}

// CreateAnnouncementRequest replaces the active announcement
type CreateAnnouncementRequest struct {
	Message string `json:"message" binding:"required"`
}

// AnnouncementView is the public representation of an announcement
type AnnouncementView struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// NewAnnouncementView builds the public view of an announcement
func NewAnnouncementView(a *models.Announcement) AnnouncementView {
	return AnnouncementView{
		ID:        a.ID,
		Message:   a.Message,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		IsActive:  a.IsActive,
	}
}

// AnnouncementResponse wraps the active announcement, null when none
type AnnouncementResponse struct {
	Message      string            `json:"message,omitempty"`
	Announcement *AnnouncementView `json:"announcement"`
}

// UserListResponse wraps the admin user listing
type UserListResponse struct {
	Users []UserView `json:"users"`
}
