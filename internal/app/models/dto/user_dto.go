package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/pkg/helpers"
)

// ReferrerView identifies the user who referred a plus_one member
type ReferrerView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// UserView is the public representation of a user. Attendance rate is
// derived from the attended/no-show counters at read time.
type UserView struct {
	ID                uuid.UUID     `json:"id"`
	Username          string        `json:"username"`
	Email             string        `json:"email"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	Badge             *models.Badge `json:"badge"`
	ReferredBy        *uuid.UUID    `json:"referred_by"`
	Referrer          *ReferrerView `json:"referrer"`
	RunsAttendedCount int           `json:"runs_attended_count"`
	NoShowsCount      int           `json:"no_shows_count"`
	AttendanceRate    *float64      `json:"attendance_rate"`
	IsAdmin           bool          `json:"is_admin"`
	IsVerified        bool          `json:"is_verified"`
	CreatedAt         time.Time     `json:"created_at"`
}

// NewUserView builds the public view of a user. The referrer, when present,
// is loaded by the caller through the repository (no lazy loading).
func NewUserView(user *models.User, referrer *models.User) UserView {
	view := UserView{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Badge:             user.Badge,
		ReferredBy:        user.ReferredBy,
		RunsAttendedCount: user.RunsAttendedCount,
		NoShowsCount:      user.NoShowsCount,
		IsAdmin:           user.IsAdmin,
		IsVerified:        user.IsVerified,
		CreatedAt:         user.CreatedAt,
	}

	if total := user.RunsAttendedCount + user.NoShowsCount; total > 0 {
		rate := helpers.Round1(float64(user.RunsAttendedCount) / float64(total) * 100)
		view.AttendanceRate = &rate
	}

	if referrer != nil {
		view.Referrer = &ReferrerView{
			ID:        referrer.ID,
			Username:  referrer.Username,
			FirstName: referrer.FirstName,
			LastName:  referrer.LastName,
		}
	}

	return view
}

// UserResponse wraps a single user
type UserResponse struct {
	User UserView `json:"user"`
}

// UpdateProfileRequest is the payload for profile edits
type UpdateProfileRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// CommunityResponse groups all members by badge for the community page
type CommunityResponse struct {
	Users map[string][]UserView `json:"users"`
}
