package dto

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/pkg/helpers"
)

// CreateRunRequest is the payload for run creation
type CreateRunRequest struct {
	Title          string   `json:"title" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	StartTime      string   `json:"start_time" binding:"required"`
	EndTime        string   `json:"end_time" binding:"required"`
	LocationID     string   `json:"location_id" binding:"required"`
	Description    *string  `json:"description"`
	Capacity       *int     `json:"capacity" binding:"omitempty,min=1"`
	Cost           *float64 `json:"cost" binding:"omitempty,min=0"`
	IsVariableCost bool     `json:"is_variable_cost"`
	TotalCost      *float64 `json:"total_cost" binding:"omitempty,min=0"`
}

// UpdateRunRequest is the payload for partial run edits. Nil fields are
// left untouched.
type UpdateRunRequest struct {
	Title          *string  `json:"title"`
	Date           *string  `json:"date"`
	StartTime      *string  `json:"start_time"`
	EndTime        *string  `json:"end_time"`
	LocationID     *string  `json:"location_id"`
	Description    *string  `json:"description"`
	Capacity       *int     `json:"capacity" binding:"omitempty,min=1"`
	Cost           *float64 `json:"cost" binding:"omitempty,min=0"`
	IsVariableCost *bool    `json:"is_variable_cost"`
	TotalCost      *float64 `json:"total_cost" binding:"omitempty,min=0"`
}

// RSVPRequest is the payload for RSVP updates
type RSVPRequest struct {
	Status string `json:"status" binding:"required"`
}

// RunParticipantView names a participant within a run view
type RunParticipantView struct {
	Username  string        `json:"username"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Badge     *models.Badge `json:"badge"`
	Attended  bool          `json:"attended"`
	NoShow    bool          `json:"no_show"`
}

// ParticipantLists splits a run's participants by status plus no-shows
type ParticipantLists struct {
	Confirmed  []RunParticipantView `json:"confirmed"`
	Interested []RunParticipantView `json:"interested"`
	Out        []RunParticipantView `json:"out"`
	NoShow     []RunParticipantView `json:"no_show"`
}

// ParticipantCounts carries the sizes of the participant lists
type ParticipantCounts struct {
	Confirmed  int `json:"confirmed"`
	Interested int `json:"interested"`
	Out        int `json:"out"`
	NoShow     int `json:"no_show"`
}

// RunView is the public representation of a run with its location and
// participants fully resolved.
type RunView struct {
	ID                uuid.UUID          `json:"id"`
	Title             string             `json:"title"`
	Date              string             `json:"date"`
	StartTime         string             `json:"start_time"`
	EndTime           string             `json:"end_time"`
	LocationID        uuid.UUID          `json:"location_id"`
	Location          string             `json:"location"`
	Address           string             `json:"address"`
	Description       *string            `json:"description"`
	Capacity          *int               `json:"capacity"`
	Cost              *float64           `json:"cost"`
	IsVariableCost    bool               `json:"is_variable_cost"`
	TotalCost         *float64           `json:"total_cost"`
	CreatedBy         uuid.UUID          `json:"created_by"`
	CreatedAt         time.Time          `json:"created_at"`
	IsHistorical      bool               `json:"is_historical"`
	IsCompleted       bool               `json:"is_completed"`
	CompletedAt       *time.Time         `json:"completed_at"`
	CompletedBy       *uuid.UUID         `json:"completed_by"`
	GuestAttendees    []string           `json:"guest_attendees"`
	Participants      ParticipantLists   `json:"participants"`
	ParticipantCounts ParticipantCounts  `json:"participant_counts"`
	UserStatus        *models.RSVPStatus `json:"user_status,omitempty"`
}

// PerHeadCost resolves the cost shown for a run. Fixed-cost runs show the
// fixed cost; variable-cost runs split the total across confirmed
// participants, showing the raw total while nobody has confirmed.
func PerHeadCost(run *models.Run, confirmedCount int) *float64 {
	if run.IsVariableCost {
		if run.TotalCost == nil {
			return nil
		}
		total := *run.TotalCost
		if confirmedCount > 0 {
			split := helpers.Round2(total / float64(confirmedCount))
			return &split
		}
		rounded := helpers.Round2(total)
		return &rounded
	}
	if run.Cost == nil {
		return nil
	}
	rounded := helpers.Round2(*run.Cost)
	return &rounded
}

// NewRunView assembles the public view of a run. Participants must carry
// their User rows; the confirmed list is ordered by RSVP time so
// first-come-first-served capacity semantics are visible to clients.
func NewRunView(run *models.Run, location *models.Location, participants []*models.RunParticipant) RunView {
	view := RunView{
		ID:             run.ID,
		Title:          run.Title,
		Date:           helpers.FormatDate(run.Date),
		StartTime:      run.StartTime,
		EndTime:        run.EndTime,
		LocationID:     run.LocationID,
		Description:    run.Description,
		Capacity:       run.Capacity,
		IsVariableCost: run.IsVariableCost,
		TotalCost:      run.TotalCost,
		CreatedBy:      run.CreatedBy,
		CreatedAt:      run.CreatedAt,
		IsHistorical:   run.IsHistorical,
		IsCompleted:    run.IsCompleted,
		CompletedAt:    run.CompletedAt,
		CompletedBy:    run.CompletedBy,
		GuestAttendees: run.GuestAttendees,
	}
	if view.GuestAttendees == nil {
		view.GuestAttendees = []string{}
	}
	if location != nil {
		view.Location = location.Name
		view.Address = location.Address
	}

	sorted := make([]*models.RunParticipant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.Before(sorted[j].UpdatedAt)
	})

	lists := ParticipantLists{
		Confirmed:  []RunParticipantView{},
		Interested: []RunParticipantView{},
		Out:        []RunParticipantView{},
		NoShow:     []RunParticipantView{},
	}
	for _, p := range sorted {
		if p.User == nil {
			continue
		}
		pv := RunParticipantView{
			Username:  p.User.Username,
			FirstName: p.User.FirstName,
			LastName:  p.User.LastName,
			Badge:     p.User.Badge,
			Attended:  p.Attended,
			NoShow:    p.NoShow,
		}
		switch p.Status {
		case models.StatusConfirmed:
			lists.Confirmed = append(lists.Confirmed, pv)
		case models.StatusInterested:
			lists.Interested = append(lists.Interested, pv)
		case models.StatusOut:
			lists.Out = append(lists.Out, pv)
		}
		if p.NoShow {
			lists.NoShow = append(lists.NoShow, pv)
		}
	}

	view.Participants = lists
	view.ParticipantCounts = ParticipantCounts{
		Confirmed:  len(lists.Confirmed),
		Interested: len(lists.Interested),
		Out:        len(lists.Out),
		NoShow:     len(lists.NoShow),
	}
	view.Cost = PerHeadCost(run, view.ParticipantCounts.Confirmed)

	return view
}

// RunResponse wraps a single run view
type RunResponse struct {
	Message string  `json:"message,omitempty"`
	Run     RunView `json:"run"`
}

// RunListResponse partitions runs into upcoming and past
type RunListResponse struct {
	Upcoming []RunView `json:"upcoming"`
	Past     []RunView `json:"past"`
}

// UserRunsResponse partitions the caller's participations
type UserRunsResponse struct {
	Upcoming []RunView `json:"upcoming"`
	History  []RunView `json:"history"`
}

// LocationListResponse wraps the seeded locations
type LocationListResponse struct {
	Locations []models.Location `json:"locations"`
}
