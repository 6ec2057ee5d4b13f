package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
)

func floatPtr(v float64) *float64 { return &v }

func variableRun(total float64) *models.Run {
	return &models.Run{
		ID:             uuid.New(),
		IsVariableCost: true,
		TotalCost:      floatPtr(total),
	}
}

func TestPerHeadCostFixed(t *testing.T) {
	run := &models.Run{Cost: floatPtr(5)}

	cost := PerHeadCost(run, 10)
	require.NotNil(t, cost)
	assert.Equal(t, 5.0, *cost)
}

func TestPerHeadCostVariableSplit(t *testing.T) {
	cost := PerHeadCost(variableRun(60), 8)
	require.NotNil(t, cost)
	assert.Equal(t, 7.5, *cost)

	// Uneven splits round to cents
	cost = PerHeadCost(variableRun(100), 3)
	require.NotNil(t, cost)
	assert.Equal(t, 33.33, *cost)
}

func TestPerHeadCostVariableNoConfirmed(t *testing.T) {
	// Before anyone confirms, show the full total
	cost := PerHeadCost(variableRun(60), 0)
	require.NotNil(t, cost)
	assert.Equal(t, 60.0, *cost)
}

func TestPerHeadCostNil(t *testing.T) {
	assert.Nil(t, PerHeadCost(&models.Run{}, 5))
	assert.Nil(t, PerHeadCost(&models.Run{IsVariableCost: true}, 5))
}

func participant(name string, status models.RSVPStatus, updatedAt time.Time) *models.RunParticipant {
	return &models.RunParticipant{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Status:    status,
		UpdatedAt: updatedAt,
		User: &models.User{
			ID:       uuid.New(),
			Username: name,
		},
	}
}

func TestNewRunViewSplitsAndOrdersParticipants(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	run := &models.Run{
		ID:        uuid.New(),
		Title:     "Saturday Run",
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00",
		EndTime:   "20:00",
	}
	location := &models.Location{Name: "Rucker Park", Address: "155th St"}

	second := participant("beth", models.StatusConfirmed, base.Add(time.Hour))
	first := participant("al", models.StatusConfirmed, base)
	interested := participant("cam", models.StatusInterested, base)
	out := participant("dee", models.StatusOut, base)
	noShow := participant("eve", models.StatusConfirmed, base.Add(2*time.Hour))
	noShow.NoShow = true

	view := NewRunView(run, location, []*models.RunParticipant{second, noShow, out, interested, first})

	require.Len(t, view.Participants.Confirmed, 3)
	assert.Equal(t, "al", view.Participants.Confirmed[0].Username)
	assert.Equal(t, "beth", view.Participants.Confirmed[1].Username)
	assert.Equal(t, "eve", view.Participants.Confirmed[2].Username)

	require.Len(t, view.Participants.Interested, 1)
	require.Len(t, view.Participants.Out, 1)
	require.Len(t, view.Participants.NoShow, 1)
	assert.Equal(t, "eve", view.Participants.NoShow[0].Username)

	assert.Equal(t, 3, view.ParticipantCounts.Confirmed)
	assert.Equal(t, 1, view.ParticipantCounts.Interested)
	assert.Equal(t, 1, view.ParticipantCounts.Out)
	assert.Equal(t, 1, view.ParticipantCounts.NoShow)

	assert.Equal(t, "2026-03-14", view.Date)
	assert.Equal(t, "Rucker Park", view.Location)
	assert.Equal(t, "155th St", view.Address)
}

func TestNewRunViewVariableCostUsesConfirmedCount(t *testing.T) {
	run := variableRun(60)
	run.Date = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	base := time.Now()
	participants := []*models.RunParticipant{
		participant("al", models.StatusConfirmed, base),
		participant("beth", models.StatusConfirmed, base),
		participant("cam", models.StatusInterested, base),
	}

	view := NewRunView(run, nil, participants)
	require.NotNil(t, view.Cost)
	assert.Equal(t, 30.0, *view.Cost)
}

func TestNewRunViewDefaults(t *testing.T) {
	run := &models.Run{Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}

	view := NewRunView(run, nil, nil)

	// Empty collections serialize as [] rather than null
	assert.NotNil(t, view.GuestAttendees)
	assert.NotNil(t, view.Participants.Confirmed)
	assert.NotNil(t, view.Participants.Interested)
	assert.NotNil(t, view.Participants.Out)
	assert.NotNil(t, view.Participants.NoShow)
	assert.Nil(t, view.UserStatus)
}
