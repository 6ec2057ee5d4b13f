package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
)

func fptr(v float64) *float64 { return &v }

func dateOn(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func testRun(date, startTime string) *models.Run {
	return &models.Run{
		ID:        uuid.New(),
		Date:      dateOn(date),
		StartTime: startTime,
	}
}

func TestPartitionRuns(t *testing.T) {
	now := time.Date(2026, 6, 15, 22, 30, 0, 0, time.UTC)

	tonight := testRun("2026-06-15", "19:00")
	tomorrow := testRun("2026-06-16", "18:00")
	nextWeekEarly := testRun("2026-06-22", "09:00")
	nextWeekLate := testRun("2026-06-22", "18:00")
	lastWeek := testRun("2026-06-08", "18:00")
	lastMonth := testRun("2026-05-10", "18:00")
	completedToday := testRun("2026-06-15", "07:00")
	completedToday.IsCompleted = true

	upcoming, past := PartitionRuns([]*models.Run{
		nextWeekLate, lastMonth, tonight, completedToday, tomorrow, lastWeek, nextWeekEarly,
	}, now)

	// Today's uncompleted run stays upcoming even late in the evening
	require.Len(t, upcoming, 4)
	assert.Equal(t, tonight.ID, upcoming[0].ID)
	assert.Equal(t, tomorrow.ID, upcoming[1].ID)
	assert.Equal(t, nextWeekEarly.ID, upcoming[2].ID)
	assert.Equal(t, nextWeekLate.ID, upcoming[3].ID)

	// Past runs come back newest first, completed runs included
	require.Len(t, past, 3)
	assert.Equal(t, completedToday.ID, past[0].ID)
	assert.Equal(t, lastWeek.ID, past[1].ID)
	assert.Equal(t, lastMonth.ID, past[2].ID)
}

func TestPartitionRunsEmpty(t *testing.T) {
	upcoming, past := PartitionRuns(nil, time.Now())
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
}

func rsvp(status models.RSVPStatus, emailAddr string) *models.RunParticipant {
	return &models.RunParticipant{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: status,
		User: &models.User{
			ID:    uuid.New(),
			Email: emailAddr,
		},
	}
}

func TestParticipantEmails(t *testing.T) {
	participants := []*models.RunParticipant{
		rsvp(models.StatusConfirmed, "a@x.test"),
		rsvp(models.StatusInterested, "b@x.test"),
		rsvp(models.StatusOut, "c@x.test"),
		rsvp(models.StatusConfirmed, "d@x.test"),
	}

	emails := participantEmails(participants, models.StatusConfirmed)
	assert.Equal(t, []string{"a@x.test", "d@x.test"}, emails)

	emails = participantEmails(participants, models.StatusConfirmed, models.StatusInterested)
	assert.Equal(t, []string{"a@x.test", "b@x.test", "d@x.test"}, emails)

	assert.Empty(t, participantEmails(nil, models.StatusConfirmed))
}

func TestRunDetailsFormatting(t *testing.T) {
	run := &models.Run{
		Title:     "Friday Night Hoops",
		Date:      dateOn("2026-06-19"),
		StartTime: "19:30",
		EndTime:   "21:00",
	}
	location := &models.Location{Name: "Rucker Park", Address: "155th St"}

	run.Cost = fptr(5)
	details := runDetails(run, location)
	assert.Equal(t, "Friday, June 19", details.Date)
	assert.Equal(t, "7:30 PM", details.StartTime)
	assert.Equal(t, "9:00 PM", details.EndTime)
	assert.Equal(t, "Rucker Park", details.Location)
	assert.Equal(t, "$5.00 per player", details.CostLine)

	run.IsVariableCost = true
	run.TotalCost = fptr(60)
	details = runDetails(run, nil)
	assert.Equal(t, "$60.00 total, split between confirmed players", details.CostLine)
	assert.Empty(t, details.Location)

	run.TotalCost = nil
	details = runDetails(run, nil)
	assert.Empty(t, details.CostLine)
}

func TestDiffFormatters(t *testing.T) {
	assert.Equal(t, "", strOrEmpty(nil))
	s := "hello"
	assert.Equal(t, "hello", strOrEmpty(&s))

	assert.Equal(t, "-", intOrDash(nil))
	n := 12
	assert.Equal(t, "12", intOrDash(&n))

	assert.Equal(t, "-", moneyOrDash(nil))
	assert.Equal(t, "$7.50", moneyOrDash(fptr(7.5)))
}
