package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
)

func TestNewUserViewAttendanceRate(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "al"}

	// No completed runs yet: no rate at all rather than 0%
	view := NewUserView(user, nil)
	assert.Nil(t, view.AttendanceRate)

	user.RunsAttendedCount = 2
	user.NoShowsCount = 1
	view = NewUserView(user, nil)
	require.NotNil(t, view.AttendanceRate)
	assert.Equal(t, 66.7, *view.AttendanceRate)

	user.RunsAttendedCount = 5
	user.NoShowsCount = 0
	view = NewUserView(user, nil)
	require.NotNil(t, view.AttendanceRate)
	assert.Equal(t, 100.0, *view.AttendanceRate)
}

func TestNewUserViewReferrer(t *testing.T) {
	referrer := &models.User{
		ID:        uuid.New(),
		Username:  "vet",
		FirstName: "Vera",
	}
	user := &models.User{
		ID:         uuid.New(),
		Username:   "rookie",
		ReferredBy: &referrer.ID,
	}

	view := NewUserView(user, referrer)
	require.NotNil(t, view.Referrer)
	assert.Equal(t, referrer.ID, view.Referrer.ID)
	assert.Equal(t, "vet", view.Referrer.Username)

	view = NewUserView(user, nil)
	assert.Nil(t, view.Referrer)
	require.NotNil(t, view.ReferredBy)
	assert.Equal(t, referrer.ID, *view.ReferredBy)
}
