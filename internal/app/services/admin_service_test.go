package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/repositories"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

func badgePtr(b models.Badge) *models.Badge { return &b }

func TestValidateBadgeChange(t *testing.T) {
	regular := &models.User{ID: uuid.New(), Badge: badgePtr(models.BadgeRegular)}

	assert.NoError(t, validateBadgeChange(models.BadgeRegular, nil))
	assert.NoError(t, validateBadgeChange(models.BadgePlusOne, regular))

	// Only regular and plus_one are assignable by hand
	assert.ErrorIs(t, validateBadgeChange(models.BadgeVIP, nil), apperrors.ErrInvalidBadge)
	assert.ErrorIs(t, validateBadgeChange(models.Badge("captain"), nil), apperrors.ErrInvalidBadge)

	assert.ErrorIs(t, validateBadgeChange(models.BadgePlusOne, nil), apperrors.ErrReferrerNotFound)

	unbadged := &models.User{ID: uuid.New()}
	assert.ErrorIs(t, validateBadgeChange(models.BadgePlusOne, unbadged), apperrors.ErrReferrerNotEligible)

	vip := &models.User{ID: uuid.New(), Badge: badgePtr(models.BadgeVIP)}
	assert.ErrorIs(t, validateBadgeChange(models.BadgePlusOne, vip), apperrors.ErrReferrerNotEligible)
}

func attendanceRSVP(status models.RSVPStatus) *models.RunParticipant {
	return &models.RunParticipant{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: status,
	}
}

func TestResolveAttendanceDefaults(t *testing.T) {
	confirmed := attendanceRSVP(models.StatusConfirmed)
	interested := attendanceRSVP(models.StatusInterested)
	out := attendanceRSVP(models.StatusOut)

	outcomes := ResolveAttendance(
		[]*models.RunParticipant{confirmed, interested, out},
		nil, nil, nil,
	)

	require.Len(t, outcomes, 3)
	assert.Equal(t, repositories.AttendanceOutcome{Attended: true}, outcomes[confirmed.UserID])
	assert.Equal(t, repositories.AttendanceOutcome{}, outcomes[interested.UserID])
	assert.Equal(t, repositories.AttendanceOutcome{}, outcomes[out.UserID])
}

func TestResolveAttendanceOverrides(t *testing.T) {
	flaked := attendanceRSVP(models.StatusConfirmed)
	showedUp := attendanceRSVP(models.StatusInterested)
	walkOn := uuid.New()

	outcomes := ResolveAttendance(
		[]*models.RunParticipant{flaked, showedUp},
		[]uuid.UUID{showedUp.UserID},
		[]uuid.UUID{flaked.UserID},
		[]uuid.UUID{walkOn},
	)

	require.Len(t, outcomes, 3)
	assert.Equal(t, repositories.AttendanceOutcome{NoShow: true}, outcomes[flaked.UserID])
	assert.Equal(t, repositories.AttendanceOutcome{Attended: true}, outcomes[showedUp.UserID])
	assert.Equal(t, repositories.AttendanceOutcome{Attended: true}, outcomes[walkOn])
}

func TestResolveAttendanceNoShowWins(t *testing.T) {
	player := attendanceRSVP(models.StatusConfirmed)

	// Listed as both attended and no-show: no-show takes precedence
	outcomes := ResolveAttendance(
		[]*models.RunParticipant{player},
		[]uuid.UUID{player.UserID},
		[]uuid.UUID{player.UserID},
		nil,
	)

	assert.Equal(t, repositories.AttendanceOutcome{NoShow: true}, outcomes[player.UserID])
}

func TestFinalPerHead(t *testing.T) {
	fixed := &models.Run{Cost: fptr(5)}
	got := FinalPerHead(fixed, 10, 2)
	require.NotNil(t, got)
	assert.Equal(t, 5.0, *got)

	variable := &models.Run{IsVariableCost: true, TotalCost: fptr(90)}
	got = FinalPerHead(variable, 8, 1)
	require.NotNil(t, got)
	assert.Equal(t, 10.0, *got)

	got = FinalPerHead(variable, 7, 0)
	require.NotNil(t, got)
	assert.Equal(t, 12.86, *got)

	// Nobody attended: charge the full total rather than divide by zero
	got = FinalPerHead(variable, 0, 0)
	require.NotNil(t, got)
	assert.Equal(t, 90.0, *got)

	assert.Nil(t, FinalPerHead(&models.Run{IsVariableCost: true}, 5, 0))
	assert.Nil(t, FinalPerHead(&models.Run{}, 5, 0))
}

func mapLookup(users map[string]*models.User) func(string) (*models.User, error) {
	return func(username string) (*models.User, error) {
		user, ok := users[username]
		if !ok {
			return nil, apperrors.ErrUserNotFound
		}
		return user, nil
	}
}

func TestResolveImportRSVPs(t *testing.T) {
	al := &models.User{ID: uuid.New(), Username: "al"}
	beth := &models.User{ID: uuid.New(), Username: "beth"}
	cam := &models.User{ID: uuid.New(), Username: "cam"}
	lookup := mapLookup(map[string]*models.User{"al": al, "beth": beth, "cam": cam})

	rsvps, err := resolveImportRSVPs(&dto.ImportParticipants{
		Confirmed:  []string{"al"},
		Interested: []string{"beth"},
		Out:        []string{"cam"},
	}, lookup)
	require.NoError(t, err)
	require.Len(t, rsvps, 3)
	assert.Equal(t, repositories.ImportedRSVP{UserID: al.ID, Status: models.StatusConfirmed, Attended: true}, rsvps[0])
	assert.Equal(t, repositories.ImportedRSVP{UserID: beth.ID, Status: models.StatusInterested}, rsvps[1])
	assert.Equal(t, repositories.ImportedRSVP{UserID: cam.ID, Status: models.StatusOut}, rsvps[2])

	rsvps, err = resolveImportRSVPs(nil, lookup)
	require.NoError(t, err)
	assert.Empty(t, rsvps)
}

func TestResolveImportRSVPsUnknownUser(t *testing.T) {
	al := &models.User{ID: uuid.New(), Username: "al"}
	lookup := mapLookup(map[string]*models.User{"al": al})

	// The whole row fails before anything is written
	rsvps, err := resolveImportRSVPs(&dto.ImportParticipants{
		Confirmed: []string{"al", "nobody"},
	}, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown user "nobody"`)
	assert.Nil(t, rsvps)
}

func TestValidateReminder(t *testing.T) {
	msg, err := validateReminder("  ball at 6  ")
	require.NoError(t, err)
	assert.Equal(t, "ball at 6", msg)

	_, err = validateReminder("   ")
	assert.Error(t, err)

	_, err = validateReminder(strings.Repeat("a", 101))
	assert.Error(t, err)

	// The limit counts runes, not bytes
	msg, err = validateReminder(strings.Repeat("é", 100))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100), msg)

	_, err = validateReminder(strings.Repeat("é", 101))
	assert.Error(t, err)
}
