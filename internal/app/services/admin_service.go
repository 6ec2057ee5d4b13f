package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/repositories"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
	"github.com/zachm/hooprun/internal/pkg/email"
	"github.com/zachm/hooprun/internal/pkg/helpers"
)

const maxReminderLength = 100

// AdminService handles verification, badges, run completion, imports,
// and announcements.
type AdminService struct {
	userRepo         *repositories.UserRepository
	runRepo          *repositories.RunRepository
	participantRepo  *repositories.ParticipantRepository
	locationRepo     *repositories.LocationRepository
	announcementRepo *repositories.AnnouncementRepository
	runService       *RunService
	statsService     *StatsService
	notifier         *email.Notifier
	logger           zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo *repositories.UserRepository,
	runRepo *repositories.RunRepository,
	participantRepo *repositories.ParticipantRepository,
	locationRepo *repositories.LocationRepository,
	announcementRepo *repositories.AnnouncementRepository,
	runService *RunService,
	statsService *StatsService,
	notifier *email.Notifier,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		runRepo:          runRepo,
		participantRepo:  participantRepo,
		locationRepo:     locationRepo,
		announcementRepo: announcementRepo,
		runService:       runService,
		statsService:     statsService,
		notifier:         notifier,
		logger:           logger,
	}
}

// ListUsers returns every user, newest signup first
func (s *AdminService) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := s.userRepo.GetAllNewestFirst(ctx)
	if err != nil {
		return nil, err
	}

	referrers, err := s.loadReferrers(ctx, users)
	if err != nil {
		return nil, err
	}

	views := make([]dto.UserView, 0, len(users))
	for _, user := range users {
		var referrer *models.User
		if user.ReferredBy != nil {
			referrer = referrers[*user.ReferredBy]
		}
		views = append(views, dto.NewUserView(user, referrer))
	}

	return &dto.UserListResponse{Users: views}, nil
}

// VerifyUser sets the verified flag. The notification email goes out
// only when an unverified account becomes verified.
func (s *AdminService) VerifyUser(ctx context.Context, userID uuid.UUID, verified bool) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetVerified(ctx, userID, verified); err != nil {
		return nil, err
	}

	if verified && !user.IsVerified {
		s.notifier.SendAccountVerified(user)
	}
	user.IsVerified = verified

	return &dto.UserResponse{User: dto.NewUserView(user, nil)}, nil
}

// validateBadgeChange enforces the assignment rules: only regular and
// plus_one are assignable, and a plus_one must name a referrer currently
// holding the regular badge.
func validateBadgeChange(badge models.Badge, referrer *models.User) error {
	switch badge {
	case models.BadgeRegular, models.BadgePlusOne:
	default:
		return apperrors.ErrInvalidBadge
	}
	if badge == models.BadgePlusOne {
		if referrer == nil {
			return apperrors.ErrReferrerNotFound
		}
		if referrer.Badge == nil || *referrer.Badge != models.BadgeRegular {
			return apperrors.ErrReferrerNotEligible
		}
	}
	return nil
}

// AssignBadge sets or clears a user's badge. Referral eligibility is
// checked now; a referrer losing their badge later does not cascade.
func (s *AdminService) AssignBadge(ctx context.Context, userID uuid.UUID, req dto.AssignBadgeRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Badge == nil || *req.Badge == "" {
		if err := s.userRepo.SetBadge(ctx, user.ID, nil, nil); err != nil {
			return nil, err
		}
		user.Badge = nil
		user.ReferredBy = nil
		return &dto.UserResponse{User: dto.NewUserView(user, nil)}, nil
	}

	badge := models.Badge(*req.Badge)

	var referrer *models.User
	if badge == models.BadgePlusOne {
		if req.ReferredBy == nil {
			return nil, apperrors.NewBadRequestError("plus_one requires referred_by")
		}
		referrerID, err := uuid.Parse(*req.ReferredBy)
		if err != nil {
			return nil, apperrors.ErrReferrerNotFound
		}
		referrer, err = s.userRepo.GetByID(ctx, referrerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, apperrors.ErrReferrerNotFound
			}
			return nil, err
		}
	}

	if err := validateBadgeChange(badge, referrer); err != nil {
		return nil, err
	}

	var referredBy *uuid.UUID
	if referrer != nil {
		referredBy = &referrer.ID
	}
	if err := s.userRepo.SetBadge(ctx, user.ID, &badge, referredBy); err != nil {
		return nil, err
	}
	user.Badge = &badge
	user.ReferredBy = referredBy

	return &dto.UserResponse{User: dto.NewUserView(user, referrer)}, nil
}

// BulkAssignBadge assigns the regular badge to many users, clearing any
// referral on each. Only the regular badge may be assigned in bulk.
func (s *AdminService) BulkAssignBadge(ctx context.Context, req dto.BulkAssignBadgeRequest) (int, error) {
	if models.Badge(req.Badge) != models.BadgeRegular {
		return 0, apperrors.ErrInvalidBadge
	}

	badge := models.BadgeRegular
	updated := 0
	for _, raw := range req.UserIDs {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return updated, apperrors.NewBadRequestError(fmt.Sprintf("invalid user id %q", raw))
		}
		if err := s.userRepo.SetBadge(ctx, userID, &badge, nil); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

// ListRuns returns every run as a full view, newest first
func (s *AdminService) ListRuns(ctx context.Context) ([]dto.RunView, error) {
	runs, err := s.runRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].Date.Equal(runs[j].Date) {
			return runs[i].Date.After(runs[j].Date)
		}
		return runs[i].StartTime > runs[j].StartTime
	})

	return s.runService.buildViewsOrdered(ctx, runs, nil)
}

// ResolveAttendance turns the completion request into per-user outcomes.
// Confirmed participants default to attended; the explicit lists
// override, with no-show winning when a user appears in both. Extras
// without an RSVP row get a fresh attended row.
func ResolveAttendance(participants []*models.RunParticipant, attendedIDs, noShowIDs, extraIDs []uuid.UUID) map[uuid.UUID]repositories.AttendanceOutcome {
	outcomes := make(map[uuid.UUID]repositories.AttendanceOutcome)
	for _, p := range participants {
		if p.Status == models.StatusConfirmed {
			outcomes[p.UserID] = repositories.AttendanceOutcome{Attended: true}
		} else {
			outcomes[p.UserID] = repositories.AttendanceOutcome{}
		}
	}
	for _, id := range extraIDs {
		outcomes[id] = repositories.AttendanceOutcome{Attended: true}
	}
	for _, id := range attendedIDs {
		outcomes[id] = repositories.AttendanceOutcome{Attended: true}
	}
	for _, id := range noShowIDs {
		outcomes[id] = repositories.AttendanceOutcome{NoShow: true}
	}
	return outcomes
}

// FinalPerHead computes the settled per-player cost of a completed
// variable-cost run. With nobody to split between, the share is clamped
// to the total rather than dividing by zero.
func FinalPerHead(run *models.Run, attendedCount, guestCount int) *float64 {
	if !run.IsVariableCost {
		return run.Cost
	}
	if run.TotalCost == nil {
		return nil
	}
	divisor := attendedCount + guestCount
	if divisor == 0 {
		total := helpers.Round2(*run.TotalCost)
		return &total
	}
	share := helpers.Round2(*run.TotalCost / float64(divisor))
	return &share
}

// CompleteRun finalizes attendance, stores guests, recalculates stats
// for every touched user, and emails the attendees.
func (s *AdminService) CompleteRun(ctx context.Context, adminID, runID uuid.UUID, req dto.CompleteRunRequest) (*dto.RunView, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.IsCompleted {
		return nil, apperrors.ErrRunCompleted
	}

	attendedIDs, err := parseUUIDs(req.AttendedUserIDs)
	if err != nil {
		return nil, apperrors.NewBadRequestError("attended_user_ids contains an invalid id")
	}
	noShowIDs, err := parseUUIDs(req.NoShowUserIDs)
	if err != nil {
		return nil, apperrors.NewBadRequestError("no_show_user_ids contains an invalid id")
	}
	extraIDs, err := parseUUIDs(req.ExtraAttendees)
	if err != nil {
		return nil, apperrors.NewBadRequestError("extra_attendees contains an invalid id")
	}

	participants, err := s.participantRepo.GetByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	outcomes := ResolveAttendance(participants, attendedIDs, noShowIDs, extraIDs)
	now := time.Now()
	if err := s.runRepo.Complete(ctx, run.ID, adminID, now, req.GuestAttendees, outcomes); err != nil {
		return nil, err
	}
	run.IsCompleted = true
	run.CompletedAt = &now
	run.CompletedBy = &adminID
	run.GuestAttendees = req.GuestAttendees

	for userID := range outcomes {
		if err := s.statsService.RecalculateUser(ctx, userID); err != nil {
			s.logger.Error().Err(err).Str("userID", userID.String()).Msg("Failed to recalculate stats after completion")
		}
	}

	s.sendCompletionEmails(ctx, run, outcomes)

	view, err := s.runService.GetRun(ctx, run.ID, nil)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *AdminService) sendCompletionEmails(ctx context.Context, run *models.Run, outcomes map[uuid.UUID]repositories.AttendanceOutcome) {
	var attendeeIDs []uuid.UUID
	attendedCount := 0
	for userID, outcome := range outcomes {
		if outcome.Attended {
			attendeeIDs = append(attendeeIDs, userID)
			attendedCount++
		}
	}

	attendees, err := s.userRepo.GetByIDs(ctx, attendeeIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load attendees for completion email")
		return
	}
	location, err := s.locationRepo.GetByID(ctx, run.LocationID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load location for completion email")
		return
	}

	details := runDetails(run, location)
	if perHead := FinalPerHead(run, attendedCount, len(run.GuestAttendees)); perHead != nil && run.IsVariableCost {
		details.CostLine = fmt.Sprintf("$%.2f per player", *perHead)
	}

	var recipients []string
	for _, attendee := range attendees {
		recipients = append(recipients, attendee.Email)
	}
	s.notifier.SendRunCompleted(recipients, details)
}

// validateReminder trims and length-checks a reminder note. The limit
// counts runes, matching the DTO binding.
func validateReminder(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.NewBadRequestError("message is required")
	}
	if utf8.RuneCountInString(message) > maxReminderLength {
		return "", apperrors.NewBadRequestError(fmt.Sprintf("message must be at most %d characters", maxReminderLength))
	}
	return message, nil
}

// RemindRun forwards a short admin-written note to confirmed and
// interested participants. The note is never stored.
func (s *AdminService) RemindRun(ctx context.Context, runID uuid.UUID, message string) (int, error) {
	message, err := validateReminder(message)
	if err != nil {
		return 0, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return 0, err
	}
	if run.IsCompleted {
		return 0, apperrors.ErrRunCompleted
	}

	location, err := s.locationRepo.GetByID(ctx, run.LocationID)
	if err != nil {
		return 0, err
	}
	participants, err := s.participantRepo.GetByRun(ctx, run.ID)
	if err != nil {
		return 0, err
	}

	recipients := participantEmails(participants, models.StatusConfirmed, models.StatusInterested)
	s.notifier.SendRunReminder(recipients, runDetails(run, location), message)

	return len(recipients), nil
}

// ImportRuns bulk-loads historical runs. Each row is independent: a bad
// row is reported and skipped without aborting the batch, and writes
// nothing. Stats are rebuilt for everyone afterward.
func (s *AdminService) ImportRuns(ctx context.Context, adminID uuid.UUID, req dto.ImportRunsRequest) (*dto.ImportRunsResponse, error) {
	resp := &dto.ImportRunsResponse{Errors: []string{}}

	for i, row := range req.Runs {
		if err := s.importRun(ctx, adminID, row); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("run %d (%s): %v", i+1, row.Title, err))
			continue
		}
		resp.ImportedCount++
	}

	if err := s.statsService.RecalculateAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to recalculate stats after import")
	}

	resp.Message = fmt.Sprintf("Imported %d of %d runs", resp.ImportedCount, len(req.Runs))
	return resp, nil
}

// resolveImportRSVPs maps an import row's username lists onto participant
// seeds. Resolution happens before any write so an unknown username fails
// the row without leaving anything behind.
func resolveImportRSVPs(participants *dto.ImportParticipants, lookup func(username string) (*models.User, error)) ([]repositories.ImportedRSVP, error) {
	if participants == nil {
		return nil, nil
	}

	type rsvpImport struct {
		usernames []string
		status    models.RSVPStatus
		attended  bool
	}
	var rsvps []repositories.ImportedRSVP
	for _, group := range []rsvpImport{
		{participants.Confirmed, models.StatusConfirmed, true},
		{participants.Interested, models.StatusInterested, false},
		{participants.Out, models.StatusOut, false},
	} {
		for _, username := range group.usernames {
			user, err := lookup(username)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return nil, fmt.Errorf("unknown user %q", username)
				}
				return nil, err
			}
			rsvps = append(rsvps, repositories.ImportedRSVP{
				UserID:   user.ID,
				Status:   group.status,
				Attended: group.attended,
			})
		}
	}

	return rsvps, nil
}

func (s *AdminService) importRun(ctx context.Context, adminID uuid.UUID, row dto.ImportRun) error {
	if strings.TrimSpace(row.Title) == "" {
		return fmt.Errorf("title is required")
	}
	date, err := helpers.ParseDate(row.Date)
	if err != nil {
		return err
	}
	startTime, err := helpers.ParseClock(row.StartTime)
	if err != nil {
		return err
	}
	endTime, err := helpers.ParseClock(row.EndTime)
	if err != nil {
		return err
	}
	location, err := s.locationRepo.GetByName(ctx, row.Location)
	if err != nil {
		if errors.Is(err, apperrors.ErrLocationNotFound) {
			return fmt.Errorf("unknown location %q", row.Location)
		}
		return err
	}

	rsvps, err := resolveImportRSVPs(row.Participants, func(username string) (*models.User, error) {
		return s.userRepo.GetByUsername(ctx, username)
	})
	if err != nil {
		return err
	}

	run := &models.Run{
		ID:           uuid.New(),
		Title:        row.Title,
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		LocationID:   location.ID,
		Capacity:     row.Capacity,
		Cost:         row.Cost,
		CreatedBy:    adminID,
		IsHistorical: true,
		IsCompleted:  true,
	}
	return s.runRepo.CreateWithParticipants(ctx, run, rsvps)
}

// GetAnnouncement returns the active announcement, nil when none exists
func (s *AdminService) GetAnnouncement(ctx context.Context) (*dto.AnnouncementResponse, error) {
	active, err := s.announcementRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.AnnouncementResponse{}
	if active != nil {
		view := dto.NewAnnouncementView(active)
		resp.Announcement = &view
	}
	return resp, nil
}

// CreateAnnouncement replaces the active announcement and broadcasts it
// to verified members.
func (s *AdminService) CreateAnnouncement(ctx context.Context, adminID uuid.UUID, message string) (*dto.AnnouncementResponse, error) {
	announcement := &models.Announcement{
		ID:        uuid.New(),
		Message:   message,
		CreatedBy: adminID,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	if recipients, err := s.userRepo.GetVerifiedEmails(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load recipients for announcement")
	} else {
		s.notifier.SendAnnouncement(recipients, message)
	}

	view := dto.NewAnnouncementView(announcement)
	return &dto.AnnouncementResponse{
		Message:      "Announcement posted",
		Announcement: &view,
	}, nil
}

// DeleteAnnouncement deactivates every active announcement
func (s *AdminService) DeleteAnnouncement(ctx context.Context) error {
	return s.announcementRepo.DeactivateAll(ctx)
}

func (s *AdminService) loadReferrers(ctx context.Context, users []*models.User) (map[uuid.UUID]*models.User, error) {
	var ids []uuid.UUID
	for _, user := range users {
		if user.ReferredBy != nil {
			ids = append(ids, *user.ReferredBy)
		}
	}
	return s.userRepo.GetByIDs(ctx, ids)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
