package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/repositories"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
	"github.com/zachm/hooprun/internal/pkg/email"
	"github.com/zachm/hooprun/internal/pkg/helpers"
)

// RunService handles run scheduling and RSVPs
type RunService struct {
	runRepo         *repositories.RunRepository
	participantRepo *repositories.ParticipantRepository
	locationRepo    *repositories.LocationRepository
	userRepo        *repositories.UserRepository
	notifier        *email.Notifier
	logger          zerolog.Logger
}

// NewRunService creates a new RunService
func NewRunService(
	runRepo *repositories.RunRepository,
	participantRepo *repositories.ParticipantRepository,
	locationRepo *repositories.LocationRepository,
	userRepo *repositories.UserRepository,
	notifier *email.Notifier,
	logger zerolog.Logger,
) *RunService {
	return &RunService{
		runRepo:         runRepo,
		participantRepo: participantRepo,
		locationRepo:    locationRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// PartitionRuns splits runs into upcoming and past. A run is upcoming
// while it is not completed and its date has not passed. Upcoming runs
// sort soonest-first, past runs most-recent-first.
func PartitionRuns(runs []*models.Run, now time.Time) (upcoming, past []*models.Run) {
	today := helpers.FormatDate(now)
	for _, run := range runs {
		if !run.IsCompleted && helpers.FormatDate(run.Date) >= today {
			upcoming = append(upcoming, run)
		} else {
			past = append(past, run)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if !upcoming[i].Date.Equal(upcoming[j].Date) {
			return upcoming[i].Date.Before(upcoming[j].Date)
		}
		return upcoming[i].StartTime < upcoming[j].StartTime
	})
	sort.SliceStable(past, func(i, j int) bool {
		if !past[i].Date.Equal(past[j].Date) {
			return past[i].Date.After(past[j].Date)
		}
		return past[i].StartTime > past[j].StartTime
	})

	return upcoming, past
}

// ListRuns returns every run partitioned into upcoming and past, each
// annotated with the caller's RSVP status when authenticated.
func (s *RunService) ListRuns(ctx context.Context, userID *uuid.UUID) (*dto.RunListResponse, error) {
	runs, err := s.runRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	upcoming, past, err := s.buildPartitionedViews(ctx, runs, userID)
	if err != nil {
		return nil, err
	}

	return &dto.RunListResponse{Upcoming: upcoming, Past: past}, nil
}

// GetRun returns one run's public view
func (s *RunService) GetRun(ctx context.Context, runID uuid.UUID, userID *uuid.UUID) (*dto.RunView, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, run, userID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListLocations returns the seeded locations
func (s *RunService) ListLocations(ctx context.Context) (*dto.LocationListResponse, error) {
	locations, err := s.locationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Location, 0, len(locations))
	for _, loc := range locations {
		out = append(out, *loc)
	}
	return &dto.LocationListResponse{Locations: out}, nil
}

// CreateRun schedules a run and announces it to all verified members.
// Exactly one of the fixed cost and total cost is stored.
func (s *RunService) CreateRun(ctx context.Context, admin *models.User, req dto.CreateRunRequest) (*dto.RunView, error) {
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewBadRequestError("date must be YYYY-MM-DD")
	}
	startTime, err := helpers.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperrors.NewBadRequestError("start_time must be HH:MM")
	}
	endTime, err := helpers.ParseClock(req.EndTime)
	if err != nil {
		return nil, apperrors.NewBadRequestError("end_time must be HH:MM")
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, apperrors.ErrLocationNotFound
	}
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	run := &models.Run{
		ID:             uuid.New(),
		Title:          req.Title,
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		LocationID:     location.ID,
		Description:    req.Description,
		Capacity:       req.Capacity,
		IsVariableCost: req.IsVariableCost,
		CreatedBy:      admin.ID,
	}
	if req.IsVariableCost {
		run.TotalCost = req.TotalCost
	} else {
		run.Cost = req.Cost
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	if recipients, err := s.userRepo.GetVerifiedEmails(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load recipients for run announcement")
	} else {
		s.notifier.SendRunCreated(recipients, runDetails(run, location))
	}

	view, err := s.buildView(ctx, run, nil)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateRun applies a partial edit to an uncompleted run. When anything
// changed, confirmed and interested participants get a diff email.
func (s *RunService) UpdateRun(ctx context.Context, runID uuid.UUID, req dto.UpdateRunRequest) (*dto.RunView, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.IsCompleted {
		return nil, apperrors.ErrRunCompleted
	}

	var changes []email.FieldChange
	record := func(field, before, after string) {
		if before != after {
			changes = append(changes, email.FieldChange{Field: field, Old: before, New: after})
		}
	}

	if req.Title != nil {
		record("Title", run.Title, *req.Title)
		run.Title = *req.Title
	}
	if req.Date != nil {
		date, err := helpers.ParseDate(*req.Date)
		if err != nil {
			return nil, apperrors.NewBadRequestError("date must be YYYY-MM-DD")
		}
		record("Date", helpers.FormatDate(run.Date), helpers.FormatDate(date))
		run.Date = date
	}
	if req.StartTime != nil {
		startTime, err := helpers.ParseClock(*req.StartTime)
		if err != nil {
			return nil, apperrors.NewBadRequestError("start_time must be HH:MM")
		}
		record("Start time", helpers.FormatClock12h(run.StartTime), helpers.FormatClock12h(startTime))
		run.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime, err := helpers.ParseClock(*req.EndTime)
		if err != nil {
			return nil, apperrors.NewBadRequestError("end_time must be HH:MM")
		}
		record("End time", helpers.FormatClock12h(run.EndTime), helpers.FormatClock12h(endTime))
		run.EndTime = endTime
	}
	if req.LocationID != nil {
		locationID, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return nil, apperrors.ErrLocationNotFound
		}
		if locationID != run.LocationID {
			oldLocation, err := s.locationRepo.GetByID(ctx, run.LocationID)
			if err != nil {
				return nil, err
			}
			newLocation, err := s.locationRepo.GetByID(ctx, locationID)
			if err != nil {
				return nil, err
			}
			record("Location", oldLocation.Name, newLocation.Name)
			run.LocationID = newLocation.ID
		}
	}
	if req.Description != nil {
		record("Description", strOrEmpty(run.Description), *req.Description)
		run.Description = req.Description
	}
	if req.Capacity != nil {
		record("Capacity", intOrDash(run.Capacity), fmt.Sprintf("%d", *req.Capacity))
		run.Capacity = req.Capacity
	}
	if req.IsVariableCost != nil {
		run.IsVariableCost = *req.IsVariableCost
	}
	if run.IsVariableCost {
		if req.TotalCost != nil {
			record("Total cost", moneyOrDash(run.TotalCost), fmt.Sprintf("$%.2f", *req.TotalCost))
			run.TotalCost = req.TotalCost
		}
		run.Cost = nil
	} else {
		if req.Cost != nil {
			record("Cost", moneyOrDash(run.Cost), fmt.Sprintf("$%.2f", *req.Cost))
			run.Cost = req.Cost
		}
		run.TotalCost = nil
	}

	if err := s.runRepo.Update(ctx, run); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		location, err := s.locationRepo.GetByID(ctx, run.LocationID)
		if err != nil {
			return nil, err
		}
		participants, err := s.participantRepo.GetByRun(ctx, run.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to load participants for run update email")
		} else {
			s.notifier.SendRunModified(participantEmails(participants, models.StatusConfirmed, models.StatusInterested), runDetails(run, location), changes)
		}
	}

	view, err := s.buildView(ctx, run, nil)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteRun cancels an uncompleted run. Participant rows cascade; the
// cancellation email works off a snapshot taken before the delete.
func (s *RunService) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return err
	}
	if run.IsCompleted {
		return apperrors.ErrRunCompleted
	}

	location, err := s.locationRepo.GetByID(ctx, run.LocationID)
	if err != nil {
		return err
	}
	participants, err := s.participantRepo.GetByRun(ctx, run.ID)
	if err != nil {
		return err
	}
	details := runDetails(run, location)
	recipients := participantEmails(participants, models.StatusConfirmed, models.StatusInterested)

	if err := s.runRepo.Delete(ctx, run.ID); err != nil {
		return err
	}

	s.notifier.SendRunCancelled(recipients, details)
	return nil
}

// RSVP upserts the caller's status on a run. Confirming into a
// capacity-limited run counts the other confirmed participants first, so
// an already-confirmed caller can always stay confirmed.
func (s *RunService) RSVP(ctx context.Context, runID uuid.UUID, user *models.User, status string) (*dto.RunView, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.IsCompleted {
		return nil, apperrors.ErrRunCompleted
	}
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	rsvpStatus := models.RSVPStatus(status)
	if !models.ValidRSVPStatus(rsvpStatus) {
		return nil, apperrors.ErrInvalidRSVP
	}

	if rsvpStatus == models.StatusConfirmed && run.Capacity != nil {
		confirmed, err := s.participantRepo.ConfirmedCountExcluding(ctx, run.ID, user.ID)
		if err != nil {
			return nil, err
		}
		if confirmed >= *run.Capacity {
			return nil, apperrors.ErrRunAtCapacity
		}
	}

	if err := s.participantRepo.Upsert(ctx, run.ID, user.ID, rsvpStatus); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, run, &user.ID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// buildViewsOrdered assembles views preserving the given run order
func (s *RunService) buildViewsOrdered(ctx context.Context, runs []*models.Run, userID *uuid.UUID) ([]dto.RunView, error) {
	runIDs := make([]uuid.UUID, 0, len(runs))
	locationIDs := make([]uuid.UUID, 0, len(runs))
	for _, run := range runs {
		runIDs = append(runIDs, run.ID)
		locationIDs = append(locationIDs, run.LocationID)
	}

	participantsByRun, err := s.participantRepo.GetByRuns(ctx, runIDs)
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.GetByIDs(ctx, locationIDs)
	if err != nil {
		return nil, err
	}

	views := make([]dto.RunView, 0, len(runs))
	for _, run := range runs {
		view := dto.NewRunView(run, locations[run.LocationID], participantsByRun[run.ID])
		annotateUserStatus(&view, participantsByRun[run.ID], userID)
		views = append(views, view)
	}
	return views, nil
}

// buildPartitionedViews resolves locations and participants for all runs
// in two queries, then assembles ordered views.
func (s *RunService) buildPartitionedViews(ctx context.Context, runs []*models.Run, userID *uuid.UUID) (upcoming, past []dto.RunView, err error) {
	upcomingRuns, pastRuns := PartitionRuns(runs, time.Now())

	runIDs := make([]uuid.UUID, 0, len(runs))
	locationIDs := make([]uuid.UUID, 0, len(runs))
	for _, run := range runs {
		runIDs = append(runIDs, run.ID)
		locationIDs = append(locationIDs, run.LocationID)
	}

	participantsByRun, err := s.participantRepo.GetByRuns(ctx, runIDs)
	if err != nil {
		return nil, nil, err
	}
	locations, err := s.locationRepo.GetByIDs(ctx, locationIDs)
	if err != nil {
		return nil, nil, err
	}

	assemble := func(runs []*models.Run) []dto.RunView {
		views := make([]dto.RunView, 0, len(runs))
		for _, run := range runs {
			view := dto.NewRunView(run, locations[run.LocationID], participantsByRun[run.ID])
			annotateUserStatus(&view, participantsByRun[run.ID], userID)
			views = append(views, view)
		}
		return views
	}

	return assemble(upcomingRuns), assemble(pastRuns), nil
}

func (s *RunService) buildView(ctx context.Context, run *models.Run, userID *uuid.UUID) (dto.RunView, error) {
	location, err := s.locationRepo.GetByID(ctx, run.LocationID)
	if err != nil {
		return dto.RunView{}, err
	}
	participants, err := s.participantRepo.GetByRun(ctx, run.ID)
	if err != nil {
		return dto.RunView{}, err
	}

	view := dto.NewRunView(run, location, participants)
	annotateUserStatus(&view, participants, userID)
	return view, nil
}

func annotateUserStatus(view *dto.RunView, participants []*models.RunParticipant, userID *uuid.UUID) {
	if userID == nil {
		return
	}
	for _, p := range participants {
		if p.UserID == *userID {
			status := p.Status
			view.UserStatus = &status
			return
		}
	}
}

// participantEmails collects addresses of participants holding any of
// the given statuses.
func participantEmails(participants []*models.RunParticipant, statuses ...models.RSVPStatus) []string {
	var emails []string
	for _, p := range participants {
		if p.User == nil {
			continue
		}
		for _, status := range statuses {
			if p.Status == status {
				emails = append(emails, p.User.Email)
				break
			}
		}
	}
	return emails
}

// runDetails formats a run for email bodies
func runDetails(run *models.Run, location *models.Location) email.RunDetails {
	details := email.RunDetails{
		Title:     run.Title,
		Date:      run.Date.Format("Monday, January 2"),
		StartTime: helpers.FormatClock12h(run.StartTime),
		EndTime:   helpers.FormatClock12h(run.EndTime),
	}
	if location != nil {
		details.Location = location.Name
		details.Address = location.Address
	}
	if run.IsVariableCost {
		if run.TotalCost != nil {
			details.CostLine = fmt.Sprintf("$%.2f total, split between confirmed players", *run.TotalCost)
		}
	} else if run.Cost != nil {
		details.CostLine = fmt.Sprintf("$%.2f per player", *run.Cost)
	}
	return details
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func moneyOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *v)
}
