package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/repositories"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

// Community grouping keys for users without a badge or verification
const (
	groupNone       = "none"
	groupUnverified = "unverified"
)

// UserService handles profile and community reads
type UserService struct {
	userRepo        *repositories.UserRepository
	runRepo         *repositories.RunRepository
	participantRepo *repositories.ParticipantRepository
	locationRepo    *repositories.LocationRepository
	runService      *RunService
	logger          zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	runRepo *repositories.RunRepository,
	participantRepo *repositories.ParticipantRepository,
	locationRepo *repositories.LocationRepository,
	runService *RunService,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		runRepo:         runRepo,
		participantRepo: participantRepo,
		locationRepo:    locationRepo,
		runService:      runService,
		logger:          logger,
	}
}

// UpdateProfile edits the caller's email and name. Email changes are
// checked for uniqueness against every other account.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	emailAddr := user.Email
	if req.Email != nil {
		candidate := strings.TrimSpace(strings.ToLower(*req.Email))
		if candidate != strings.ToLower(user.Email) {
			taken, err := s.userRepo.EmailExists(ctx, candidate)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.ErrEmailExists
			}
		}
		emailAddr = candidate
	}

	firstName := user.FirstName
	if req.FirstName != nil {
		firstName = strings.TrimSpace(*req.FirstName)
	}

	if err := s.userRepo.UpdateProfile(ctx, user.ID, emailAddr, firstName, req.LastName); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	referrer, err := s.loadReferrer(ctx, updated)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{User: dto.NewUserView(updated, referrer)}, nil
}

// GetMyRuns returns the caller's participations partitioned into
// upcoming and history, each annotated with their status.
func (s *UserService) GetMyRuns(ctx context.Context, userID uuid.UUID) (*dto.UserRunsResponse, error) {
	runIDs, err := s.participantRepo.GetRunIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	runsByID, err := s.runRepo.GetByIDs(ctx, runIDs)
	if err != nil {
		return nil, err
	}
	runs := make([]*models.Run, 0, len(runsByID))
	for _, run := range runsByID {
		runs = append(runs, run)
	}

	upcoming, history, err := s.runService.buildPartitionedViews(ctx, runs, &userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserRunsResponse{Upcoming: upcoming, History: history}, nil
}

// GetCommunity groups every member by badge. Unverified accounts land in
// their own group regardless of badge; verified users without a badge
// land in "none". Groups inherit the repository's display-name ordering.
func (s *UserService) GetCommunity(ctx context.Context) (*dto.CommunityResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	referrers, err := s.loadReferrers(ctx, users)
	if err != nil {
		return nil, err
	}

	groups := map[string][]dto.UserView{
		string(models.BadgeVIP):     {},
		string(models.BadgeRegular): {},
		string(models.BadgeRookie):  {},
		string(models.BadgePlusOne): {},
		groupNone:                   {},
		groupUnverified:             {},
	}
	for _, user := range users {
		var referrer *models.User
		if user.ReferredBy != nil {
			referrer = referrers[*user.ReferredBy]
		}
		view := dto.NewUserView(user, referrer)

		key := groupNone
		switch {
		case !user.IsVerified:
			key = groupUnverified
		case user.Badge != nil:
			key = string(*user.Badge)
		}
		groups[key] = append(groups[key], view)
	}

	return &dto.CommunityResponse{Users: groups}, nil
}

func (s *UserService) loadReferrer(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ReferredBy == nil {
		return nil, nil
	}
	referrers, err := s.loadReferrers(ctx, []*models.User{user})
	if err != nil {
		return nil, err
	}
	return referrers[*user.ReferredBy], nil
}

func (s *UserService) loadReferrers(ctx context.Context, users []*models.User) (map[uuid.UUID]*models.User, error) {
	var ids []uuid.UUID
	for _, user := range users {
		if user.ReferredBy != nil {
			ids = append(ids, *user.ReferredBy)
		}
	}
	return s.userRepo.GetByIDs(ctx, ids)
}
