package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zachm/hooprun/internal/app/repositories"
)

// StatsService recomputes the per-user attendance counters from the
// participant rows. Recalculation is idempotent: the counters are always
// overwritten with a fresh count, never incremented.
type StatsService struct {
	userRepo        *repositories.UserRepository
	participantRepo *repositories.ParticipantRepository
	logger          zerolog.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(
	userRepo *repositories.UserRepository,
	participantRepo *repositories.ParticipantRepository,
	logger zerolog.Logger,
) *StatsService {
	return &StatsService{
		userRepo:        userRepo,
		participantRepo: participantRepo,
		logger:          logger,
	}
}

// RecalculateUser rebuilds one user's attended and no-show counters
func (s *StatsService) RecalculateUser(ctx context.Context, userID uuid.UUID) error {
	attended, noShows, err := s.participantRepo.CountAttendanceByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateStats(ctx, userID, attended, noShows)
}

// RecalculateAll rebuilds the counters for every user
func (s *StatsService) RecalculateAll(ctx context.Context) error {
	ids, err := s.userRepo.GetAllIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.RecalculateUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
