package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/zachm/hooprun/internal/app/models"
	appRepos "github.com/zachm/hooprun/internal/app/repositories"
	"github.com/zachm/hooprun/internal/config"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
	"github.com/zachm/hooprun/internal/pkg/auth"
)

func strPtr(s string) *string { return &s }

// Fixed IDs keep run rows pointing at the same locations across
// restarts and environments.
var defaultLocations = []appModels.Location{
	{
		ID:          uuid.MustParse("5f1c43f6-9ccf-4e0f-8c4f-2d1f4b1a9101"),
		Name:        "Rucker Park",
		Address:     "155th St & Frederick Douglass Blvd",
		Description: strPtr("Outdoor full court, first come first served after 6pm"),
	},
	{
		ID:          uuid.MustParse("5f1c43f6-9ccf-4e0f-8c4f-2d1f4b1a9102"),
		Name:        "Eastside Rec Center",
		Address:     "420 E 26th St",
		Description: strPtr("Indoor hardwood, two courts, bring both jersey colors"),
	},
	{
		ID:          uuid.MustParse("5f1c43f6-9ccf-4e0f-8c4f-2d1f4b1a9103"),
		Name:        "Riverside Courts",
		Address:     "2 Riverside Dr",
		Description: strPtr("Three outdoor half courts by the water"),
	},
}

// CreateDefaultData upserts the seeded locations and the bootstrap admin
// account. Errors are joined and reported once so startup can decide
// whether to proceed.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	locationRepo := appRepos.NewLocationRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (locations, admin account)...")
	var finalErr error

	for i := range defaultLocations {
		if err := locationRepo.Upsert(ctx, &defaultLocations[i]); err != nil {
			lgr.Error().Err(err).Str("location", defaultLocations[i].Name).Msg("Error seeding location")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createAdminUser(ctx, userRepo, cfg, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createAdminUser(ctx context.Context, userRepo *appRepos.UserRepository, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		lgr.Warn().Msg("Admin credentials not configured, skipping admin account seed")
		return nil
	}

	_, err := userRepo.GetByUsername(ctx, cfg.Admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for existing admin account")
		return err
	}

	passwordHash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		ID:           uuid.New(),
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		PasswordHash: passwordHash,
		FirstName:    "Admin",
		IsAdmin:      true,
		IsVerified:   true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Str("username", admin.Username).Msg("Admin account created")
	return nil
}
