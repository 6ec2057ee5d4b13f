package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/zachm/hooprun/internal/app/controllers"
	appMigrations "github.com/zachm/hooprun/internal/app/migrations"
	appRepos "github.com/zachm/hooprun/internal/app/repositories"
	appRoutes "github.com/zachm/hooprun/internal/app/routes"
	appServices "github.com/zachm/hooprun/internal/app/services"
	"github.com/zachm/hooprun/internal/config"
	"github.com/zachm/hooprun/internal/db"
	appMiddleware "github.com/zachm/hooprun/internal/middleware"
	pkgAuth "github.com/zachm/hooprun/internal/pkg/auth"
	"github.com/zachm/hooprun/internal/pkg/email"
	"github.com/zachm/hooprun/internal/pkg/helpers"
	"github.com/zachm/hooprun/internal/pkg/logger"
	"github.com/zachm/hooprun/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	Sender                email.Sender
	LocalQueue            *email.LocalQueue
	Notifier              *email.Notifier
	AuthService           *appServices.AuthService
	RunService            *appServices.RunService
	UserService           *appServices.UserService
	StatsService          *appServices.StatsService
	AdminService          *appServices.AdminService
	AuthController        *appControllers.AuthController
	RunController         *appControllers.RunController
	UserController        *appControllers.UserController
	AdminController       *appControllers.AdminController
	EmailWorkerController *appControllers.EmailWorkerController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations,
// and seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, the email stack, services,
// and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 720*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	// Email stack: Resend behind either QStash (production) or the
	// in-process queue (development).
	deps.Sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromAddress)

	var dispatcher email.Dispatcher
	if cfg.UseQStash() {
		lgr.Info().Str("workerURL", cfg.QStashWorkerURL()).Msg("Dispatching email through QStash")
		dispatcher = email.NewQStashPublisher(cfg.QStash.Token, cfg.QStashWorkerURL())
	} else {
		lgr.Info().Msg("Dispatching email through the in-process queue")
		deps.LocalQueue = email.NewLocalQueue(deps.Sender)
		deps.LocalQueue.Start()
		dispatcher = deps.LocalQueue
	}
	deps.Notifier = email.NewNotifier(dispatcher, cfg.Email.FrontendURL)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.Notifier,
		lgr,
	)
	deps.RunService = appServices.NewRunService(
		deps.Repos.RunRepository,
		deps.Repos.ParticipantRepository,
		deps.Repos.LocationRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.RunRepository,
		deps.Repos.ParticipantRepository,
		deps.Repos.LocationRepository,
		deps.RunService,
		lgr,
	)
	deps.StatsService = appServices.NewStatsService(
		deps.Repos.UserRepository,
		deps.Repos.ParticipantRepository,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.UserRepository,
		deps.Repos.RunRepository,
		deps.Repos.ParticipantRepository,
		deps.Repos.LocationRepository,
		deps.Repos.AnnouncementRepository,
		deps.RunService,
		deps.StatsService,
		deps.Notifier,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.RunController = appControllers.NewRunController(deps.RunService)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.AuthService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService)
	deps.EmailWorkerController = appControllers.NewEmailWorkerController(
		deps.Sender,
		cfg.IsProduction(),
		cfg.QStash.CurrentSigningKey,
		cfg.QStash.NextSigningKey,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RunController,
		deps.UserController,
		deps.AdminController,
		deps.EmailWorkerController,
		deps.AuthMiddleware,
	)

	return router
}
