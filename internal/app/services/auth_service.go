package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/repositories"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
	"github.com/zachm/hooprun/internal/pkg/auth"
	"github.com/zachm/hooprun/internal/pkg/email"
)

const resetTokenTTL = 15 * time.Minute

// AuthService handles signup, login, and password recovery
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	notifier   *email.Notifier
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	notifier *email.Notifier,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		notifier:   notifier,
		logger:     logger,
	}
}

// Signup creates an unverified account and returns a session token.
// Usernames and emails are unique case-insensitively.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	emailAddr := strings.TrimSpace(strings.ToLower(req.Email))

	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameExists
	}

	taken, err = s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        emailAddr,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.notifier.SendWelcome(user)
	if adminEmails, err := s.userRepo.GetAdminEmails(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load admin emails for signup notification")
	} else {
		s.notifier.SendAdminNewUser(adminEmails, user)
	}

	return &dto.AuthResponse{
		Message: "Account created. An admin will verify you soon.",
		Token:   token,
		User:    dto.NewUserView(user, nil),
	}, nil
}

// Login checks credentials and returns a session token. Unknown users
// and bad passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	referrer, err := s.loadReferrer(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message: "Logged in",
		Token:   token,
		User:    dto.NewUserView(user, referrer),
	}, nil
}

// GetCurrentUser returns the authenticated user's view
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	referrer, err := s.loadReferrer(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{User: dto.NewUserView(user, referrer)}, nil
}

// ForgotPassword stores a short-lived reset token and emails a reset
// link. The outcome is identical whether or not the address exists, so
// the endpoint never leaks which emails are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	s.notifier.SendPasswordReset(user, token)
	return nil
}

// ResetPassword redeems a reset token for a new password. The token is
// single-use; it is cleared on success.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}
	return s.userRepo.ClearResetToken(ctx, user.ID)
}

func (s *AuthService) loadReferrer(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ReferredBy == nil {
		return nil, nil
	}
	referrer, err := s.userRepo.GetByID(ctx, *user.ReferredBy)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return referrer, nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
