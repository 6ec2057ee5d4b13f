package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

var userColumns = []string{
	"id", "username", "email", "password_hash", "first_name", "last_name",
	"badge", "referred_by", "runs_attended_count", "no_shows_count",
	"is_admin", "is_verified", "reset_token", "reset_token_expires", "created_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Badge,
		&u.ReferredBy,
		&u.RunsAttendedCount,
		&u.NoShowsCount,
		&u.IsAdmin,
		&u.IsVerified,
		&u.ResetToken,
		&u.ResetTokenExpires,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns("id", "username", "email", "password_hash", "first_name", "last_name",
			"badge", "referred_by", "is_admin", "is_verified").
		Values(user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
			user.Badge, user.ReferredBy, user.IsAdmin, user.IsVerified).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.CreatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username, case-insensitively
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where("LOWER(username) = LOWER(?)", username).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where("LOWER(email) = LOWER(?)", email).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return user, nil
}

// GetByIDs retrieves users by their IDs, keyed by ID
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	users := make(map[uuid.UUID]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	query := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": ids}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users[user.ID] = user
	}

	return users, nil
}

// GetAll retrieves every user ordered by first name then username
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		OrderBy("LOWER(first_name)", "LOWER(username)").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// UsernameExists checks if a username is taken, case-insensitively
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "LOWER(username) = LOWER(?)", username)
}

// EmailExists checks if an email is taken, case-insensitively
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) exists(ctx context.Context, condition string, arg interface{}) (bool, error) {
	query := squirrel.Select("1").
		From("users").
		Where(condition, arg).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

// UpdateProfile updates a user's editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, email, firstName string, lastName *string) error {
	builder := squirrel.Update("users").
		Set("email", email).
		Set("first_name", firstName).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)
	if lastName != nil {
		builder = builder.Set("last_name", *lastName)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := squirrel.Update("users").
		Set("password_hash", passwordHash).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// SetVerified toggles the verified flag
func (r *UserRepository) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	query := squirrel.Update("users").
		Set("is_verified", verified).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// SetBadge assigns or clears a user's badge and referrer
func (r *UserRepository) SetBadge(ctx context.Context, userID uuid.UUID, badge *models.Badge, referredBy *uuid.UUID) error {
	query := squirrel.Update("users").
		Set("badge", badge).
		Set("referred_by", referredBy).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// SetResetToken stores a password reset token and its expiry
func (r *UserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expires time.Time) error {
	query := squirrel.Update("users").
		Set("reset_token", token).
		Set("reset_token_expires", expires).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByResetToken retrieves a user holding an unexpired reset token
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where("reset_token = ? AND reset_token_expires > NOW()", token).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return user, nil
}

// ClearResetToken removes a consumed or superseded reset token
func (r *UserRepository) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	query := squirrel.Update("users").
		Set("reset_token", nil).
		Set("reset_token_expires", nil).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// UpdateStats overwrites the attendance counters
func (r *UserRepository) UpdateStats(ctx context.Context, userID uuid.UUID, attended, noShows int) error {
	query := squirrel.Update("users").
		Set("runs_attended_count", attended).
		Set("no_shows_count", noShows).
		Where("id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// GetAllIDs retrieves the IDs of every user
func (r *UserRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := squirrel.Select("id").
		From("users").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetAllNewestFirst retrieves every user ordered by signup time descending
func (r *UserRepository) GetAllNewestFirst(ctx context.Context) ([]*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// GetAdminEmails retrieves the addresses of all admins
func (r *UserRepository) GetAdminEmails(ctx context.Context) ([]string, error) {
	query := squirrel.Select("email").
		From("users").
		Where("is_admin = TRUE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, nil
}

// GetVerifiedEmails retrieves the addresses of all verified users
func (r *UserRepository) GetVerifiedEmails(ctx context.Context) ([]string, error) {
	query := squirrel.Select("email").
		From("users").
		Where("is_verified = TRUE").
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, nil
}
