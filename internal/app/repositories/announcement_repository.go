package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/db"
)

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create deactivates every existing announcement and inserts the new one
// as the single active announcement, atomically.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		deactivate, args, err := squirrel.Update("announcements").
			Set("is_active", false).
			Where("is_active = TRUE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, deactivate, args...); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}

		insert, args, err := squirrel.Insert("announcements").
			Columns("id", "message", "created_by", "is_active").
			Values(announcement.ID, announcement.Message, announcement.CreatedBy, true).
			Suffix("RETURNING created_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, insert, args...).Scan(&announcement.CreatedAt); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		announcement.IsActive = true

		return nil
	})
}

// GetActive retrieves the latest active announcement, nil when none exists
func (r *AnnouncementRepository) GetActive(ctx context.Context) (*models.Announcement, error) {
	query := squirrel.Select("id", "message", "created_by", "created_at", "is_active").
		From("announcements").
		Where("is_active = TRUE").
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var a models.Announcement
	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.Message, &a.CreatedBy, &a.CreatedAt, &a.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &a, nil
}

// DeactivateAll clears every active announcement
func (r *AnnouncementRepository) DeactivateAll(ctx context.Context) error {
	query := squirrel.Update("announcements").
		Set("is_active", false).
		Where("is_active = TRUE").
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
