package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

var locationColumns = []string{"id", "name", "address", "description", "image_url"}

// LocationRepository handles database operations for locations
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

func scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Description, &loc.ImageURL)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Upsert inserts a location or refreshes its details. Used by seeding so
// location IDs stay stable across restarts.
func (r *LocationRepository) Upsert(ctx context.Context, loc *models.Location) error {
	query := squirrel.Insert("locations").
		Columns("id", "name", "address", "description", "image_url").
		Values(loc.ID, loc.Name, loc.Address, loc.Description, loc.ImageURL).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, description = EXCLUDED.description, image_url = EXCLUDED.image_url").
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

// GetByID retrieves a location by ID
func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	query := squirrel.Select(locationColumns...).
		From("locations").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return loc, nil
}

// GetByName retrieves a location by exact name. Import batches reference
// locations by name rather than ID.
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*models.Location, error) {
	query := squirrel.Select(locationColumns...).
		From("locations").
		Where("LOWER(name) = LOWER(?)", name).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return loc, nil
}

// GetAll retrieves every location ordered by name
func (r *LocationRepository) GetAll(ctx context.Context) ([]*models.Location, error) {
	query := squirrel.Select(locationColumns...).
		From("locations").
		OrderBy("name").
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

	var locations []*models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

// GetByIDs retrieves locations by their IDs, keyed by ID
func (r *LocationRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Location, error) {
	locations := make(map[uuid.UUID]*models.Location)
	if len(ids) == 0 {
		return locations, nil
	}

	query := squirrel.Select(locationColumns...).
		From("locations").
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
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		locations[loc.ID] = loc
	}

	return locations, nil
}
