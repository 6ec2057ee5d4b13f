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
	"github.com/zachm/hooprun/internal/db"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

var runColumns = []string{
	"id", "title", "date", "start_time", "end_time", "location_id",
	"description", "capacity", "cost", "is_variable_cost", "total_cost",
	"created_by", "created_at", "is_historical", "is_completed",
	"completed_at", "completed_by", "guest_attendees",
}

// RunRepository handles database operations for runs
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

func scanRun(row pgx.Row) (*models.Run, error) {
	var run models.Run
	err := row.Scan(
		&run.ID,
		&run.Title,
		&run.Date,
		&run.StartTime,
		&run.EndTime,
		&run.LocationID,
		&run.Description,
		&run.Capacity,
		&run.Cost,
		&run.IsVariableCost,
		&run.TotalCost,
		&run.CreatedBy,
		&run.CreatedAt,
		&run.IsHistorical,
		&run.IsCompleted,
		&run.CompletedAt,
		&run.CompletedBy,
		&run.GuestAttendees,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Create inserts a new run
func (r *RunRepository) Create(ctx context.Context, run *models.Run) error {
	guests := run.GuestAttendees
	if guests == nil {
		guests = []string{}
	}

	query := squirrel.Insert("runs").
		Columns("id", "title", "date", "start_time", "end_time", "location_id",
			"description", "capacity", "cost", "is_variable_cost", "total_cost",
			"created_by", "is_historical", "is_completed", "guest_attendees").
		Values(run.ID, run.Title, run.Date, run.StartTime, run.EndTime, run.LocationID,
			run.Description, run.Capacity, run.Cost, run.IsVariableCost, run.TotalCost,
			run.CreatedBy, run.IsHistorical, run.IsCompleted, guests).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&run.CreatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// ImportedRSVP seeds one participant row on an imported historical run
type ImportedRSVP struct {
	UserID   uuid.UUID
	Status   models.RSVPStatus
	Attended bool
}

// CreateWithParticipants inserts a run and its seeded RSVP rows in a
// single transaction. A failure on any row leaves nothing behind.
func (r *RunRepository) CreateWithParticipants(ctx context.Context, run *models.Run, rsvps []ImportedRSVP) error {
	guests := run.GuestAttendees
	if guests == nil {
		guests = []string{}
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := squirrel.Insert("runs").
			Columns("id", "title", "date", "start_time", "end_time", "location_id",
				"description", "capacity", "cost", "is_variable_cost", "total_cost",
				"created_by", "is_historical", "is_completed", "guest_attendees").
			Values(run.ID, run.Title, run.Date, run.StartTime, run.EndTime, run.LocationID,
				run.Description, run.Capacity, run.Cost, run.IsVariableCost, run.TotalCost,
				run.CreatedBy, run.IsHistorical, run.IsCompleted, guests).
			Suffix("RETURNING created_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&run.CreatedAt); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}

		for _, rsvp := range rsvps {
			sql, args, err := squirrel.Insert("run_participants").
				Columns("id", "run_id", "user_id", "status", "attended", "no_show").
				Values(uuid.New(), run.ID, rsvp.UserID, rsvp.Status, rsvp.Attended, false).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("error building SQL: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error executing query: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a run by ID
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	query := squirrel.Select(runColumns...).
		From("runs").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	run, err := scanRun(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRunNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return run, nil
}

// GetAll retrieves every run ordered by date then start time
func (r *RunRepository) GetAll(ctx context.Context) ([]*models.Run, error) {
	query := squirrel.Select(runColumns...).
		From("runs").
		OrderBy("date", "start_time").
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

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// GetByIDs retrieves runs by their IDs, keyed by ID
func (r *RunRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Run, error) {
	runs := make(map[uuid.UUID]*models.Run)
	if len(ids) == 0 {
		return runs, nil
	}

	query := squirrel.Select(runColumns...).
		From("runs").
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
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		runs[run.ID] = run
	}

	return runs, nil
}

// Update overwrites a run's editable fields
func (r *RunRepository) Update(ctx context.Context, run *models.Run) error {
	query := squirrel.Update("runs").
		Set("title", run.Title).
		Set("date", run.Date).
		Set("start_time", run.StartTime).
		Set("end_time", run.EndTime).
		Set("location_id", run.LocationID).
		Set("description", run.Description).
		Set("capacity", run.Capacity).
		Set("cost", run.Cost).
		Set("is_variable_cost", run.IsVariableCost).
		Set("total_cost", run.TotalCost).
		Where("id = ?", run.ID).
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
		return apperrors.ErrRunNotFound
	}

	return nil
}

// Delete removes a run. Participant rows cascade.
func (r *RunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("runs").
		Where("id = ?", id).
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
		return apperrors.ErrRunNotFound
	}

	return nil
}

// AttendanceOutcome is the resolved attendance for one user on a
// completed run
type AttendanceOutcome struct {
	Attended bool
	NoShow   bool
}

// Complete marks a run completed and writes the resolved attendance rows
// in a single transaction. Users without an existing RSVP row get a fresh
// confirmed row (walk-on attendees).
func (r *RunRepository) Complete(ctx context.Context, runID, completedBy uuid.UUID, completedAt time.Time, guestAttendees []string, outcomes map[uuid.UUID]AttendanceOutcome) error {
	if guestAttendees == nil {
		guestAttendees = []string{}
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for userID, outcome := range outcomes {
			sql, args, err := squirrel.Insert("run_participants").
				Columns("id", "run_id", "user_id", "status", "attended", "no_show").
				Values(uuid.New(), runID, userID, models.StatusConfirmed, outcome.Attended, outcome.NoShow).
				Suffix("ON CONFLICT (run_id, user_id) DO UPDATE SET attended = EXCLUDED.attended, no_show = EXCLUDED.no_show").
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("error building SQL: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error executing query: %w", err)
			}
		}

		sql, args, err := squirrel.Update("runs").
			Set("is_completed", true).
			Set("completed_at", completedAt).
			Set("completed_by", completedBy).
			Set("guest_attendees", guestAttendees).
			Where("id = ?", runID).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrRunNotFound
		}

		return nil
	})
}
