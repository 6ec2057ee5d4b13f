package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zachm/hooprun/internal/app/models"
)

// ParticipantRepository handles database operations for run participants
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

var participantJoinColumns = []string{
	"rp.id", "rp.run_id", "rp.user_id", "rp.status", "rp.attended", "rp.no_show", "rp.updated_at",
	"u.id", "u.username", "u.email", "u.first_name", "u.last_name", "u.badge",
	"u.runs_attended_count", "u.no_shows_count", "u.is_admin", "u.is_verified", "u.created_at",
}

func scanParticipantWithUser(rows pgx.Rows) (*models.RunParticipant, error) {
	var p models.RunParticipant
	var u models.User
	err := rows.Scan(
		&p.ID,
		&p.RunID,
		&p.UserID,
		&p.Status,
		&p.Attended,
		&p.NoShow,
		&p.UpdatedAt,
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Badge,
		&u.RunsAttendedCount,
		&u.NoShowsCount,
		&u.IsAdmin,
		&u.IsVerified,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.User = &u
	return &p, nil
}

// Upsert records a user's RSVP, replacing any previous status. The
// updated_at bump keeps the confirmed list in first-come order.
func (r *ParticipantRepository) Upsert(ctx context.Context, runID, userID uuid.UUID, status models.RSVPStatus) error {
	query := squirrel.Insert("run_participants").
		Columns("id", "run_id", "user_id", "status").
		Values(uuid.New(), runID, userID, status).
		Suffix("ON CONFLICT (run_id, user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()").
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

// GetByRun retrieves a run's RSVP rows with their users joined in
func (r *ParticipantRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]*models.RunParticipant, error) {
	query := squirrel.Select(participantJoinColumns...).
		From("run_participants rp").
		Join("users u ON u.id = rp.user_id").
		Where("rp.run_id = ?", runID).
		OrderBy("rp.updated_at").
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

	var participants []*models.RunParticipant
	for rows.Next() {
		p, err := scanParticipantWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// GetByRuns retrieves RSVP rows for multiple runs, grouped by run ID
func (r *ParticipantRepository) GetByRuns(ctx context.Context, runIDs []uuid.UUID) (map[uuid.UUID][]*models.RunParticipant, error) {
	grouped := make(map[uuid.UUID][]*models.RunParticipant)
	if len(runIDs) == 0 {
		return grouped, nil
	}

	query := squirrel.Select(participantJoinColumns...).
		From("run_participants rp").
		Join("users u ON u.id = rp.user_id").
		Where(squirrel.Eq{"rp.run_id": runIDs}).
		OrderBy("rp.updated_at").
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
		p, err := scanParticipantWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		grouped[p.RunID] = append(grouped[p.RunID], p)
	}

	return grouped, nil
}

// GetRunIDsByUser retrieves the runs a user has an RSVP row for
func (r *ParticipantRepository) GetRunIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := squirrel.Select("run_id").
		From("run_participants").
		Where("user_id = ?", userID).
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

	var runIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		runIDs = append(runIDs, id)
	}

	return runIDs, nil
}

// ConfirmedCountExcluding counts confirmed RSVPs for a run, leaving out
// one user so their own status change never blocks on capacity.
func (r *ParticipantRepository) ConfirmedCountExcluding(ctx context.Context, runID, userID uuid.UUID) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("run_participants").
		Where("run_id = ? AND status = ? AND user_id <> ?", runID, models.StatusConfirmed, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

// SetAttendance records the attendance outcome for one RSVP row
func (r *ParticipantRepository) SetAttendance(ctx context.Context, runID, userID uuid.UUID, attended, noShow bool) error {
	query := squirrel.Update("run_participants").
		Set("attended", attended).
		Set("no_show", noShow).
		Where("run_id = ? AND user_id = ?", runID, userID).
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

// CountAttendanceByUser tallies a user's attended and no-show rows
func (r *ParticipantRepository) CountAttendanceByUser(ctx context.Context, userID uuid.UUID) (attended int, noShows int, err error) {
	query := squirrel.Select(
		"COUNT(*) FILTER (WHERE attended)",
		"COUNT(*) FILTER (WHERE no_show)",
	).
		From("run_participants").
		Where("user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&attended, &noShows); err != nil {
		return 0, 0, fmt.Errorf("error executing query: %w", err)
	}

	return attended, noShows, nil
}
