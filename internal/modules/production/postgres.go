package production

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository reads job snapshots from the decoration_jobs table.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const jobColumns = `id, order_id, decoration_method, COALESCE(current_stage, ''), status,
	COALESCE(title, ''), scheduled_start, scheduled_end`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrJobNotFound, id)
	}
	j, err := r.scan(r.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM decoration_jobs WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return j, err
}

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID string) ([]Job, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, fmt.Errorf("%w: invalid order_id %q", ErrInvalidRequest, orderID)
	}
	return r.list(ctx, `
		SELECT `+jobColumns+`
		FROM decoration_jobs WHERE order_id=$1
		ORDER BY created_at ASC, id ASC`, orderID)
}

func (r *postgresRepo) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]Job, error) {
	return r.list(ctx, `
		SELECT `+jobColumns+`
		FROM decoration_jobs
		WHERE scheduled_start IS NOT NULL
		  AND scheduled_start < $2
		  AND CASE WHEN scheduled_end > scheduled_start THEN scheduled_end
		           ELSE scheduled_start + $3 * interval '1 second' END > $1
		ORDER BY scheduled_start ASC, id ASC`, from, to, DefaultEventDuration.Seconds())
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var jobs []Job
	for rows.Next() {
		j, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Job, error) {
	j := &Job{}
	var start, end sql.NullTime
	err := row.Scan(&j.ID, &j.OrderID, &j.DecorationMethod, &j.CurrentStage, &j.Status,
		&j.Title, &start, &end)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		j.ScheduledStart = &start.Time
	}
	if end.Valid {
		j.ScheduledEnd = &end.Time
	}
	return j, nil
}
