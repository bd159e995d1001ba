package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/model"
)

func (r *scheduleRepository) ListWorkingHours(ctx context.Context) ([]model.WorkingHours, error) {
	query := `
		SELECT id, weekday, start_time, end_time, active, created_at, updated_at
		FROM working_hours
		ORDER BY weekday ASC
	`
	var hours []model.WorkingHours
	if err := r.db.SelectContext(ctx, &hours, query); err != nil {
		return nil, fmt.Errorf("failed to list working hours: %w", err)
	}
	return hours, nil
}

// UpsertWorkingHours replaces the single row for a weekday; the unique index
// on weekday makes "at most one entry per weekday" a database invariant
// rather than an application convention.
func (r *scheduleRepository) UpsertWorkingHours(ctx context.Context, wh *model.WorkingHours) error {
	query := `
		INSERT INTO working_hours (id, weekday, start_time, end_time, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (weekday) DO UPDATE
		SET start_time = EXCLUDED.start_time,
		    end_time = EXCLUDED.end_time,
		    active = EXCLUDED.active,
		    updated_at = EXCLUDED.updated_at
	`
	wh.ID = uuid.New()
	now := time.Now()
	wh.CreatedAt = now
	wh.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		wh.ID, wh.Weekday, wh.StartTime, wh.EndTime, wh.Active, wh.CreatedAt, wh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert working hours: %w", err)
	}
	return nil
}

func (r *scheduleRepository) ListDayOffs(ctx context.Context) ([]model.DayOff, error) {
	query := `
		SELECT id, date, reason, created_at
		FROM day_offs
		ORDER BY date ASC
	`
	var dayOffs []model.DayOff
	if err := r.db.SelectContext(ctx, &dayOffs, query); err != nil {
		return nil, fmt.Errorf("failed to list day offs: %w", err)
	}
	return dayOffs, nil
}

func (r *scheduleRepository) ListDayOffsInRange(ctx context.Context, from, to time.Time) ([]model.DayOff, error) {
	query := `
		SELECT id, date, reason, created_at
		FROM day_offs
		WHERE date >= $1 AND date < $2
		ORDER BY date ASC
	`
	var dayOffs []model.DayOff
	if err := r.db.SelectContext(ctx, &dayOffs, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list day offs in range: %w", err)
	}
	return dayOffs, nil
}

func (r *scheduleRepository) CreateDayOff(ctx context.Context, d *model.DayOff) error {
	query := `
		INSERT INTO day_offs (id, date, reason, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE SET reason = EXCLUDED.reason
	`
	d.ID = uuid.New()
	d.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query, d.ID, d.Date, d.Reason, d.CreatedAt); err != nil {
		return fmt.Errorf("failed to create day off: %w", err)
	}
	return nil
}

func (r *scheduleRepository) DeleteDayOff(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM day_offs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete day off: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrDayOffNotFound
	}
	return nil
}
