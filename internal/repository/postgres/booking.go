package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/scheduling"
)

const bookingColumns = `
	b.id, b.service_id, b.client_name, b.client_phone, b.date, b.time,
	b.status, b.price, b.notes, b.created_at, b.updated_at,
	s.name AS service_name, s.duration AS service_duration
`

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.id = $1
	`
	var b model.Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.Date != nil {
		query += fmt.Sprintf(" AND b.date = $%d", argCount)
		args = append(args, *filters.Date)
		argCount++
	}
	if filters != nil && filters.Status != nil {
		query += fmt.Sprintf(" AND b.status = $%d", argCount)
		args = append(args, *filters.Status)
		argCount++
	}

	query += " ORDER BY b.date ASC, b.time ASC"

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListOccupying(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	return selectOccupying(ctx, r.db, date, nil)
}

func (r *bookingRepository) ListConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.date = $1 AND b.status = $2
		ORDER BY b.time ASC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, date, model.BookingStatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings: %w", err)
	}
	return bookings, nil
}

// CreateConflictFree inserts a booking after re-checking, under the per-date
// advisory lock, that its interval overlaps no occupying booking. Under
// concurrent attempts at the same slot at most one insert succeeds; the
// losers observe model.ErrSlotTaken.
func (r *bookingRepository) CreateConflictFree(ctx context.Context, b *model.Booking, durationMinutes int) error {
	start, err := scheduling.ParseTimeOfDay(b.Time)
	if err != nil {
		return model.ErrInvalidSchedule
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockBookingDate(ctx, tx, b.Date); err != nil {
			return fmt.Errorf("failed to lock booking date: %w", err)
		}

		idx, err := occupiedIndex(ctx, tx, b.Date, nil)
		if err != nil {
			return err
		}
		if idx.Conflicts(scheduling.Interval{Start: start, End: start.Add(durationMinutes)}) {
			return model.ErrSlotTaken
		}

		return insertBooking(ctx, tx, b)
	})
}

// SetStatus transitions a booking through the closed status table. A
// transition that re-occupies a slot (cancelled -> pending) runs under the
// per-date lock and re-checks conflicts, so reactivation cannot
// double-book.
func (r *bookingRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, notes *string) (*model.Booking, error) {
	var updated *model.Booking
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			SELECT ` + bookingColumns + `
			FROM bookings b
			JOIN services s ON s.id = b.service_id
			WHERE b.id = $1
			FOR UPDATE OF b
		`
		var b model.Booking
		if err := tx.GetContext(ctx, &b, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrBookingNotFound
			}
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if status != b.Status {
			if !b.Status.CanTransitionTo(status) {
				return fmt.Errorf("%w: booking %s -> %s", model.ErrInvalidStateTransition, b.Status, status)
			}
			if status.Occupying() && !b.Status.Occupying() {
				if err := lockBookingDate(ctx, tx, b.Date); err != nil {
					return fmt.Errorf("failed to lock booking date: %w", err)
				}
				start, err := scheduling.ParseTimeOfDay(b.Time)
				if err != nil {
					return model.ErrInvalidSchedule
				}
				idx, err := occupiedIndex(ctx, tx, b.Date, &b.ID)
				if err != nil {
					return err
				}
				if idx.Conflicts(scheduling.Interval{Start: start, End: start.Add(b.ServiceDuration)}) {
					return model.ErrSlotTaken
				}
			}
		}

		b.Status = status
		if notes != nil {
			b.Notes = notes
		}
		b.UpdatedAt = time.Now()

		_, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = $1, notes = $2, updated_at = $3 WHERE id = $4`,
			b.Status, b.Notes, b.UpdatedAt, b.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		updated = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func selectOccupying(ctx context.Context, q queryer, date time.Time, excludeID *uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.date = $1 AND b.status IN ($2, $3)
	`
	args := []interface{}{date, model.BookingStatusPending, model.BookingStatusConfirmed}
	if excludeID != nil {
		query += " AND b.id != $4"
		args = append(args, *excludeID)
	}
	query += " ORDER BY b.time ASC"

	var bookings []*model.Booking
	if err := q.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list occupying bookings: %w", err)
	}
	return bookings, nil
}

// occupiedIndex loads the date's occupying bookings under the current
// transaction and builds the conflict index. Rows with an unparseable time
// are skipped; write paths reject such times, so they should not exist.
func occupiedIndex(ctx context.Context, tx *sqlx.Tx, date time.Time, excludeID *uuid.UUID) (*scheduling.ConflictIndex, error) {
	bookings, err := selectOccupying(ctx, tx, date, excludeID)
	if err != nil {
		return nil, err
	}
	intervals := make([]scheduling.Interval, 0, len(bookings))
	for _, b := range bookings {
		start, err := scheduling.ParseTimeOfDay(b.Time)
		if err != nil {
			continue
		}
		intervals = append(intervals, scheduling.Interval{Start: start, End: start.Add(b.ServiceDuration)})
	}
	return scheduling.NewConflictIndex(intervals), nil
}

func insertBooking(ctx context.Context, tx *sqlx.Tx, b *model.Booking) error {
	query := `
		INSERT INTO bookings (id, service_id, client_name, client_phone, date, time, status, price, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	b.ID = uuid.New()
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := tx.ExecContext(ctx, query,
		b.ID, b.ServiceID, b.ClientName, b.ClientPhone, b.Date, b.Time,
		b.Status, b.Price, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		// The partial unique index on (date, time) for occupying statuses
		// backstops the advisory lock for exact-time duplicates.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return model.ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}
