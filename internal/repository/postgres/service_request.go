package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/scheduling"
)

const requestColumns = `
	r.id, r.service_id, r.client_name, r.client_phone, r.address, r.notes,
	r.status, r.admin_notes, r.created_at, r.updated_at,
	s.name AS service_name
`

func (r *serviceRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (id, service_id, client_name, client_phone, address, notes, status, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	req.ID = uuid.New()
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.Status = model.RequestStatusPending

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.ServiceID, req.ClientName, req.ClientPhone, req.Address,
		req.Notes, req.Status, req.AdminNotes, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

func (r *serviceRequestRepository) Get(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests r
		JOIN services s ON s.id = r.service_id
		WHERE r.id = $1
	`
	var req model.ServiceRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return &req, nil
}

func (r *serviceRequestRepository) List(ctx context.Context, status *model.RequestStatus) ([]*model.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests r
		JOIN services s ON s.id = r.service_id
	`
	args := []interface{}{}
	if status != nil {
		query += " WHERE r.status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY r.created_at DESC"

	var requests []*model.ServiceRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, nil
}

// ApproveAndBook is atomic by construction: the status flip and the booking
// insert share one transaction, so an approved request without its booking
// can never be observed. The request row is locked first; losing a status
// race surfaces as ErrInvalidStateTransition, losing the slot race as
// ErrSlotTaken.
func (r *serviceRequestRepository) ApproveAndBook(ctx context.Context, requestID uuid.UUID, adminNotes *string, b *model.Booking, durationMinutes int) (*model.Booking, error) {
	start, err := scheduling.ParseTimeOfDay(b.Time)
	if err != nil {
		return nil, model.ErrInvalidSchedule
	}

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var status model.RequestStatus
		err := tx.GetContext(ctx, &status,
			`SELECT status FROM service_requests WHERE id = $1 FOR UPDATE`, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrRequestNotFound
			}
			return fmt.Errorf("failed to get service request: %w", err)
		}
		if status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is %s", model.ErrInvalidStateTransition, status)
		}

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

		_, err = tx.ExecContext(ctx,
			`UPDATE service_requests SET status = $1, admin_notes = $2, updated_at = $3 WHERE id = $4`,
			model.RequestStatusApproved, adminNotes, time.Now(), requestID,
		)
		if err != nil {
			return fmt.Errorf("failed to approve service request: %w", err)
		}

		return insertBooking(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *serviceRequestRepository) Reject(ctx context.Context, requestID uuid.UUID, adminNotes *string) (*model.ServiceRequest, error) {
	var rejected *model.ServiceRequest
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var status model.RequestStatus
		err := tx.GetContext(ctx, &status,
			`SELECT status FROM service_requests WHERE id = $1 FOR UPDATE`, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrRequestNotFound
			}
			return fmt.Errorf("failed to get service request: %w", err)
		}
		if status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is %s", model.ErrInvalidStateTransition, status)
		}

		query := `
			UPDATE service_requests
			SET status = $1, admin_notes = $2, updated_at = $3
			WHERE id = $4
			RETURNING id, service_id, client_name, client_phone, address, notes, status, admin_notes, created_at, updated_at
		`
		var req model.ServiceRequest
		if err := tx.GetContext(ctx, &req, query, model.RequestStatusRejected, adminNotes, time.Now(), requestID); err != nil {
			return fmt.Errorf("failed to reject service request: %w", err)
		}
		rejected = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM service_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrRequestNotFound
	}
	return nil
}
