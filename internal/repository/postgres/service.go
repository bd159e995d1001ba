package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/model"
)

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (id, name, description, duration, price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	svc.ID = uuid.New()
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = svc.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		svc.ID, svc.Name, svc.Description, svc.Duration, svc.Price, svc.Active,
		svc.CreatedAt, svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, name, description, duration, price, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	if err := r.db.GetContext(ctx, &svc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, duration = $3, price = $4, active = $5, updated_at = $6
		WHERE id = $7
	`
	svc.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		svc.Name, svc.Description, svc.Duration, svc.Price, svc.Active, svc.UpdatedAt, svc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrServiceNotFound
	}
	return nil
}

// Deactivate soft-deletes: bookings and requests keep referencing the row,
// it just stops being offered.
func (r *serviceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE services SET active = false, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrServiceNotFound
	}
	return nil
}

func (r *serviceRepository) List(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	query := `
		SELECT id, name, description, duration, price, active, created_at, updated_at
		FROM services
	`
	if activeOnly {
		query += " WHERE active = true"
	}
	query += " ORDER BY name ASC"

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
