package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable line of work. Duration drives the slot math: every
// booking for this service occupies [time, time+Duration) minutes.
type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Duration    int       `db:"duration" json:"duration"` // in minutes
	Price       *float64  `db:"price" json:"price,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required,max=120"`
	Description string   `json:"description" binding:"max=1000"`
	Duration    int      `json:"duration" binding:"required,gt=0"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Active      *bool    `json:"active"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Active      *bool    `json:"active"`
}
