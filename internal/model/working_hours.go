package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours is the opening window for one weekday (0 = Sunday ... 6 =
// Saturday). Times are minute-precision "HH:MM" strings in the business
// timezone. At most one active row exists per weekday; an inactive row means
// the weekday is closed.
type WorkingHours struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UpsertWorkingHoursRequest creates or replaces the window for a weekday.
type UpsertWorkingHoursRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Active    *bool  `json:"active"`
}

// DayOff closes a specific calendar date regardless of weekday rules.
type DayOff struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateDayOffRequest struct {
	Date   string  `json:"date" binding:"required,dateonly"`
	Reason *string `json:"reason" binding:"omitempty,max=255"`
}
