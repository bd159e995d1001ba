package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Valid reports whether s is one of the closed set of booking statuses.
// Unknown values are rejected at the boundary, never normalized.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Occupying reports whether a booking in this status blocks its time
// interval. Cancelled and completed bookings free the slot.
func (s BookingStatus) Occupying() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanTransitionTo encodes the closed transition table for bookings.
// Completed is terminal; a cancelled booking may be reactivated to pending,
// which re-occupies its slot and therefore goes through the conflict guard.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled || next == BookingStatusCompleted
	case BookingStatusConfirmed:
		return next == BookingStatusPending || next == BookingStatusCancelled || next == BookingStatusCompleted
	case BookingStatusCancelled:
		return next == BookingStatusPending
	}
	return false
}

// Booking is a confirmed-or-pending appointment. Its occupied interval is
// [Time, Time+service duration) on Date. ServiceDuration is populated by
// repository queries that join the services table; it is not a column of the
// bookings table itself.
type Booking struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	ServiceID       uuid.UUID     `db:"service_id" json:"service_id"`
	ServiceName     string        `db:"service_name" json:"service_name,omitempty"`
	ServiceDuration int           `db:"service_duration" json:"service_duration,omitempty"`
	ClientName      string        `db:"client_name" json:"client_name"`
	ClientPhone     string        `db:"client_phone" json:"client_phone"`
	Date            time.Time     `db:"date" json:"date"`
	Time            string        `db:"time" json:"time"`
	Status          BookingStatus `db:"status" json:"status"`
	Price           *float64      `db:"price" json:"price,omitempty"`
	Notes           *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

type CreateBookingRequest struct {
	ServiceID   string  `json:"service_id" binding:"required,uuid"`
	Date        string  `json:"date" binding:"required,dateonly"`
	Time        string  `json:"time" binding:"required,hhmm"`
	ClientName  string  `json:"client_name" binding:"required,max=120"`
	ClientPhone string  `json:"client_phone" binding:"required,max=40"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateBookingRequest struct {
	Status *BookingStatus `json:"status"`
	Notes  *string        `json:"notes" binding:"omitempty,max=1000"`
}

type BookingFilters struct {
	Date   *time.Time
	Status *BookingStatus
}
