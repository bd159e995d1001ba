package model

import "errors"

// Booking engine error taxonomy. Services return these (possibly wrapped);
// handlers map them to HTTP statuses with errors.Is.
var (
	ErrServiceNotFound = errors.New("service not found or inactive")
	ErrDayClosed       = errors.New("date is closed for bookings")
	ErrOutOfHours      = errors.New("time is outside working hours")
	ErrSlotTaken       = errors.New("slot conflicts with an existing booking")
	ErrInvalidSchedule = errors.New("malformed date or time")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

	ErrInvalidStateTransition = errors.New("invalid state transition")

	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("service request not found")
	ErrDayOffNotFound  = errors.New("day off not found")
	ErrUserNotFound    = errors.New("user not found")
)
