package handler

import (
	"errors"
	"net/http"

	"github.com/agendafacil/booking-api/internal/model"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ErrorStatus maps service-layer errors to HTTP statuses. Handlers call it
// instead of switching on errors themselves so every endpoint reports the
// same error the same way.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrServiceNotFound),
		errors.Is(err, model.ErrBookingNotFound),
		errors.Is(err, model.ErrRequestNotFound),
		errors.Is(err, model.ErrDayOffNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSlotTaken),
		errors.Is(err, model.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, model.ErrDayClosed),
		errors.Is(err, model.ErrOutOfHours):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidSchedule),
		errors.Is(err, model.ErrInvalidPrice),
		errors.Is(err, model.ErrInvalidDuration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AbortMessage hides internals on 5xx responses; everything else carries
// the service error text, which is written for clients.
func AbortMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
