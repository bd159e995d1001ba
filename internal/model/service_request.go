package model

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the request can no longer transition. A request
// leaves pending exactly once, to approved (producing one booking) or
// rejected (producing none).
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// ServiceRequest is a customer-submitted, unscheduled request for work. An
// admin approves it with a concrete date, time and price, or rejects it.
type ServiceRequest struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	ServiceID   uuid.UUID     `db:"service_id" json:"service_id"`
	ServiceName string        `db:"service_name" json:"service_name,omitempty"`
	ClientName  string        `db:"client_name" json:"client_name"`
	ClientPhone string        `db:"client_phone" json:"client_phone"`
	Address     string        `db:"address" json:"address"`
	Notes       *string       `db:"notes" json:"notes,omitempty"`
	Status      RequestStatus `db:"status" json:"status"`
	AdminNotes  *string       `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

type CreateServiceRequestRequest struct {
	ServiceID   string  `json:"service_id" binding:"required,uuid"`
	ClientName  string  `json:"client_name" binding:"required,max=120"`
	ClientPhone string  `json:"client_phone" binding:"required,max=40"`
	Address     string  `json:"address" binding:"required,max=255"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

// ApproveRequestRequest carries the admin's scheduling decision.
type ApproveRequestRequest struct {
	Date       string  `json:"date" binding:"required,dateonly"`
	Time       string  `json:"time" binding:"required,hhmm"`
	Price      float64 `json:"price" binding:"required"`
	AdminNotes *string `json:"admin_notes" binding:"omitempty,max=1000"`
}

type RejectRequestRequest struct {
	AdminNotes *string `json:"admin_notes" binding:"omitempty,max=1000"`
}
