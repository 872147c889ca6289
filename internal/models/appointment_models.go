package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus defines the lifecycle state of a scheduled service.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

// IsValidAppointmentStatus checks if the provided status string is a known status.
func IsValidAppointmentStatus(status string) bool {
	switch AppointmentStatus(status) {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	default:
		return false
	}
}

// appointmentTransitions is the explicit transition table. completed and
// canceled are terminal; there is no cycling back to pending.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCanceled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCanceled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCanceled:  {},
}

// CanTransitionAppointment reports whether from -> to is an allowed status change.
func CanTransitionAppointment(from, to AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Appointment is a scheduled service slot. When ProductID is set together with
// StockReserved, one unit of that product was decremented at creation and must
// be returned on cancellation unless TransactionID points at a sale that
// already owns the deduction.
type Appointment struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	OrganizationID uuid.UUID         `json:"organization_id" db:"organization_id"`
	ClientID       *uuid.UUID        `json:"client_id,omitempty" db:"client_id"`
	Title          string            `json:"title" db:"title" binding:"required"`
	StartTime      time.Time         `json:"start_time" db:"start_time"`
	EndTime        time.Time         `json:"end_time" db:"end_time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	PriceTotal     decimal.Decimal   `json:"price_total" db:"price_total"`
	ProductID      *uuid.UUID        `json:"product_id,omitempty" db:"product_id"`
	StockReserved  bool              `json:"stock_reserved" db:"stock_reserved"`
	TransactionID  *uuid.UUID        `json:"transaction_id,omitempty" db:"transaction_id"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
	Client         *Client           `json:"client,omitempty"`
}

// HoldsReservation reports whether canceling or deleting the appointment must
// return stock: a live reservation with no sale linked to it.
func (a *Appointment) HoldsReservation() bool {
	return a.StockReserved && a.ProductID != nil && a.TransactionID == nil
}

// AppointmentFilters defines the available filters for querying appointments.
type AppointmentFilters struct {
	Date     *string `form:"date"` // Expected format YYYY-MM-DD
	Status   *string `form:"status"`
	ClientID *string `form:"client_id"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
