package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP codes.
var (
	ErrValidation = errors.New("validation failed")

	ErrProductNotFound      = errors.New("product not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrBillTemplateNotFound = errors.New("bill template not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrUserNotFound         = errors.New("user not found")

	ErrInvalidTransition  = errors.New("invalid appointment status transition")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
