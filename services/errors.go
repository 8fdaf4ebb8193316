package services

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("order not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConfig            = errors.New("server configuration error")
	ErrUpstream          = errors.New("storage unavailable")
	ErrKitchenClosed     = errors.New("kitchen is closed")
	ErrInvalidTransition = errors.New("invalid status transition")
)
