package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrIDRequired         = errors.New("id is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidDate        = errors.New("invalid date")
	ErrPasswordMismatch   = errors.New("the password must match")
)
