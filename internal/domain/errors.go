package domain

import "errors"

// Authentication and session errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials or inactive account")
	ErrMissingToken       = errors.New("missing session token")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Password change errors
var (
	ErrValidation    = errors.New("validation error")
	ErrWrongPassword = errors.New("old password is incorrect")
)

// Record store errors
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("record key already exists")
	ErrUnknownTable    = errors.New("unknown table")
)

// ErrIDConflict is returned when a freshly minted identifier was taken by a
// concurrent writer between the scan and the append.
var ErrIDConflict = errors.New("identifier conflict")
