package domain

import "errors"

// Sentinel errors shared by the memory and sqlite stores. Services and
// handlers branch on these with errors.Is.
var (
	ErrNotFound           = errors.New("record not found")
	ErrAlreadyExists      = errors.New("record already exists")
	ErrSlotUnavailable    = errors.New("slot is not available")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
)
