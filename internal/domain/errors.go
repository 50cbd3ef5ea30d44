package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrVenueUnavailable = errors.New("venue unavailable")
	ErrRateLimited      = errors.New("rate limited")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrLockHeld         = errors.New("lock already held")
	ErrContextDone      = errors.New("context cancelled")
)
