package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP responses in one place.
var (
	ErrContestNotFound  = errors.New("contest not found")
	ErrInvalidContestID = errors.New("contest id must be an integer")
)
