package domain

import "errors"

// Domain-specific errors for schedule and deadline calculations.
var (
	// Schedule errors
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:mm")
	ErrInvalidTimezone   = errors.New("invalid timezone")
	ErrInvalidSchedule   = errors.New("invalid schedule")

	// Deadline errors
	ErrUndefinedWorkspace  = errors.New("workspace is undefined")
	ErrNoDeadline          = errors.New("workspace has no deadline")
	ErrDeadlineOutOfRange  = errors.New("deadline out of range")
	ErrWorkspaceNotRunning = errors.New("workspace is not running")

	// Workspace errors
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidTTL        = errors.New("ttl must not be negative")
)
