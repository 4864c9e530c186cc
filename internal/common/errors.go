package common

import "errors"

var (
	ErrStreakNotFound      = errors.New("no streaks found")
	ErrBadgeExists         = errors.New("badge already exists")
	ErrBadgeFieldsRequired = errors.New("name, description, and image are required")
	ErrNegativeStreak      = errors.New("streak counters cannot be negative")
	ErrInvalidDomain       = errors.New("unknown streak domain")

	ErrWorkoutNotFound = errors.New("workout not found")
	ErrMealNotFound    = errors.New("meal not found")
	ErrNotFound        = errors.New("not found")
	ErrInvalidGlasses  = errors.New("glasses must be between 0 and 20")

	ErrLockTimeout = errors.New("timed out waiting for lock")
)
