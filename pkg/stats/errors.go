package stats

import "errors"

var (
	// ErrUserAlreadyAdded is returned when a user is added to the manager twice.
	ErrUserAlreadyAdded = errors.New("stats: user already in local map")

	// ErrUserNotFound is returned when the user has not been added.
	ErrUserNotFound = errors.New("stats: user not found in local map")

	// ErrStatNotFound is returned when the named stat does not exist.
	ErrStatNotFound = errors.New("stats: stat not found")

	// ErrStatTypeMismatch is returned when a stat is written with a
	// different type than it already holds.
	ErrStatTypeMismatch = errors.New("stats: stat type mismatch")

	// ErrClosed is returned when the manager has been closed.
	ErrClosed = errors.New("stats: manager closed")
)
