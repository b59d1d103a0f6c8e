package presence

import "errors"

var (
	// ErrAlreadyRegistered is returned when a user is registered twice.
	ErrAlreadyRegistered = errors.New("presence: user already registered")

	// ErrNotRegistered is returned when the user has no registration.
	ErrNotRegistered = errors.New("presence: user not registered")

	// ErrNotRunning is returned when an operation requires a running writer.
	ErrNotRunning = errors.New("presence: writer not running")

	// ErrNilService is returned when a registration carries no service.
	ErrNilService = errors.New("presence: nil service")
)
