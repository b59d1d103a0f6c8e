package mongo

import "errors"

var (
	// ErrConnectionFailed is returned when the MongoDB client cannot be created.
	ErrConnectionFailed = errors.New("mongo offline store: connection failed")

	// ErrPingFailed is returned when the connectivity check fails.
	ErrPingFailed = errors.New("mongo offline store: ping failed")
)
