package redis

import "errors"

var (
	// ErrConnectionFailed is returned when the Redis client cannot be created.
	ErrConnectionFailed = errors.New("redis offline store: connection failed")

	// ErrPingFailed is returned when the connectivity check fails.
	ErrPingFailed = errors.New("redis offline store: ping failed")
)
