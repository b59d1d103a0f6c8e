package presence

import "context"

// Service is the per-user sync target the writer flushes to. One
// implementation wraps the title service REST client; tests supply
// fakes.
type Service interface {
	// SetActive writes the "present in title" heartbeat and returns the
	// service's hint for how many writer ticks to wait before the next
	// heartbeat. A hint of 0 means the service gave none.
	SetActive(ctx context.Context) (heartbeatDelay int, err error)

	// SetInactive marks the user as no longer present in the title.
	SetInactive(ctx context.Context) error
}
