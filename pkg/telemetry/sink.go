// Package telemetry ships in-game events (such as offline stat writes)
// to a configured backend, fire-and-forget from the caller's point of
// view.
package telemetry

import (
	"context"
	"encoding/json"
	"time"
)

// InGameEvent is one title event to publish.
type InGameEvent struct {
	Name    string          `json:"name"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// Sink publishes in-game events.
type Sink interface {
	WriteEvent(ctx context.Context, ev InGameEvent) error
	Close() error
}
