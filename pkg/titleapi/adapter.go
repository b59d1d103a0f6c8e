package titleapi

import (
	"context"
	"math"
	"time"

	"github.com/huynhanx03/go-titlesync/pkg/presence"
	"github.com/huynhanx03/go-titlesync/pkg/stats"
)

var (
	_ stats.Service    = (*Client)(nil)
	_ presence.Service = (*Heartbeat)(nil)
)

// Heartbeat adapts one user's presence writes to the writer's tick
// domain. The server hints in seconds; the writer counts in ticks.
type Heartbeat struct {
	client *Client
	userID string
	data   *PresenceData
	tick   time.Duration
}

// NewHeartbeat builds a heartbeat source for one user. tick is the
// writer's tick interval used to convert server hints.
func NewHeartbeat(client *Client, userID string, data *PresenceData, tick time.Duration) *Heartbeat {
	if tick <= 0 {
		tick = time.Minute
	}
	return &Heartbeat{client: client, userID: userID, data: data, tick: tick}
}

func (h *Heartbeat) SetActive(ctx context.Context) (int, error) {
	seconds, err := h.client.SetPresence(ctx, h.userID, true, h.data)
	if err != nil {
		return 0, err
	}
	if seconds <= 0 {
		return 0, nil
	}
	ticks := int(math.Round(float64(seconds) / h.tick.Seconds()))
	if ticks < 1 {
		ticks = 1
	}
	return ticks, nil
}

func (h *Heartbeat) SetInactive(ctx context.Context) error {
	_, err := h.client.SetPresence(ctx, h.userID, false, nil)
	return err
}
