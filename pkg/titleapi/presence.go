package titleapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	presenceStateActive   = "active"
	presenceStateInactive = "inactive"
)

// PresenceData is the optional rich presence payload attached to an
// active heartbeat.
type PresenceData struct {
	ServiceConfigID string `json:"serviceConfigId"`
	PresenceID      string `json:"presenceId"`
}

type setPresenceRequest struct {
	State string        `json:"state"`
	Data  *PresenceData `json:"activityInfo,omitempty"`
}

type setPresenceResponse struct {
	HeartbeatAfterSeconds int `json:"heartbeatAfterSeconds"`
}

// SetPresence writes the user's title presence state. For an active
// write the response carries the server's heartbeat hint in seconds,
// or zero when the server gave none.
func (c *Client) SetPresence(ctx context.Context, userID string, active bool, data *PresenceData) (int, error) {
	state := presenceStateInactive
	if active {
		state = presenceStateActive
	}

	path := fmt.Sprintf("/users/%s/devices/current/titles/%s",
		url.PathEscape(userID), url.PathEscape(c.titleID))

	var resp setPresenceResponse
	err := c.do(ctx, http.MethodPut, path, setPresenceRequest{State: state, Data: data}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.HeartbeatAfterSeconds, nil
}
