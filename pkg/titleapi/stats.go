package titleapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetStatsValueDocument fetches the raw stat value document for a user.
func (c *Client) GetStatsValueDocument(ctx context.Context, userID string) ([]byte, error) {
	path := fmt.Sprintf("/stats/users/%s/scids/%s",
		url.PathEscape(userID), url.PathEscape(c.scid))

	var raw []byte
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateStatsValueDocument uploads a serialized stat value document.
func (c *Client) UpdateStatsValueDocument(ctx context.Context, userID string, doc []byte) error {
	path := fmt.Sprintf("/stats/users/%s/scids/%s",
		url.PathEscape(userID), url.PathEscape(c.scid))

	return c.do(ctx, http.MethodPost, path, rawBody(doc), nil)
}

// rawBody marshals to the bytes it wraps, so a pre-serialized document
// passes through do() untouched.
type rawBody []byte

func (b rawBody) MarshalJSON() ([]byte, error) { return b, nil }
