// Package titleapi is the REST client for the remote title service:
// presence heartbeats, stat value documents and leaderboards.
package titleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
	"github.com/huynhanx03/go-titlesync/pkg/utils"
)

const (
	defaultTimeout = 30 // Seconds

	contractVersionHeader = "X-Contract-Version"
	contractVersion       = "3"
	titleIDHeader         = "X-Title-ID"
)

type Client struct {
	baseURL string
	titleID string
	scid    string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a title service client from the service settings.
func NewClient(cfg *settings.Service, log *zap.Logger) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		titleID: cfg.TitleID,
		scid:    cfg.SCID,
		token:   cfg.Token,
		http:    &http.Client{Timeout: utils.ToDuration(timeout)},
		log:     log,
	}, nil
}

// do performs one round trip. A *[]byte out captures the raw response
// body; any other non-nil out is unmarshaled from JSON. Transport
// errors keep their cause in the chain so callers can classify them.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMarshalFailed, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("titleapi: %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(contractVersionHeader, contractVersion)
	if c.titleID != "" {
		req.Header.Set(titleIDHeader, c.titleID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("titleapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("titleapi: %s %s: %w", method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Debug("title service returned error status",
			zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	switch target := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*target = data
		return nil
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("titleapi: %s %s: %w", method, path, err)
		}
		return nil
	}
}
