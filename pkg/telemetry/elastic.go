package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
)

const defaultIndex = "title-events"

// ElasticSink indexes in-game events into an Elasticsearch index.
type ElasticSink struct {
	client *elasticsearch.Client
	index  string
	log    *zap.Logger
}

var _ Sink = (*ElasticSink)(nil)

// NewElasticSink creates a sink from the Elasticsearch settings.
func NewElasticSink(cfg *settings.Elasticsearch, log *zap.Logger) (*ElasticSink, error) {
	if log == nil {
		log = zap.NewNop()
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientFailed, err)
	}

	index := cfg.Index
	if index == "" {
		index = defaultIndex
	}
	return &ElasticSink{client: client, index: index, log: log}, nil
}

// WriteEvent indexes one event document.
func (s *ElasticSink) WriteEvent(ctx context.Context, ev InGameEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}

	req := esapi.IndexRequest{
		Index: s.index,
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexRequestFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexRequestFailed, res.Status())
	}
	return nil
}

// Close is a no-op; the underlying client has no shutdown.
func (s *ElasticSink) Close() error {
	return nil
}
