package telemetry

import "errors"

var (
	// ErrMarshalFailed is returned when an event cannot be encoded.
	ErrMarshalFailed = errors.New("telemetry: failed to marshal event")

	// ErrProducerFailed is returned when the Kafka producer cannot be created.
	ErrProducerFailed = errors.New("telemetry: failed to create producer")

	// ErrIndexRequestFailed is returned when an Elasticsearch index request fails.
	ErrIndexRequestFailed = errors.New("telemetry: index request failed")

	// ErrClientFailed is returned when the Elasticsearch client cannot be created.
	ErrClientFailed = errors.New("telemetry: failed to create client")
)
