package telemetry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

// =============================================================================
// KafkaSink Tests
// =============================================================================

func TestKafkaSink_WriteEvent(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewAsyncProducer(t, cfg)
	producer.ExpectInputAndSucceed()

	sink := NewKafkaSinkFromProducer(producer, "title-events", nil)

	ev := InGameEvent{
		Name:    "StatEvent",
		UserID:  "u1",
		Payload: json.RawMessage(`{"stats":[]}`),
		At:      time.Now(),
	}
	if err := sink.WriteEvent(context.Background(), ev); err != nil {
		t.Fatalf("WriteEvent failed: %v", err)
	}

	msg := <-producer.Successes()
	if msg.Topic != "title-events" {
		t.Errorf("topic = %q, want title-events", msg.Topic)
	}
	key, _ := msg.Key.Encode()
	if string(key) != "u1" {
		t.Errorf("key = %q, want u1 (partitioned per user)", key)
	}

	value, _ := msg.Value.Encode()
	var decoded InGameEvent
	if err := json.Unmarshal(value, &decoded); err != nil {
		t.Fatalf("message body is not valid JSON: %v", err)
	}
	if decoded.Name != "StatEvent" || decoded.UserID != "u1" {
		t.Errorf("decoded event = %+v, want the written one", decoded)
	}

	if err := sink.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestKafkaSink_BrokerFailureDoesNotSurface(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, mocks.NewTestConfig())
	producer.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaSinkFromProducer(producer, "title-events", nil)

	ev := InGameEvent{Name: "StatEvent", UserID: "u1", At: time.Now()}
	if err := sink.WriteEvent(context.Background(), ev); err != nil {
		t.Errorf("WriteEvent = %v, want nil (delivery is fire-and-forget)", err)
	}

	// Close drains the error; the mock verifies the expectation.
	if err := sink.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
