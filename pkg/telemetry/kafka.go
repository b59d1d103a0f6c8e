package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
	"github.com/huynhanx03/go-titlesync/pkg/utils"
)

const (
	defaultTopic          = "title-events"
	defaultFlushFrequency = 500 // Milliseconds
	defaultMaxRetries     = 3
	defaultRetryBackoff   = 100 // Milliseconds
)

// KafkaSink publishes in-game events to a Kafka topic through an async
// producer. Delivery failures are logged by a drain goroutine; they are
// not surfaced to WriteEvent callers.
type KafkaSink struct {
	producer sarama.AsyncProducer
	topic    string
	log      *zap.Logger
	done     chan struct{}
}

var _ Sink = (*KafkaSink)(nil)

// NewKafkaSink connects an async producer using the Kafka settings.
func NewKafkaSink(cfg *settings.Kafka, log *zap.Logger) (*KafkaSink, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForLocal

	flushFrequency := cfg.FlushFrequency
	if flushFrequency == 0 {
		flushFrequency = defaultFlushFrequency
	}
	sc.Producer.Flush.Frequency = utils.ToDurationMs(flushFrequency)
	if cfg.FlushBytes > 0 {
		sc.Producer.Flush.Bytes = cfg.FlushBytes
	}
	if cfg.MaxMessageBytes > 0 {
		sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}
	if cfg.Timeout > 0 {
		sc.Producer.Timeout = utils.ToDuration(cfg.Timeout)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	sc.Producer.Retry.Max = maxRetries

	retryBackoff := cfg.RetryBackoff
	if retryBackoff == 0 {
		retryBackoff = defaultRetryBackoff
	}
	sc.Producer.Retry.Backoff = utils.ToDurationMs(retryBackoff)

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProducerFailed, err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}
	return newKafkaSink(producer, topic, log), nil
}

// NewKafkaSinkFromProducer wraps an existing producer. Tests use this
// with the sarama mocks.
func NewKafkaSinkFromProducer(producer sarama.AsyncProducer, topic string, log *zap.Logger) *KafkaSink {
	return newKafkaSink(producer, topic, log)
}

func newKafkaSink(producer sarama.AsyncProducer, topic string, log *zap.Logger) *KafkaSink {
	if log == nil {
		log = zap.NewNop()
	}

	s := &KafkaSink{
		producer: producer,
		topic:    topic,
		log:      log,
		done:     make(chan struct{}),
	}
	go s.drainErrors()
	return s
}

func (s *KafkaSink) drainErrors() {
	defer close(s.done)
	for perr := range s.producer.Errors() {
		s.log.Error("in-game event publish failed",
			zap.String("topic", perr.Msg.Topic), zap.Error(perr.Err))
	}
}

// WriteEvent enqueues the event for asynchronous publishing. The error
// return covers encoding only; broker failures show up in the logs.
func (s *KafkaSink) WriteEvent(ctx context.Context, ev InGameEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(ev.UserID),
		Value: sarama.ByteEncoder(body),
	}

	select {
	case s.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes buffered events and shuts the producer down.
func (s *KafkaSink) Close() error {
	err := s.producer.Close()
	<-s.done
	return err
}
