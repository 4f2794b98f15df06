// Package kafka provides a Sink that publishes batches to a Kafka topic
// through a synchronous producer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/sink"
	"github.com/huynhanx03/go-telebuf/pkg/utils"
)

const (
	defaultFlushFrequency  = 500 // millis
	defaultFlushBytes      = 64 * 1024
	defaultMaxMessageBytes = 1024 * 1024
	defaultTimeout         = 10 // seconds
	defaultMaxRetries      = 3
	defaultRetryBackoff    = 100 // millis
)

var _ sink.Sink[int] = (*Sink[int])(nil)

var compressionCodecs = map[string]sarama.CompressionCodec{
	"none":   sarama.CompressionNone,
	"gzip":   sarama.CompressionGZIP,
	"snappy": sarama.CompressionSnappy,
	"lz4":    sarama.CompressionLZ4,
	"zstd":   sarama.CompressionZSTD,
}

// Sink publishes JSON-encoded elements to a Kafka topic.
type Sink[T any] struct {
	producer sarama.SyncProducer
	topic    string
}

// New builds a synchronous producer from cfg and wraps it in a Sink.
func New[T any](cfg *settings.Kafka) (*Sink[T], error) {
	if err := settings.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	setDefaultConfig(cfg)

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true // required by SyncProducer
	sc.Producer.Retry.Max = cfg.MaxRetries
	sc.Producer.Retry.Backoff = utils.ToDurationMs(cfg.RetryBackoff)
	sc.Producer.Flush.Frequency = utils.ToDurationMs(cfg.FlushFrequency)
	sc.Producer.Flush.Bytes = cfg.FlushBytes
	sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	sc.Producer.Timeout = utils.ToDuration(cfg.Timeout)
	if codec, ok := compressionCodecs[cfg.Compression]; ok {
		sc.Producer.Compression = codec
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProducerInit, err)
	}

	return NewWithProducer[T](producer, cfg.Topic), nil
}

// NewWithProducer wraps an existing producer. Used by tests and by callers
// that manage the producer lifecycle themselves.
func NewWithProducer[T any](producer sarama.SyncProducer, topic string) *Sink[T] {
	return &Sink[T]{
		producer: producer,
		topic:    topic,
	}
}

// Name returns "kafka:<topic>".
func (s *Sink[T]) Name() string { return "kafka:" + s.topic }

// Write publishes the whole batch in a single SendMessages call.
func (s *Sink[T]) Write(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}
	// SendMessages has no context parameter; honor cancellation up front.
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(batch))
	for _, v := range batch {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: s.topic,
			Value: sarama.ByteEncoder(payload),
		})
	}

	if err := s.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// Close shuts down the producer.
func (s *Sink[T]) Close() error {
	return s.producer.Close()
}

// setDefaultConfig sets default values for Kafka configuration
func setDefaultConfig(cfg *settings.Kafka) {
	if cfg.FlushFrequency == 0 {
		cfg.FlushFrequency = defaultFlushFrequency
	}
	if cfg.FlushBytes == 0 {
		cfg.FlushBytes = defaultFlushBytes
	}
	if cfg.MaxMessageBytes == 0 {
		cfg.MaxMessageBytes = defaultMaxMessageBytes
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
}
