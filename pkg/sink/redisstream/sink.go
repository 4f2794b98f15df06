// Package redisstream provides a Sink that appends batches to a Redis
// stream. The stream can be capped (MAXLEN ~) so the backend mirrors the
// queue's drop-oldest philosophy instead of growing without bound.
package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisV9 "github.com/redis/go-redis/v9"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/sink"
	"github.com/huynhanx03/go-telebuf/pkg/utils"
)

const (
	defaultPoolSize        = 10
	defaultMinIdleConns    = 5
	defaultPoolTimeout     = 5
	defaultDialTimeout     = 5
	defaultReadTimeout     = 3
	defaultWriteTimeout    = 3
	defaultMaxRetries      = 3
	defaultMinRetryBackoff = 300 // millis
	defaultMaxRetryBackoff = 500 // millis

	pingTimeout = 5 * time.Second

	// payloadField is the single stream field carrying the JSON element.
	payloadField = "payload"
)

var _ sink.Sink[int] = (*Sink[int])(nil)

// Sink appends JSON-encoded elements to a Redis stream in one pipeline per
// batch.
type Sink[T any] struct {
	client redisV9.UniversalClient
	config *settings.Redis
}

// New connects to Redis from cfg and verifies the connection with a ping.
func New[T any](cfg *settings.Redis) (*Sink[T], error) {
	if err := settings.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	setDefaultConfig(cfg)

	// UniversalClient covers single-node, sentinel (MasterName) and
	// cluster deployments with one options struct.
	client := redisV9.NewUniversalClient(&redisV9.UniversalOptions{
		Addrs:           cfg.Addrs,
		MasterName:      cfg.MasterName,
		Password:        cfg.Password,
		DB:              cfg.Database,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxRetries:      cfg.MaxRetries,
		DialTimeout:     utils.ToDuration(cfg.DialTimeout),
		ReadTimeout:     utils.ToDuration(cfg.ReadTimeout),
		WriteTimeout:    utils.ToDuration(cfg.WriteTimeout),
		PoolTimeout:     utils.ToDuration(cfg.PoolTimeout),
		MinRetryBackoff: utils.ToDurationMs(cfg.MinRetryBackoff),
		MaxRetryBackoff: utils.ToDurationMs(cfg.MaxRetryBackoff),
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrPingFailed, err)
	}

	return &Sink[T]{
		client: client,
		config: cfg,
	}, nil
}

// Name returns "redis:<stream>".
func (s *Sink[T]) Name() string { return "redis:" + s.config.Stream }

// Write appends every element as one stream entry, batched in a pipeline.
func (s *Sink[T]) Write(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, v := range batch {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		pipe.XAdd(ctx, &redisV9.XAddArgs{
			Stream: s.config.Stream,
			MaxLen: s.config.MaxStreamLen,
			Approx: true,
			Values: map[string]any{payloadField: payload},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Sink[T]) Close() error {
	return s.client.Close()
}

// Client returns the underlying redis client (escape hatch).
func (s *Sink[T]) Client() redisV9.UniversalClient {
	return s.client
}

// setDefaultConfig sets default values for Redis configuration
func setDefaultConfig(cfg *settings.Redis) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = defaultMinIdleConns
	}
	if cfg.PoolTimeout == 0 {
		cfg.PoolTimeout = defaultPoolTimeout
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MinRetryBackoff == 0 {
		cfg.MinRetryBackoff = defaultMinRetryBackoff
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = defaultMaxRetryBackoff
	}
}
