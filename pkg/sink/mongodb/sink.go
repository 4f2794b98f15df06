// Package mongodb delivers event batches into a MongoDB collection using
// unordered inserts, so one bad document does not block the rest of a batch.
package mongodb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/sink"
	"github.com/huynhanx03/go-telebuf/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPort            = 27017
	defaultMaxPoolSize     = 10
	defaultMinPoolSize     = 1
	defaultMaxConnIdleTime = 60 // Seconds
	defaultTimeout         = 5  // Seconds
)

var _ sink.Sink[int] = (*Sink[int])(nil)

// Sink writes batches into a single MongoDB collection.
type Sink[T any] struct {
	client     *mongo.Client
	collection *mongo.Collection
	config     *settings.MongoDB
	timeout    int // Seconds, bound per operation
}

// New connects to MongoDB and verifies the connection with a ping.
func New[T any](cfg *settings.MongoDB) (*Sink[T], error) {
	if err := settings.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	setDefaultConfig(cfg)

	clientOpts := options.Client().
		ApplyURI(buildURI(cfg)).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(utils.ToDuration(int(cfg.MaxConnIdleTime)))

	ctx, cancel := context.WithTimeout(context.Background(), utils.ToDuration(cfg.Timeout))
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrPingFailed, err)
	}

	return NewWithClient[T](client, cfg), nil
}

// NewWithClient wraps an already-connected client. The caller keeps
// ownership of the client's lifecycle only until Close is called.
func NewWithClient[T any](client *mongo.Client, cfg *settings.MongoDB) *Sink[T] {
	return &Sink[T]{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		config:     cfg,
		timeout:    cfg.Timeout,
	}
}

func (s *Sink[T]) Name() string {
	return fmt.Sprintf("mongodb:%s.%s", s.config.Database, s.config.Collection)
}

// Write inserts the batch with ordered=false so independent documents
// succeed even when a sibling is rejected.
func (s *Sink[T]) Write(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	docs := make([]interface{}, len(batch))
	for i := range batch {
		docs[i] = batch[i]
	}

	opCtx, cancel := context.WithTimeout(ctx, utils.ToDuration(s.timeout))
	defer cancel()

	if _, err := s.collection.InsertMany(opCtx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	return nil
}

func (s *Sink[T]) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), utils.ToDuration(s.timeout))
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Collection exposes the underlying collection for advanced operations.
func (s *Sink[T]) Collection() *mongo.Collection {
	return s.collection
}

func buildURI(cfg *settings.MongoDB) string {
	hostPort := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	if cfg.Username == "" {
		return fmt.Sprintf("mongodb://%s", hostPort)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s",
		url.QueryEscape(cfg.Username), url.QueryEscape(cfg.Password), hostPort)
}

func setDefaultConfig(cfg *settings.MongoDB) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
	}
	if cfg.MinPoolSize == 0 {
		cfg.MinPoolSize = defaultMinPoolSize
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = defaultMaxConnIdleTime
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
}
