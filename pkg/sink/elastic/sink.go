// Package elastic delivers event batches into an Elasticsearch index
// through the Bulk API, one NDJSON action per document.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/sink"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var _ sink.Sink[int] = (*Sink[int])(nil)

// Sink writes batches into a single Elasticsearch index. Document IDs are
// assigned by Elasticsearch, so retried batches may duplicate documents.
type Sink[T any] struct {
	client *elasticsearch.Client
	index  string
}

// bulkResponse is the subset of the Bulk API response needed to detect
// per-document rejections inside an otherwise successful request.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			Status int `json:"status"`
		} `json:"index"`
	} `json:"items"`
}

// New creates a client from the config. The client dials lazily, so a wrong
// address surfaces on the first Write rather than here.
func New[T any](cfg *settings.Elasticsearch) (*Sink[T], error) {
	if err := settings.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientInit, err)
	}

	return NewWithClient[T](client, cfg.Index), nil
}

// NewWithClient wraps an existing client, useful for custom transports.
func NewWithClient[T any](client *elasticsearch.Client, index string) *Sink[T] {
	return &Sink[T]{client: client, index: index}
}

func (s *Sink[T]) Name() string {
	return fmt.Sprintf("elasticsearch:%s", s.index)
}

// Write indexes the batch with a single Bulk request and fails if the
// transport errors, the request is rejected, or any document is rejected.
func (s *Sink[T]) Write(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i := range batch {
		buf.WriteString("{ \"index\" : {} }\n")

		data, err := json.Marshal(batch[i])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Index: s.index,
		Body:  bytes.NewReader(buf.Bytes()),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBulkRequestFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrBulkRequestFailed, res.Status())
	}

	var response bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	if response.Errors {
		rejected := 0
		for _, item := range response.Items {
			if item.Index.Status >= 300 {
				rejected++
			}
		}
		return fmt.Errorf("%w: %d of %d documents rejected", ErrPartialFailure, rejected, len(batch))
	}

	return nil
}

// Close is a no-op; the client's transport pools connections internally.
func (s *Sink[T]) Close() error {
	return nil
}

// Client exposes the underlying client for advanced operations.
func (s *Sink[T]) Client() *elasticsearch.Client {
	return s.client
}
