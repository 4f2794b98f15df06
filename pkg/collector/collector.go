// Package collector exposes an HTTP ingest surface in front of a
// bounded overwrite queue. Accepted events are stamped with a snowflake
// ID and a receive timestamp, then pushed without blocking; under
// sustained overload the queue overwrites its oldest entries, so the
// collector keeps answering while the freshest events win.
package collector

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-telebuf/pkg/datastructs/queue"
	"github.com/huynhanx03/go-telebuf/pkg/event"
	"github.com/huynhanx03/go-telebuf/pkg/metric"
	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/unique"
)

const defaultQueueName = "events"

// Options carries the collector's dependencies. Queue and Node are
// required; everything else has a usable default.
type Options struct {
	Config *settings.Collector

	Queue *queue.Queue[event.Event]
	Node  *unique.Node

	Logger   *zap.Logger
	Registry *prometheus.Registry

	// QueueName labels the queue's metric series. Defaults to "events".
	QueueName string
}

// Collector is the HTTP ingest server.
type Collector struct {
	cfg      settings.Collector
	queue    *queue.Queue[event.Event]
	node     *unique.Node
	log      *zap.Logger
	registry *prometheus.Registry

	engine *gin.Engine
	server *http.Server
}

func setDefaultConfig(cfg *settings.Collector) {
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
}

// New builds a collector around the given queue and ID node.
func New(opts Options) (*Collector, error) {
	if opts.Queue == nil {
		return nil, ErrNilQueue
	}
	if opts.Node == nil {
		return nil, ErrNilNode
	}

	cfg := settings.Collector{}
	if opts.Config != nil {
		cfg = *opts.Config
	}
	setDefaultConfig(&cfg)
	if err := settings.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	registry := opts.Registry
	if registry == nil {
		registry = metric.Registry()
	}
	name := opts.QueueName
	if name == "" {
		name = defaultQueueName
	}
	if err := registry.Register(metric.NewQueueCollector(name, opts.Queue)); err != nil {
		return nil, errors.Wrap(err, "register queue collector")
	}

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	col := &Collector{
		cfg:      cfg,
		queue:    opts.Queue,
		node:     opts.Node,
		log:      log,
		registry: registry,
		engine:   engine,
	}
	col.registerRoutes()

	col.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: engine,
	}
	return col, nil
}

func (col *Collector) registerRoutes() {
	col.engine.GET("/healthz", col.handleHealth)
	col.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(col.registry, promhttp.HandlerOpts{})))

	v1 := col.engine.Group("/v1")
	{
		v1.POST("/events", wrap(http.StatusAccepted, col.ingestOne))
		v1.POST("/events/batch", wrap(http.StatusAccepted, col.ingestBatch))
		v1.GET("/queue/stats", col.handleStats)
	}
}

func (col *Collector) ingestOne(_ context.Context, req *EventRequest) (EventResponse, error) {
	id := col.accept(req)
	return EventResponse{ID: id}, nil
}

func (col *Collector) ingestBatch(_ context.Context, req *BatchRequest) (BatchResponse, error) {
	ids := make([]int64, 0, len(req.Events))
	for i := range req.Events {
		ids = append(ids, col.accept(&req.Events[i]))
	}
	return BatchResponse{IDs: ids}, nil
}

// accept stamps and enqueues one event. Push never blocks; on a full
// queue the oldest buffered event is overwritten.
func (col *Collector) accept(req *EventRequest) int64 {
	ev := event.Event{
		ID:         col.node.Generate(),
		Source:     req.Source,
		Type:       req.Type,
		Payload:    req.Payload,
		ReceivedAt: time.Now(),
	}
	col.queue.Push(ev)
	return ev.ID
}

func (col *Collector) handleStats(c *gin.Context) {
	s := col.queue.Stats()
	successResponse(c, http.StatusOK, StatsResponse{
		Depth:        s.Depth,
		Capacity:     s.Capacity,
		Pushed:       s.Pushed,
		Popped:       s.Popped,
		Dropped:      s.Dropped,
		ExpiredWaits: s.ExpiredWaits,
	})
}

func (col *Collector) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Handler exposes the routing tree for in-process testing.
func (col *Collector) Handler() http.Handler {
	return col.engine
}

// Run serves until Shutdown is called or the listener fails.
func (col *Collector) Run() error {
	col.log.Info("collector listening", zap.String("addr", col.server.Addr))
	if err := col.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "collector serve")
	}
	return nil
}

// Serve accepts connections on l. Useful for tests that bind port 0.
func (col *Collector) Serve(l net.Listener) error {
	if err := col.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "collector serve")
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (col *Collector) Shutdown(ctx context.Context) error {
	col.log.Info("collector shutting down")
	return col.server.Shutdown(ctx)
}
