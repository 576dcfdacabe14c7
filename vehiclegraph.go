// Package vehiclegraph provides a vehicle query service whose descriptive
// fields are generated lazily on first access and memoized for the life of
// the process.
//
// Basic usage:
//
//	client, err := vehiclegraph.New(vehiclegraph.WithGenerationDelay(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	view, err := client.Vehicles.Lookup(ctx, 42)
//	texts, err := view.Texts(ctx)
package vehiclegraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/vehiclegraph/vehiclegraph/application/service"
	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/generator"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/metrics"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/persistence"
	"github.com/vehiclegraph/vehiclegraph/internal/database"
)

// Client is the main entry point for the vehiclegraph library.
type Client struct {
	// Vehicles resolves vehicle views and their lazy enrichments.
	Vehicles *service.Vehicle

	db      *database.Database
	metrics *metrics.Collector
	closers []io.Closer
	logger  *slog.Logger
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options. Without a database URL
// enrichments are kept in process memory.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens := cfg.tokens
	if tokens == nil {
		t, err := generator.NewTokens(cfg.tokenFormat)
		if err != nil {
			return nil, err
		}
		tokens = t
	}

	ctx := context.Background()
	store, db, err := openStore(ctx, cfg.dbURL, logger)
	if err != nil {
		return nil, err
	}

	client := &Client{
		db:      db,
		closers: cfg.closers,
		logger:  logger,
	}

	svcOpts := []service.VehicleOption{
		service.WithGenerationDelay(cfg.generationDelay),
		service.WithTokenGenerator(tokens),
		service.WithDelay(cfg.delay),
		service.WithLogger(logger),
	}
	if cfg.coalesce {
		svcOpts = append(svcOpts, service.WithCoalescedGeneration())
	}
	if cfg.metrics {
		client.metrics = metrics.NewCollector()
		svcOpts = append(svcOpts, service.WithMetrics(client.metrics))
	}

	client.Vehicles = service.NewVehicle(store, svcOpts...)

	if client.metrics != nil {
		if err := client.metrics.TrackEntries(client.Vehicles); err != nil {
			return nil, errors.Join(fmt.Errorf("register store metrics: %w", err), client.closeDB())
		}
	}

	return client, nil
}

func openStore(ctx context.Context, url string, logger *slog.Logger) (vehicle.Store, *database.Database, error) {
	if url == "" {
		logger.Debug("using in-memory enrichment store")
		return persistence.NewMemoryStore(), nil, nil
	}

	db, err := database.NewDatabase(ctx, url, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	store, err := persistence.NewEnrichmentStore(ctx, db)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("enrichment store: %w", err), db.Close())
	}

	logger.Debug("using database enrichment store", slog.Bool("postgres", db.IsPostgres()))
	return store, &db, nil
}

// MetricsHandler serves Prometheus metrics, or returns nil when metrics are
// disabled.
func (c *Client) MetricsHandler() http.Handler {
	if c.metrics == nil {
		return nil
	}
	return c.metrics.Handler()
}

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (c *Client) Metrics() *metrics.Collector {
	return c.metrics
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Close releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	if err := c.closeDB(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Debug("vehiclegraph client closed")
	return nil
}

func (c *Client) closeDB() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
