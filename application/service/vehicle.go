// Package service provides application services for vehicle lookup and
// lazy enrichment.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/generator"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultGenerationDelay is the simulated latency of one field generation.
const DefaultGenerationDelay = 2 * time.Second

// lockStripes is the number of mutexes guarding per-key read-modify-write.
const lockStripes = 64

// TokenGenerator synthesizes opaque enrichment values.
type TokenGenerator interface {
	Token() string
}

// Delay suspends a generation for the simulated latency.
type Delay interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Metrics observes lookups and field resolutions.
type Metrics interface {
	ObserveLookup(existing bool)
	ObserveResolution(field vehicle.Field, generated bool, took time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLookup(bool) {}

func (noopMetrics) ObserveResolution(vehicle.Field, bool, time.Duration) {}

// VehicleOption configures a Vehicle service.
type VehicleOption func(*Vehicle)

// WithGenerationDelay sets the simulated latency of each generation.
func WithGenerationDelay(d time.Duration) VehicleOption {
	return func(s *Vehicle) { s.wait = d }
}

// WithTokenGenerator sets the source of generated values.
func WithTokenGenerator(t TokenGenerator) VehicleOption {
	return func(s *Vehicle) {
		if t != nil {
			s.tokens = t
		}
	}
}

// WithDelay sets the latency implementation. Tests use it to replace the
// wall clock.
func WithDelay(d Delay) VehicleOption {
	return func(s *Vehicle) {
		if d != nil {
			s.delay = d
		}
	}
}

// WithMetrics sets the metrics observer.
func WithMetrics(m Metrics) VehicleOption {
	return func(s *Vehicle) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) VehicleOption {
	return func(s *Vehicle) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCoalescedGeneration makes concurrent generations of the same field of
// the same vehicle share a single flight, which first re-checks the store.
// Without it, concurrent generations race and the last write wins.
func WithCoalescedGeneration() VehicleOption {
	return func(s *Vehicle) { s.coalesce = true }
}

// Vehicle resolves vehicle views and lazily generates their enrichments.
type Vehicle struct {
	store    vehicle.Store
	tokens   TokenGenerator
	delay    Delay
	wait     time.Duration
	metrics  Metrics
	logger   *slog.Logger
	coalesce bool
	flights  singleflight.Group
	locks    [lockStripes]sync.Mutex
}

// NewVehicle creates a Vehicle service backed by store.
func NewVehicle(store vehicle.Store, opts ...VehicleOption) *Vehicle {
	s := &Vehicle{
		store:   store,
		tokens:  generator.UUIDTokens{},
		delay:   generator.TimerDelay{},
		wait:    DefaultGenerationDelay,
		metrics: noopMetrics{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns a view of the vehicle identified by fin. An unseen fin is
// initialized with an empty enrichment set; no field is generated.
func (s *Vehicle) Lookup(ctx context.Context, fin int64) (*View, error) {
	current, ok, err := s.store.Get(ctx, fin)
	if err != nil {
		return nil, fmt.Errorf("lookup vehicle %d: %w", fin, err)
	}

	if !ok {
		if err := s.store.Ensure(ctx, fin); err != nil {
			return nil, fmt.Errorf("initialize vehicle %d: %w", fin, err)
		}
		current = vehicle.Enrichments{}
	}

	s.metrics.ObserveLookup(ok)
	return &View{fin: fin, snapshot: current, service: s}, nil
}

// Get looks up fin and resolves the requested fields concurrently.
// With no fields, every enrichable field is resolved.
func (s *Vehicle) Get(ctx context.Context, fin int64, fields ...vehicle.Field) (vehicle.Record, error) {
	if len(fields) == 0 {
		fields = vehicle.Fields()
	}

	view, err := s.Lookup(ctx, fin)
	if err != nil {
		return vehicle.Record{}, err
	}

	values := make([]string, len(fields))
	var g errgroup.Group
	for i, f := range fields {
		g.Go(func() error {
			v, err := view.Resolve(ctx, f)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return vehicle.Record{}, err
	}

	resolved := make(map[vehicle.Field]string, len(fields))
	for i, f := range fields {
		resolved[f] = values[i]
	}
	return vehicle.NewRecord(fin, resolved), nil
}

// Count returns the number of vehicles initialized so far.
func (s *Vehicle) Count(ctx context.Context) (int, error) {
	n, err := s.store.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

func (s *Vehicle) resolve(ctx context.Context, fin int64, snapshot vehicle.Enrichments, field vehicle.Field) (string, error) {
	if !field.Valid() {
		return "", fmt.Errorf("%w: %q", vehicle.ErrUnknownField, field)
	}

	if v, ok := snapshot.Get(field); ok {
		s.metrics.ObserveResolution(field, false, 0)
		return v, nil
	}

	// A started generation always completes and persists, even if the
	// caller goes away.
	ctx = context.WithoutCancel(ctx)

	if !s.coalesce {
		return s.generate(ctx, fin, field)
	}

	key := strconv.FormatInt(fin, 10) + "/" + field.String()
	v, err, _ := s.flights.Do(key, func() (any, error) {
		current, _, err := s.store.Get(ctx, fin)
		if err != nil {
			return "", fmt.Errorf("read vehicle %d: %w", fin, err)
		}
		if v, ok := current.Get(field); ok {
			s.metrics.ObserveResolution(field, false, 0)
			return v, nil
		}
		return s.generate(ctx, fin, field)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Vehicle) generate(ctx context.Context, fin int64, field vehicle.Field) (string, error) {
	start := time.Now()

	if err := s.delay.Wait(ctx, s.wait); err != nil {
		return "", fmt.Errorf("wait for %s of vehicle %d: %w", field, fin, err)
	}
	token := s.tokens.Token()

	if err := s.persist(ctx, fin, field, token); err != nil {
		return "", err
	}

	took := time.Since(start)
	s.metrics.ObserveResolution(field, true, took)
	s.logger.DebugContext(ctx, "generated enrichment",
		slog.Int64("fin", fin),
		slog.String("field", field.String()),
		slog.Duration("duration", took),
	)
	return token, nil
}

// persist writes token into the current stored set, not the view's snapshot,
// so concurrent generations of other fields survive.
func (s *Vehicle) persist(ctx context.Context, fin int64, field vehicle.Field, token string) error {
	mu := &s.locks[uint64(fin)%lockStripes]
	mu.Lock()
	defer mu.Unlock()

	current, _, err := s.store.Get(ctx, fin)
	if err != nil {
		return fmt.Errorf("read vehicle %d: %w", fin, err)
	}
	if err := s.store.Put(ctx, fin, current.With(field, token)); err != nil {
		return fmt.Errorf("store %s of vehicle %d: %w", field, fin, err)
	}
	return nil
}
