// Package metrics exposes enrichment cache activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

const namespace = "vehiclegraph"

// Counter returns the number of initialized vehicles.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Collector records lookups, field resolutions and generation latency.
type Collector struct {
	registry    *prometheus.Registry
	lookups     *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	generation  *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Vehicle lookups by whether the vehicle was already initialized.",
		}, []string{"result"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_resolutions_total",
			Help:      "Enrichment field resolutions by field and source.",
		}, []string{"field", "source"}),
		generation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating an enrichment field, including simulated latency.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 2.5, 5, 10},
		}, []string{"field"}),
	}

	registry.MustRegister(
		c.lookups,
		c.resolutions,
		c.generation,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveLookup records a lookup.
func (c *Collector) ObserveLookup(existing bool) {
	result := "new"
	if existing {
		result = "existing"
	}
	c.lookups.WithLabelValues(result).Inc()
}

// ObserveResolution records a field resolution and, for generated values,
// its latency.
func (c *Collector) ObserveResolution(field vehicle.Field, generated bool, took time.Duration) {
	source := "cache"
	if generated {
		source = "generated"
		c.generation.WithLabelValues(field.String()).Observe(took.Seconds())
	}
	c.resolutions.WithLabelValues(field.String(), source).Inc()
}

// TrackEntries registers a gauge reporting the number of stored vehicles.
func (c *Collector) TrackEntries(counter Counter) error {
	return c.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_entries",
		Help:      "Vehicles initialized in the enrichment store.",
	}, func() float64 {
		n, err := counter.Count(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	}))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
