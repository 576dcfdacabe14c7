package vehiclegraph

import (
	"io"
	"log/slog"
	"time"

	"github.com/vehiclegraph/vehiclegraph/application/service"
	"github.com/vehiclegraph/vehiclegraph/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL           string
	logger          *slog.Logger
	generationDelay time.Duration
	tokenFormat     string
	tokens          service.TokenGenerator
	delay           service.Delay
	coalesce        bool
	metrics         bool
	closers         []io.Closer
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		generationDelay: config.DefaultGenerationDelay,
		tokenFormat:     config.DefaultTokenFormat,
		metrics:         true,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithDatabaseURL stores enrichments in the database at url instead of in
// process memory. Supported schemes are sqlite:/// and postgres://.
// The database is cleared when the client opens it.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithGenerationDelay sets the simulated latency of each field generation.
// Negative values are ignored.
func WithGenerationDelay(d time.Duration) Option {
	return func(c *clientConfig) {
		if d >= 0 {
			c.generationDelay = d
		}
	}
}

// WithTokenFormat selects the format of generated values: uuid or ulid.
func WithTokenFormat(format string) Option {
	return func(c *clientConfig) {
		c.tokenFormat = format
	}
}

// WithTokenGenerator sets a custom source of generated values. It takes
// precedence over WithTokenFormat.
func WithTokenGenerator(t service.TokenGenerator) Option {
	return func(c *clientConfig) {
		c.tokens = t
	}
}

// WithDelay replaces the wall-clock latency implementation.
func WithDelay(d service.Delay) Option {
	return func(c *clientConfig) {
		c.delay = d
	}
}

// WithCoalescedGeneration makes concurrent generations of the same field
// share one result.
func WithCoalescedGeneration(enabled bool) Option {
	return func(c *clientConfig) {
		c.coalesce = enabled
	}
}

// WithMetrics toggles the Prometheus collector. Enabled by default.
func WithMetrics(enabled bool) Option {
	return func(c *clientConfig) {
		c.metrics = enabled
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(c io.Closer) Option {
	return func(cfg *clientConfig) {
		cfg.closers = append(cfg.closers, c)
	}
}

// OptionsFromConfig returns the options derived from application
// configuration.
func OptionsFromConfig(cfg config.AppConfig) []Option {
	return []Option{
		WithDatabaseURL(cfg.DBURL()),
		WithGenerationDelay(cfg.GenerationDelay()),
		WithTokenFormat(cfg.TokenFormat()),
		WithCoalescedGeneration(cfg.CoalesceGeneration()),
		WithMetrics(cfg.MetricsEnabled()),
	}
}
