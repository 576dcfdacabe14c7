// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 5000
	DefaultGraphQLPath     = "/graphql"
	DefaultLogLevel        = "INFO"
	DefaultGenerationDelay = 2 * time.Second
	DefaultTokenFormat     = "uuid"
	DefaultMaxParallelism  = 10
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	host               string
	port               int
	graphqlPath        string
	graphiqlEnabled    bool
	logLevel           string
	logFormat          LogFormat
	dbURL              string
	generationDelay    time.Duration
	tokenFormat        string
	coalesceGeneration bool
	maxParallelism     int
	metricsEnabled     bool
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:            DefaultHost,
		port:            DefaultPort,
		graphqlPath:     DefaultGraphQLPath,
		graphiqlEnabled: true,
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatPretty,
		generationDelay: DefaultGenerationDelay,
		tokenFormat:     DefaultTokenFormat,
		maxParallelism:  DefaultMaxParallelism,
		metricsEnabled:  true,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// GraphQLPath returns the path the query gateway is mounted at.
func (c AppConfig) GraphQLPath() string { return c.graphqlPath }

// GraphiQLEnabled returns whether the exploration UI is served.
func (c AppConfig) GraphiQLEnabled() bool { return c.graphiqlEnabled }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// DBURL returns the enrichment store database URL. Empty selects the
// in-process memory store.
func (c AppConfig) DBURL() string { return c.dbURL }

// GenerationDelay returns the simulated latency of one field generation.
func (c AppConfig) GenerationDelay() time.Duration { return c.generationDelay }

// TokenFormat returns the format of generated values (uuid or ulid).
func (c AppConfig) TokenFormat() string { return c.tokenFormat }

// CoalesceGeneration returns whether concurrent generations of the same
// field share one flight.
func (c AppConfig) CoalesceGeneration() bool { return c.coalesceGeneration }

// MaxParallelism returns the maximum number of field resolvers the gateway
// runs at once per request.
func (c AppConfig) MaxParallelism() int { return c.maxParallelism }

// MetricsEnabled returns whether /metrics is exposed.
func (c AppConfig) MetricsEnabled() bool { return c.metricsEnabled }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithGraphQLPath sets the gateway path. A missing leading slash is added.
func WithGraphQLPath(path string) AppConfigOption {
	return func(c *AppConfig) {
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.graphqlPath = path
	}
}

// WithGraphiQLEnabled toggles the exploration UI.
func WithGraphiQLEnabled(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.graphiqlEnabled = enabled }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithGenerationDelay sets the simulated generation latency. Negative
// values are ignored.
func WithGenerationDelay(d time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		if d >= 0 {
			c.generationDelay = d
		}
	}
}

// WithTokenFormat sets the generated token format.
func WithTokenFormat(format string) AppConfigOption {
	return func(c *AppConfig) {
		if format != "" {
			c.tokenFormat = strings.ToLower(format)
		}
	}
}

// WithCoalesceGeneration toggles generation coalescing.
func WithCoalesceGeneration(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.coalesceGeneration = enabled }
}

// WithMaxParallelism sets the gateway resolver parallelism.
func WithMaxParallelism(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.maxParallelism = n
		}
	}
}

// WithMetricsEnabled toggles the metrics endpoint.
func WithMetricsEnabled(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.metricsEnabled = enabled }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes describing the configuration.
// Database credentials are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("graphql_path", c.graphqlPath),
		slog.Bool("graphiql", c.graphiqlEnabled),
		slog.String("log_level", c.logLevel),
		slog.String("store", c.maskedDBURL()),
		slog.Duration("generation_delay", c.generationDelay),
		slog.String("token_format", c.tokenFormat),
		slog.Bool("coalesce_generation", c.coalesceGeneration),
		slog.Int("max_parallelism", c.maxParallelism),
		slog.Bool("metrics", c.metricsEnabled),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "memory"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}
