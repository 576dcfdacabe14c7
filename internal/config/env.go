package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 5000)
	Port int `envconfig:"PORT" default:"5000"`

	// GraphQLPath is the path the query gateway is mounted at.
	// Env: GRAPHQL_PATH (default: /graphql)
	GraphQLPath string `envconfig:"GRAPHQL_PATH" default:"/graphql"`

	// GraphiQLEnabled controls the interactive exploration UI.
	// Env: GRAPHIQL_ENABLED (default: true)
	GraphiQLEnabled bool `envconfig:"GRAPHIQL_ENABLED" default:"true"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// DBURL selects a database-backed enrichment store.
	// Env: DB_URL (default: in-process memory store)
	DBURL string `envconfig:"DB_URL"`

	// GenerationDelay is the simulated generation latency in seconds.
	// Env: GENERATION_DELAY (default: 2.0)
	GenerationDelay float64 `envconfig:"GENERATION_DELAY" default:"2.0"`

	// TokenFormat is the format of generated values (uuid or ulid).
	// Env: TOKEN_FORMAT (default: uuid)
	TokenFormat string `envconfig:"TOKEN_FORMAT" default:"uuid"`

	// CoalesceGeneration makes concurrent generations of the same field share
	// one result.
	// Env: COALESCE_GENERATION (default: false)
	CoalesceGeneration bool `envconfig:"COALESCE_GENERATION" default:"false"`

	// MaxParallelism bounds concurrently running field resolvers per request.
	// Env: MAX_PARALLELISM (default: 10)
	MaxParallelism int `envconfig:"MAX_PARALLELISM" default:"10"`

	// MetricsEnabled exposes Prometheus metrics at /metrics.
	// Env: METRICS_ENABLED (default: true)
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "VEHICLEGRAPH" would require VEHICLEGRAPH_PORT instead of PORT.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{
		WithGraphiQLEnabled(e.GraphiQLEnabled),
		WithCoalesceGeneration(e.CoalesceGeneration),
		WithMetricsEnabled(e.MetricsEnabled),
		WithGenerationDelay(time.Duration(e.GenerationDelay * float64(time.Second))),
		WithGraphQLPath(e.GraphQLPath),
		WithTokenFormat(e.TokenFormat),
		WithMaxParallelism(e.MaxParallelism),
	}

	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}

	return NewAppConfigWithOptions(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
