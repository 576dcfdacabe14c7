package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, "/graphql", cfg.GraphQLPath())
	assert.True(t, cfg.GraphiQLEnabled())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Empty(t, cfg.DBURL())
	assert.Equal(t, 2*time.Second, cfg.GenerationDelay())
	assert.Equal(t, "uuid", cfg.TokenFormat())
	assert.False(t, cfg.CoalesceGeneration())
	assert.True(t, cfg.MetricsEnabled())
}

func TestAppConfig_ApplyDoesNotMutateReceiver(t *testing.T) {
	base := NewAppConfig()
	next := base.Apply(WithPort(8081), WithHost("localhost"))

	assert.Equal(t, 5000, base.Port())
	assert.Equal(t, "localhost:8081", next.Addr())
}

func TestAppConfig_OptionGuards(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithGenerationDelay(-time.Second),
		WithMaxParallelism(0),
		WithTokenFormat(""),
		WithGraphQLPath(""),
	)

	assert.Equal(t, DefaultGenerationDelay, cfg.GenerationDelay())
	assert.Equal(t, DefaultMaxParallelism, cfg.MaxParallelism())
	assert.Equal(t, DefaultTokenFormat, cfg.TokenFormat())
	assert.Equal(t, DefaultGraphQLPath, cfg.GraphQLPath())
}

func TestAppConfig_LogAttrsMasksPostgresCredentials(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDBURL("postgres://user:secret@db:5432/vehicles"))

	for _, attr := range cfg.LogAttrs() {
		if attr.Key == "store" {
			assert.Equal(t, "postgres://***@***", attr.Value.String())
			return
		}
	}
	t.Fatal("store attribute missing")
}

func TestAppConfig_LogAttrsMemoryStore(t *testing.T) {
	attrs := NewAppConfig().LogAttrs()

	found := false
	for _, attr := range attrs {
		if attr.Key == "store" {
			found = true
			assert.Equal(t, slog.KindString, attr.Value.Kind())
			assert.Equal(t, "memory", attr.Value.String())
		}
	}
	assert.True(t, found)
}
