package vehiclegraph_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vehiclegraph/vehiclegraph"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/generator"
	"github.com/vehiclegraph/vehiclegraph/internal/config"
	"github.com/vehiclegraph/vehiclegraph/internal/database"
	"github.com/vehiclegraph/vehiclegraph/internal/log"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newClient(t *testing.T, opts ...vehiclegraph.Option) *vehiclegraph.Client {
	t.Helper()
	base := []vehiclegraph.Option{
		vehiclegraph.WithGenerationDelay(0),
		vehiclegraph.WithLogger(log.Discard()),
	}
	client, err := vehiclegraph.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient_MemoryStoreMemoizes(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	view, err := client.Vehicles.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.True(t, view.Snapshot().IsEmpty())

	texts, err := view.Texts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, texts)

	again, err := client.Vehicles.Lookup(ctx, 1)
	require.NoError(t, err)
	cached, err := again.Texts(ctx)
	require.NoError(t, err)
	assert.Equal(t, texts, cached)
}

func TestClient_DatabaseStore(t *testing.T) {
	ctx := context.Background()
	client := newClient(t,
		vehiclegraph.WithDatabaseURL(database.MemoryURL),
		vehiclegraph.WithTokenFormat(generator.FormatULID),
	)

	record, err := client.Vehicles.Get(ctx, 7)
	require.NoError(t, err)

	for field, value := range record.Values() {
		_, err := ulid.ParseStrict(value)
		assert.NoErrorf(t, err, "field %s should hold a ULID", field)
	}

	again, err := client.Vehicles.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, record.Values(), again.Values())

	n, err := client.Vehicles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClient_InvalidConfiguration(t *testing.T) {
	_, err := vehiclegraph.New(vehiclegraph.WithTokenFormat("snowflake"))
	assert.ErrorIs(t, err, generator.ErrUnknownTokenFormat)

	_, err = vehiclegraph.New(vehiclegraph.WithDatabaseURL("mysql://localhost/vehicles"))
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestClient_Metrics(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	view, err := client.Vehicles.Lookup(ctx, 3)
	require.NoError(t, err)
	_, err = view.Codes(ctx)
	require.NoError(t, err)

	handler := client.MetricsHandler()
	require.NotNil(t, handler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, `vehiclegraph_lookups_total{result="new"} 1`)
	assert.Contains(t, body, `vehiclegraph_field_resolutions_total{field="codes",source="generated"} 1`)
	assert.Contains(t, body, "vehiclegraph_store_entries 1")
}

func TestClient_MetricsDisabled(t *testing.T) {
	client := newClient(t, vehiclegraph.WithMetrics(false))

	assert.Nil(t, client.MetricsHandler())
	assert.Nil(t, client.Metrics())
}

func TestClient_Close(t *testing.T) {
	closed := 0
	client, err := vehiclegraph.New(
		vehiclegraph.WithLogger(log.Discard()),
		vehiclegraph.WithDatabaseURL(database.MemoryURL),
		vehiclegraph.WithCloser(closerFunc(func() error {
			closed++
			return errors.New("already gone")
		})),
	)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.Equal(t, 1, closed)
	assert.ErrorIs(t, client.Close(), vehiclegraph.ErrClientClosed)
	assert.Equal(t, 1, closed)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.NewAppConfigWithOptions(
		config.WithGenerationDelay(0),
		config.WithTokenFormat("ulid"),
		config.WithMetricsEnabled(false),
		config.WithCoalesceGeneration(true),
	)

	opts := append(vehiclegraph.OptionsFromConfig(cfg), vehiclegraph.WithLogger(log.Discard()))
	client, err := vehiclegraph.New(opts...)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.Nil(t, client.MetricsHandler())

	view, err := client.Vehicles.Lookup(context.Background(), 11)
	require.NoError(t, err)
	pics, err := view.Pics(context.Background())
	require.NoError(t, err)
	_, err = ulid.ParseStrict(pics)
	assert.NoError(t, err)
}
