package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

type fixedCounter struct {
	n   int
	err error
}

func (c fixedCounter) Count(context.Context) (int, error) { return c.n, c.err }

func TestCollector_ObserveLookup(t *testing.T) {
	c := NewCollector()

	c.ObserveLookup(false)
	c.ObserveLookup(true)
	c.ObserveLookup(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues("new")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lookups.WithLabelValues("existing")))
}

func TestCollector_ObserveResolution(t *testing.T) {
	c := NewCollector()

	c.ObserveResolution(vehicle.FieldTexts, true, 2*time.Second)
	c.ObserveResolution(vehicle.FieldTexts, false, 0)
	c.ObserveResolution(vehicle.FieldPics, false, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("texts", "generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("texts", "cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("pics", "cache")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.generation))
}

func TestCollector_TrackEntries(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.TrackEntries(fixedCounter{n: 3}))

	count, err := testutil.GatherAndCount(c.Registry(), "vehiclegraph_store_entries")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "vehiclegraph_store_entries" {
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestCollector_TrackEntriesReportsZeroOnError(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.TrackEntries(fixedCounter{err: errors.New("down")}))

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "vehiclegraph_store_entries" {
			assert.Zero(t, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveLookup(false)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `vehiclegraph_lookups_total{result="new"} 1`)
}
