// ABOUTME: Tests for the Prometheus recorder.
// ABOUTME: Reads counters back with testutil and scrapes the handler.
package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRender(t *testing.T) {
	r := New()
	r.ObserveRender("glucose-trend", "svg", 10*time.Millisecond)
	r.ObserveRender("glucose-trend", "svg", 20*time.Millisecond)
	r.ObserveRender("glucose-trend", "png", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.renders.WithLabelValues("glucose-trend", "svg")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.renders.WithLabelValues("glucose-trend", "png")))
}

func TestCacheCounters(t *testing.T) {
	r := New()
	r.CacheHit()
	r.CacheHit()
	r.CacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheMisses))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveRequest("/", 200)
	r.SetTableRows(3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `healthboard_http_requests_total{code="200",route="/"} 1`)
	assert.Contains(t, string(body), "healthboard_table_rows 3")
	assert.Contains(t, string(body), "go_goroutines")
}
