package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/api/articles", 200, 10*time.Millisecond)
	c.RecordRequest("GET", "/api/articles", 200, 5*time.Millisecond)
	c.RecordRequest("POST", "/api/articles", 500, time.Millisecond)
	c.RecordUpstreamCall("list", 200, 20*time.Millisecond)
	c.RecordUpstreamCall("delete", 0, time.Millisecond)
	c.RecordRefetch()
	c.RecordCacheLookup(true)
	c.RecordCacheLookup(false)
	c.RecordCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/articles", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("POST", "/api/articles", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamCalls.WithLabelValues("delete", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refetches))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("miss")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRefetch()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "articlehub_idmap_refetches_total 1")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordRequest("GET", "/", 200, time.Second)
	r.RecordUpstreamCall("list", 200, time.Second)
	r.RecordRefetch()
	r.RecordCacheLookup(true)
}
