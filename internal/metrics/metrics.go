// Package metrics collects Prometheus metrics for the façade, the Airtable
// client, the id table and the list cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the rest of the module reports to.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordUpstreamCall(op string, status int, duration time.Duration)
	RecordRefetch()
	RecordCacheLookup(hit bool)
}

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	refetches       prometheus.Counter
	cacheLookups    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "articlehub_http_requests_total",
			Help: "Façade requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "articlehub_http_request_duration_seconds",
			Help:    "Façade request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "articlehub_airtable_calls_total",
			Help: "Airtable API calls by operation and status code (0 for transport errors).",
		}, []string{"op", "status_code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "articlehub_airtable_call_duration_seconds",
			Help:    "Airtable API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		refetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "articlehub_idmap_refetches_total",
			Help: "Full refetches triggered by id table misses.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "articlehub_list_cache_lookups_total",
			Help: "List cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.upstreamCalls,
		c.upstreamLatency,
		c.refetches,
		c.cacheLookups,
	)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordUpstreamCall(op string, status int, duration time.Duration) {
	c.upstreamCalls.WithLabelValues(op, strconv.Itoa(status)).Inc()
	c.upstreamLatency.WithLabelValues(op).Observe(duration.Seconds())
}

func (c *Collector) RecordRefetch() {
	c.refetches.Inc()
}

func (c *Collector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordUpstreamCall(string, int, time.Duration)    {}
func (Nop) RecordRefetch()                                   {}
func (Nop) RecordCacheLookup(bool)                           {}
