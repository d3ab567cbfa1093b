package perf

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing observation.
type Entry struct {
	Kind       EntryKind
	Method     string // HTTP method (empty for queries)
	Path       string // HTTP route or SQL operation
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector turns timing entries into Prometheus series.
// Each Collector owns its registry so tests can build one without clashing on global names.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	queries  *prometheus.HistogramVec
	count    int64 // total entries ever recorded (atomic)
}

// NewCollector creates a collector with request and query series registered on a fresh registry.
// PRE: none
// POST: Returns a ready-to-use collector; Handler serves its metrics
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status_code"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		queries: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "SQLite statement latency by operation.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
	}
}

// Record observes an entry.
// PRE: e is a valid Entry
// POST: Matching series updated, TotalRecorded incremented
func (c *Collector) Record(e Entry) {
	seconds := e.DurationMs / 1000
	switch e.Kind {
	case KindRequest:
		c.requests.WithLabelValues(e.Method, e.Path, strconv.Itoa(e.StatusCode)).Inc()
		c.latency.WithLabelValues(e.Method, e.Path).Observe(seconds)
	case KindQuery:
		c.queries.WithLabelValues(e.Path).Observe(seconds)
	}
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
// PRE: none
// POST: returns count >= 0
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Requests exposes the request counter for assertions.
func (c *Collector) Requests() *prometheus.CounterVec {
	return c.requests
}

// Handler serves the Prometheus exposition of this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
