package middleware

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/http/perf"
)

// DefaultSlowRequest is used when Timing is given a non-positive threshold.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestIDHeader carries the per-request id back to the caller.
const RequestIDHeader = "X-Request-Id"

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to a websocket upgrader.
func (sw *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// RouteMatcher reports the pattern a request would be dispatched to.
// *http.ServeMux satisfies it.
type RouteMatcher interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// Labels for requests that do not map to a bound API route.
const (
	LabelStatic    = "static"
	LabelUnmatched = "unmatched"
)

// routeLabel keeps metric cardinality bounded: only bound API patterns get their own label.
// The catch-all "/" pattern serves the static bundle.
func routeLabel(routes RouteMatcher, r *http.Request) string {
	if routes == nil {
		return LabelUnmatched
	}
	_, pattern := routes.Handler(r)
	switch {
	case pattern == "":
		return LabelUnmatched
	case pattern == "/":
		if strings.HasPrefix(r.URL.Path, "/api/") {
			return LabelUnmatched
		}
		return LabelStatic
	}
	return pattern
}

// Timing returns middleware that logs request duration and tags the response with a request id.
// Requests for bundled assets under /assets/ and the /metrics scrape are excluded.
// Normal requests log at DEBUG; requests slower than slowAfter log at WARN.
// If collector is non-nil, entries are recorded as Prometheus series labelled by the
// pattern routes would dispatch to.
func Timing(collector *perf.Collector, routes RouteMatcher, slowAfter time.Duration) func(http.Handler) http.Handler {
	if slowAfter <= 0 {
		slowAfter = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if strings.HasPrefix(path, "/assets/") || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := uuid.NewString()
			w.Header().Set(RequestIDHeader, reqID)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				durationMs := float64(elapsed.Microseconds()) / 1000.0

				if elapsed >= slowAfter {
					slog.Warn("slow_request",
						"request_id", reqID,
						"method", r.Method,
						"path", path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				} else {
					slog.Debug("request",
						"request_id", reqID,
						"method", r.Method,
						"path", path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				}

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Method:     r.Method,
						Path:       routeLabel(routes, r),
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
