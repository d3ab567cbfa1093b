package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"gymdesk/internal/adapters/http/perf"
)

// testRoutes binds the patterns the label tests rely on, plus a static catch-all.
func testRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	noop := func(w http.ResponseWriter, r *http.Request) {}
	mux.HandleFunc("/api/members", noop)
	mux.HandleFunc("/api/dashboard", noop)
	mux.HandleFunc("/", noop)
	return mux
}

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// TestTimingMiddleware_EmitsEntry verifies that a request entry is recorded and tagged with an id.
func TestTimingMiddleware_EmitsEntry(t *testing.T) {
	collector := perf.NewCollector()
	handler := Timing(collector, testRoutes(), 0)(okHandler(http.StatusOK))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/members", nil))

	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

// TestTimingMiddleware_SkipsAssetsAndScrape verifies bundled assets and /metrics are excluded.
func TestTimingMiddleware_SkipsAssetsAndScrape(t *testing.T) {
	collector := perf.NewCollector()
	handler := Timing(collector, testRoutes(), 0)(okHandler(http.StatusOK))

	for _, path := range []string{"/assets/index-abc123.js", "/metrics"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_EntryLabels verifies method, route and status labels.
func TestTimingMiddleware_EntryLabels(t *testing.T) {
	collector := perf.NewCollector()
	created := Timing(collector, testRoutes(), 0)(okHandler(http.StatusCreated))
	missing := Timing(collector, testRoutes(), 0)(okHandler(http.StatusNotFound))

	created.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/members", nil))
	missing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/no/such/page", nil))
	missing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/another/page", nil))

	if got := testutil.ToFloat64(collector.Requests().WithLabelValues("POST", "/api/members", "201")); got != 1 {
		t.Errorf("POST /api/members 201 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Requests().WithLabelValues("GET", LabelStatic, "404")); got != 2 {
		t.Errorf("static 404 = %v, want 2 (non-API paths share one label)", got)
	}
}

// TestTimingMiddleware_UnboundPathsShareOneSeries verifies that unknown API paths
// collapse into a single label instead of one series per path.
func TestTimingMiddleware_UnboundPathsShareOneSeries(t *testing.T) {
	collector := perf.NewCollector()
	handler := Timing(collector, testRoutes(), 0)(okHandler(http.StatusNotFound))

	for i := 0; i < 50; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", fmt.Sprintf("/api/junk%d", i), nil))
	}

	if n := testutil.CollectAndCount(collector.Requests()); n != 1 {
		t.Errorf("request series = %d, want 1", n)
	}
	if got := testutil.ToFloat64(collector.Requests().WithLabelValues("GET", LabelUnmatched, "404")); got != 50 {
		t.Errorf("unmatched 404 = %v, want 50", got)
	}
}

// TestRouteLabel verifies patterns, the static catch-all and unmatched paths.
func TestRouteLabel(t *testing.T) {
	withStatic := testRoutes()
	apiOnly := http.NewServeMux()
	apiOnly.HandleFunc("/api/members", func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name   string
		routes RouteMatcher
		path   string
		want   string
	}{
		{name: "bound route", routes: withStatic, path: "/api/members?id=4", want: "/api/members"},
		{name: "static asset", routes: withStatic, path: "/index.html", want: LabelStatic},
		{name: "unknown api path under catch-all", routes: withStatic, path: "/api/nope", want: LabelUnmatched},
		{name: "no catch-all", routes: apiOnly, path: "/favicon.ico", want: LabelUnmatched},
		{name: "no matcher", routes: nil, path: "/api/members", want: LabelUnmatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routeLabel(tt.routes, httptest.NewRequest("GET", tt.path, nil)); got != tt.want {
				t.Errorf("routeLabel(%s) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestTimingMiddleware_NilCollector verifies middleware works without a collector.
func TestTimingMiddleware_NilCollector(t *testing.T) {
	handler := Timing(nil, testRoutes(), 0)(okHandler(http.StatusOK))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/dashboard", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_HandlerPanic verifies that a panicking handler does not
// prevent the deferred timing logic from running.
func TestTimingMiddleware_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector()
	handler := Timing(collector, testRoutes(), 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate, got nil")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1 (defer must run even on panic)", collector.TotalRecorded())
		}
	}()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/panic", nil))
}

// TestTimingMiddleware_PoolNoStateLeak verifies that statusWriter pool reuse
// does not leak status codes between requests.
func TestTimingMiddleware_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector()
	Timing(collector, testRoutes(), 0)(okHandler(http.StatusInternalServerError)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/fail", nil))

	implicit := Timing(collector, testRoutes(), 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	implicit.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/dashboard", nil))

	if got := testutil.ToFloat64(collector.Requests().WithLabelValues("GET", "/api/dashboard", "200")); got != 1 {
		t.Errorf("/api/dashboard 200 = %v, want 1 (pool must not leak 500)", got)
	}
}

// TestStatusWriter_HijackUnsupported verifies the hijack passthrough reports a plain writer.
func TestStatusWriter_HijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := sw.Hijack(); err == nil {
		t.Error("expected error from recorder without hijack support")
	}
}

// BenchmarkTimingMiddleware measures per-request overhead.
func BenchmarkTimingMiddleware(b *testing.B) {
	handler := Timing(perf.NewCollector(), testRoutes(), time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/bench", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkTimingMiddleware_Parallel confirms no lock contention.
func BenchmarkTimingMiddleware_Parallel(b *testing.B) {
	handler := Timing(perf.NewCollector(), testRoutes(), time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/bench", nil))
		}
	})
}
