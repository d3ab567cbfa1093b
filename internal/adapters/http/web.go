package web

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	financeStore "gymdesk/internal/adapters/storage/finance"
	machineStore "gymdesk/internal/adapters/storage/machine"
	measurementStore "gymdesk/internal/adapters/storage/measurement"
	memberStore "gymdesk/internal/adapters/storage/member"
	messageStore "gymdesk/internal/adapters/storage/message"
	planStore "gymdesk/internal/adapters/storage/plan"
	reportStore "gymdesk/internal/adapters/storage/report"
	trainerStore "gymdesk/internal/adapters/storage/trainer"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore      memberStore.Store
	TrainerStore     trainerStore.Store
	MachineStore     machineStore.Store
	AttendanceStore  attendanceStore.Store
	FinanceStore     financeStore.Store
	MeasurementStore measurementStore.Store
	DietStore        planStore.DietStore
	WorkoutStore     planStore.WorkoutStore
	MessageStore     messageStore.Store
	ReportStore      reportStore.Store

	// ResetAll wipes every data table in one transaction.
	ResetAll func(ctx context.Context) error
	// Ping checks the database for /healthz. Optional.
	Ping func(ctx context.Context) error
}

// Options carries the server settings handlers depend on.
type Options struct {
	StaticDir     string
	SessionSecret []byte // HS256 key, at least 32 bytes
	CSRFKey       []byte // 32 bytes
	AdminPINHash  []byte // bcrypt hash of the admin PIN
	Production    bool
	ExposeErrors  bool     // return raw error text on 500s
	CORSOrigins   []string // extra origins allowed to call the API with credentials
	GymName       string
	ReminderDays  int
	EmailSender   email.Sender
	ReplyTo       string // reply-to on reminder emails

	// LoginPerMinute bounds login attempts per client IP.
	LoginPerMinute int
	// SlowRequest is the WARN threshold for request timing; zero uses the default.
	SlowRequest    time.Duration
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global options (set by NewMux)
var options Options

// Global session manager instance
var sessions *middleware.SessionManager

// Global login throttle
var loginLimiter *middleware.RateLimiter

// Global live chat hub
var chat *chatHub

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// NewMux wires HTTP handlers for the app.
func NewMux(opts Options, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	options = opts
	if options.EmailSender == nil {
		options.EmailSender = email.NewNoopSender()
	}
	if options.LoginPerMinute <= 0 {
		options.LoginPerMinute = 10
	}
	sessions = middleware.NewSessionManager(opts.SessionSecret)
	loginLimiter = middleware.NewRateLimiter(options.LoginPerMinute, time.Minute)
	chat = newChatHub()
	middleware.SecureCookies = opts.Production

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(opts.StaticDir)))
	}
	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}
	mux.HandleFunc("/healthz", handleHealth)
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Outermost first: Timing -> CORS -> RateLimit -> SecurityHeaders -> CSRF -> Auth -> Mux
	return middleware.Chain(mux,
		middleware.Auth(sessions),
		middleware.CSRF(opts.CSRFKey, opts.Production, opts.CORSOrigins),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		corsMiddleware(opts.CORSOrigins),
		middleware.Timing(collector, mux, opts.SlowRequest),
	)
}

// corsMiddleware admits a separately hosted SPA. Without configured origins the API is same-origin only.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}

// handleHealth answers GET /healthz with the database status.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if stores.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := stores.Ping(ctx); err != nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
