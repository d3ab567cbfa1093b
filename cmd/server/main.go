package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage"
	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	financeStore "gymdesk/internal/adapters/storage/finance"
	machineStore "gymdesk/internal/adapters/storage/machine"
	measurementStore "gymdesk/internal/adapters/storage/measurement"
	memberStore "gymdesk/internal/adapters/storage/member"
	messageStore "gymdesk/internal/adapters/storage/message"
	planStore "gymdesk/internal/adapters/storage/plan"
	reportStore "gymdesk/internal/adapters/storage/report"
	trainerStore "gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownTimeout bounds how long in-flight requests may finish after a signal.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	if !cfg.IsProduction() {
		generated, err := cfg.FillDevKeys()
		if err != nil {
			slog.Error("dev_keys_failed", "error", err)
			os.Exit(1)
		}
		if generated {
			slog.Warn("dev_keys_generated", "note", "sessions will not survive a restart")
		}
	}

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openDB opens the SQLite file with WAL mode, foreign keys and a busy timeout
// on every pooled connection, then migrates it.
func openDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// newHandler wires stores, email and the web layer over db.
func newHandler(cfg config.Config, db *sql.DB) (http.Handler, error) {
	// Query timings feed the /metrics histograms
	collector := perf.NewCollector()
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery())

	stores := &web.Stores{
		MemberStore:      memberStore.NewSQLiteStore(timedDB),
		TrainerStore:     trainerStore.NewSQLiteStore(timedDB),
		MachineStore:     machineStore.NewSQLiteStore(timedDB),
		AttendanceStore:  attendanceStore.NewSQLiteStore(timedDB),
		FinanceStore:     financeStore.NewSQLiteStore(timedDB),
		MeasurementStore: measurementStore.NewSQLiteStore(timedDB),
		DietStore:        planStore.NewSQLiteDietStore(timedDB),
		WorkoutStore:     planStore.NewSQLiteWorkoutStore(timedDB),
		MessageStore:     messageStore.NewSQLiteStore(timedDB),
		ReportStore:      reportStore.NewSQLiteStore(timedDB),
		ResetAll:         func(ctx context.Context) error { return storage.ResetAll(ctx, timedDB) },
		Ping:             db.PingContext,
	}

	pinHash := []byte(cfg.AdminPINHash)
	if len(pinHash) == 0 {
		var err error
		pinHash, err = orchestrators.HashPIN(cfg.AdminPIN)
		if err != nil {
			return nil, err
		}
	}

	var sender email.Sender
	if cfg.Email.ResendKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
		slog.Info("email_configured", "provider", "resend", "from", cfg.Email.From)
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "note", "set GYM_RESEND_KEY for reminder delivery")
		}
	}

	return web.NewMux(web.Options{
		StaticDir:      cfg.StaticDir,
		SessionSecret:  []byte(cfg.SessionSecret),
		CSRFKey:        []byte(cfg.CSRFKey),
		AdminPINHash:   pinHash,
		Production:     cfg.IsProduction(),
		ExposeErrors:   cfg.ExposeErrors,
		CORSOrigins:    cfg.CORSOrigins,
		GymName:        cfg.GymName,
		ReminderDays:   cfg.ReminderDays,
		EmailSender:    sender,
		ReplyTo:        cfg.Email.ReplyTo,
		LoginPerMinute: cfg.LoginPerMinute,
		SlowRequest:    cfg.SlowRequest(),
	}, stores, collector), nil
}

func run(cfg config.Config) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	handler, err := newHandler(cfg, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"schema", storage.LatestSchemaVersion(),
			"cors", strings.Join(cfg.CORSOrigins, ","),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
