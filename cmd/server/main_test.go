package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gymdesk/internal/config"
)

// newTestServer wires the real handler over a temp database file.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.AdminPIN = "4321"
	cfg.DBPath = filepath.Join(t.TempDir(), "gym.db")
	if _, err := cfg.FillDevKeys(); err != nil {
		t.Fatalf("FillDevKeys: %v", err)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		t.Fatalf("openDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h, err := newHandler(cfg, db)
	if err != nil {
		t.Fatalf("newHandler: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// TestServer_Smoke tests health, metrics and an admin login against the wired server.
func TestServer_Smoke(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json", strings.NewReader(`{"pin":"4321"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics got %d", resp.StatusCode)
	}
}

// TestOpenDB_Migrates tests that a fresh file gets the schema and foreign keys.
func TestOpenDB_Migrates(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("openDB: %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM member").Scan(&n); err != nil {
		t.Errorf("member table missing: %v", err)
	}
}
