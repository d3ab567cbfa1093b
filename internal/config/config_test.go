package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestLoad_DefaultsWithMissingFiles tests that absent files fall back to defaults.
func TestLoad_DefaultsWithMissingFiles(t *testing.T) {
	t.Setenv("GYM_ADMIN_PIN", "1234")
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "gym.yaml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "gym.db" || cfg.ReminderDays != 7 || cfg.LoginPerMinute != 10 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.IsProduction() {
		t.Error("default env should be development")
	}
}

// TestLoad_Precedence tests YAML < .env < environment.
func TestLoad_Precedence(t *testing.T) {
	yamlPath := writeFile(t, "gym.yaml", `
addr: ":9000"
db_path: /var/lib/gym/gym.db
gym_name: Iron Den
admin_pin: "1111"
reminder_days: 5
cors_origins:
  - https://app.example.com
email:
  from: Iron Den <desk@irondengym.in>
`)
	envPath := writeFile(t, ".env", "GYM_NAME=Iron Den Annex\nGYM_ADMIN_PIN=2222\nGYM_REMINDER_DAYS=3\n")
	t.Setenv("GYM_ADMIN_PIN", "3333")
	t.Setenv("GYM_CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("GYM_EXPOSE_ERRORS", "true")

	cfg, err := Load(yamlPath, envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		field string
		got   any
		want  any
	}{
		{field: "addr (yaml)", got: cfg.Addr, want: ":9000"},
		{field: "db_path (yaml)", got: cfg.DBPath, want: "/var/lib/gym/gym.db"},
		{field: "email.from (yaml)", got: cfg.Email.From, want: "Iron Den <desk@irondengym.in>"},
		{field: "gym_name (.env over yaml)", got: cfg.GymName, want: "Iron Den Annex"},
		{field: "reminder_days (.env over yaml)", got: cfg.ReminderDays, want: 3},
		{field: "admin_pin (env over .env)", got: cfg.AdminPIN, want: "3333"},
		{field: "expose_errors (env)", got: cfg.ExposeErrors, want: true},
		{field: "cors origins (env)", got: strings.Join(cfg.CORSOrigins, " "), want: "https://a.example.com https://b.example.com"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.field, tt.got, tt.want)
		}
	}
}

// TestLoad_MalformedInputs tests that broken files and values are reported rather than ignored.
func TestLoad_MalformedInputs(t *testing.T) {
	t.Setenv("GYM_ADMIN_PIN", "1234")

	if _, err := Load(writeFile(t, "gym.yaml", "addr: [unclosed"), ""); err == nil {
		t.Error("expected YAML parse error")
	}
	if _, err := Load("", writeFile(t, ".env", "GYM_NAME='unterminated\n")); err == nil {
		t.Error("expected .env parse error")
	}

	t.Setenv("GYM_REMINDER_DAYS", "seven")
	if _, err := Load("", ""); err == nil || !strings.Contains(err.Error(), "GYM_REMINDER_DAYS") {
		t.Errorf("expected GYM_REMINDER_DAYS error, got %v", err)
	}
}

// TestValidate tests each rule.
func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Default()
		c.AdminPIN = "1234"
		return c
	}
	prod := func() Config {
		c := valid()
		c.Env = EnvProduction
		c.SessionSecret = strings.Repeat("s", 32)
		c.CSRFKey = strings.Repeat("k", 32)
		return c
	}

	tests := []struct {
		name    string
		cfg     Config
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid development", cfg: valid(), mutate: func(c *Config) {}},
		{name: "valid production", cfg: prod(), mutate: func(c *Config) {}},
		{name: "pin hash alone is enough", cfg: valid(), mutate: func(c *Config) { c.AdminPIN = ""; c.AdminPINHash = "$2a$10$x" }},
		{name: "unknown env", cfg: valid(), mutate: func(c *Config) { c.Env = "staging" }, wantErr: ErrInvalidEnv},
		{name: "no pin", cfg: valid(), mutate: func(c *Config) { c.AdminPIN = "" }, wantErr: ErrNoAdminPIN},
		{name: "reminder window too wide", cfg: valid(), mutate: func(c *Config) { c.ReminderDays = 61 }, wantErr: ErrInvalidReminder},
		{name: "login limit zero", cfg: valid(), mutate: func(c *Config) { c.LoginPerMinute = 0 }, wantErr: ErrInvalidLoginLimit},
		{name: "slow query zero", cfg: valid(), mutate: func(c *Config) { c.SlowQueryMs = 0 }, wantErr: ErrInvalidSlowLimit},
		{name: "production short secret", cfg: prod(), mutate: func(c *Config) { c.SessionSecret = "short" }, wantErr: ErrWeakSecret},
		{name: "production bad csrf key", cfg: prod(), mutate: func(c *Config) { c.CSRFKey = "" }, wantErr: ErrBadCSRFKey},
		{name: "development tolerates missing keys", cfg: valid(), mutate: func(c *Config) { c.SessionSecret = ""; c.CSRFKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestFillDevKeys tests that only missing keys are generated.
func TestFillDevKeys(t *testing.T) {
	c := Default()
	c.SessionSecret = "kept-secret-kept-secret-kept-sec"

	generated, err := c.FillDevKeys()
	if err != nil {
		t.Fatalf("FillDevKeys: %v", err)
	}
	if !generated {
		t.Error("expected CSRF key to be generated")
	}
	if c.SessionSecret != "kept-secret-kept-secret-kept-sec" {
		t.Error("existing session secret was replaced")
	}
	if len(c.CSRFKey) != 32 {
		t.Errorf("CSRF key length = %d, want 32", len(c.CSRFKey))
	}

	again, _ := c.FillDevKeys()
	if again {
		t.Error("second call should generate nothing")
	}
}
