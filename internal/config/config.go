// Package config loads server settings from defaults, an optional YAML file,
// an optional .env file and GYM_* environment variables, in that order of precedence.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultPath is the YAML file read when GYM_CONFIG is unset.
const DefaultPath = "gym.yaml"

// MaxReminderDays bounds the configured reminder window.
const MaxReminderDays = 60

var (
	ErrInvalidEnv        = errors.New("env must be development or production")
	ErrNoAdminPIN        = errors.New("admin_pin or admin_pin_hash is required")
	ErrWeakSecret        = errors.New("session_secret must be at least 32 bytes in production")
	ErrBadCSRFKey        = errors.New("csrf_key must be exactly 32 bytes in production")
	ErrInvalidReminder   = errors.New("reminder_days must be between 0 and 60")
	ErrInvalidLoginLimit = errors.New("login_per_minute must be positive")
	ErrInvalidSlowLimit  = errors.New("slow_request_ms and slow_query_ms must be positive")
)

// Email configures outgoing reminder mail. An empty ResendKey disables delivery.
type Email struct {
	ResendKey string `yaml:"resend_key"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
}

// Config holds every server setting.
type Config struct {
	Addr           string   `yaml:"addr"`
	DBPath         string   `yaml:"db_path"`
	StaticDir      string   `yaml:"static_dir"`
	Env            string   `yaml:"env"`
	LogLevel       string   `yaml:"log_level"`
	GymName        string   `yaml:"gym_name"`
	AdminPIN       string   `yaml:"admin_pin"`
	AdminPINHash   string   `yaml:"admin_pin_hash"` // bcrypt; wins over admin_pin
	SessionSecret  string   `yaml:"session_secret"`
	CSRFKey        string   `yaml:"csrf_key"`
	CORSOrigins    []string `yaml:"cors_origins"`
	ExposeErrors   bool     `yaml:"expose_errors"`
	ReminderDays   int      `yaml:"reminder_days"`
	LoginPerMinute int      `yaml:"login_per_minute"`
	SlowRequestMs  int      `yaml:"slow_request_ms"`
	SlowQueryMs    int      `yaml:"slow_query_ms"`
	Email          Email    `yaml:"email"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DBPath:         "gym.db",
		Env:            EnvDevelopment,
		LogLevel:       "info",
		GymName:        "Our Gym",
		ReminderDays:   7,
		LoginPerMinute: 10,
		SlowRequestMs:  200,
		SlowQueryMs:    50,
		Email: Email{
			From: "Gym Desk <noreply@example.com>",
		},
	}
}

// Load builds a Config from defaults, then yamlPath, then dotenvPath, then the process environment.
// Missing files are skipped; malformed files are errors.
// PRE: none
// POST: Returns a validated Config or the first error
func Load(yamlPath, dotenvPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read %s: %w", yamlPath, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", yamlPath, err)
			}
		}
	}

	dotenv := map[string]string{}
	if dotenvPath != "" {
		vals, err := godotenv.Read(dotenvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("parse %s: %w", dotenvPath, err)
		default:
			dotenv = vals
		}
	}

	// Real environment variables win over .env entries.
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnvironment loads the file named by GYM_CONFIG (default gym.yaml) and ./.env.
func FromEnvironment() (Config, error) {
	path := os.Getenv("GYM_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return Load(path, ".env")
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GYM_ADDR":           &c.Addr,
		"GYM_DB_PATH":        &c.DBPath,
		"GYM_STATIC_DIR":     &c.StaticDir,
		"GYM_ENV":            &c.Env,
		"GYM_LOG_LEVEL":      &c.LogLevel,
		"GYM_NAME":           &c.GymName,
		"GYM_ADMIN_PIN":      &c.AdminPIN,
		"GYM_ADMIN_PIN_HASH": &c.AdminPINHash,
		"GYM_SESSION_SECRET": &c.SessionSecret,
		"GYM_CSRF_KEY":       &c.CSRFKey,
		"GYM_RESEND_KEY":     &c.Email.ResendKey,
		"GYM_EMAIL_FROM":     &c.Email.From,
		"GYM_REPLY_TO":       &c.Email.ReplyTo,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"GYM_REMINDER_DAYS":    &c.ReminderDays,
		"GYM_LOGIN_PER_MINUTE": &c.LoginPerMinute,
		"GYM_SLOW_REQUEST_MS":  &c.SlowRequestMs,
		"GYM_SLOW_QUERY_MS":    &c.SlowQueryMs,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("GYM_EXPOSE_ERRORS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GYM_EXPOSE_ERRORS: %w", err)
		}
		c.ExposeErrors = b
	}
	if v, ok := lookup("GYM_CORS_ORIGINS"); ok {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	return nil
}

// IsProduction reports whether the server runs with production cookies and key checks.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks the settings that would otherwise fail at request time.
// PRE: none
// POST: Returns nil or the first violated rule
func (c Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return ErrInvalidEnv
	}
	if c.AdminPIN == "" && c.AdminPINHash == "" {
		return ErrNoAdminPIN
	}
	if c.ReminderDays < 0 || c.ReminderDays > MaxReminderDays {
		return ErrInvalidReminder
	}
	if c.LoginPerMinute <= 0 {
		return ErrInvalidLoginLimit
	}
	if c.SlowRequestMs <= 0 || c.SlowQueryMs <= 0 {
		return ErrInvalidSlowLimit
	}
	if c.IsProduction() {
		if len(c.SessionSecret) < 32 {
			return ErrWeakSecret
		}
		if len(c.CSRFKey) != 32 {
			return ErrBadCSRFKey
		}
	}
	return nil
}

// SlowRequest returns the request duration logged as slow.
func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMs) * time.Millisecond
}

// SlowQuery returns the statement duration logged as slow.
func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMs) * time.Millisecond
}

// FillDevKeys generates random session and CSRF keys when they are unset.
// Sessions signed with generated keys do not survive a restart.
// PRE: c is not a production config
// POST: SessionSecret and CSRFKey are non-empty; reports whether anything was generated
func (c *Config) FillDevKeys() (bool, error) {
	generated := false
	for _, k := range []*string{&c.SessionSecret, &c.CSRFKey} {
		if *k != "" {
			continue
		}
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return false, err
		}
		*k = string(b)
		generated = true
	}
	return generated, nil
}
