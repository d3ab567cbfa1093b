package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned (wrapped) by stores when a row with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// migration is one forward-only schema step. Steps run in order inside their own transaction.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		stmts: []string{`
	CREATE TABLE IF NOT EXISTS trainer (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		specialty TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT ''
	)`, `
	CREATE TABLE IF NOT EXISTS member (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		dob TEXT NOT NULL DEFAULT '',
		photo TEXT NOT NULL DEFAULT '',
		height REAL NOT NULL DEFAULT 0,
		plan_type TEXT NOT NULL DEFAULT '',
		amount REAL NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL,
		expiry_date TEXT NOT NULL,
		trainer_id INTEGER REFERENCES trainer(id) ON DELETE SET NULL
	)`, `
	CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL REFERENCES member(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		status TEXT NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS finance (
		id INTEGER PRIMARY KEY,
		type TEXT NOT NULL,
		amount REAL NOT NULL,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`, `
	CREATE TABLE IF NOT EXISTS measurement (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL REFERENCES member(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 0,
		body_fat REAL NOT NULL DEFAULT 0,
		chest REAL NOT NULL DEFAULT 0,
		waist REAL NOT NULL DEFAULT 0,
		arms REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	)`, `
	CREATE TABLE IF NOT EXISTS diet_plan (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL REFERENCES member(id) ON DELETE CASCADE,
		meal_type TEXT NOT NULL,
		items TEXT NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS workout_plan (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL REFERENCES member(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		exercises TEXT NOT NULL DEFAULT '[]'
	)`, `
	CREATE TABLE IF NOT EXISTS chat_message (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL REFERENCES member(id) ON DELETE CASCADE,
		sender TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS machine (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Operational',
		last_maintenance TEXT NOT NULL DEFAULT '',
		next_maintenance TEXT NOT NULL DEFAULT ''
	)`,
			`CREATE INDEX IF NOT EXISTS idx_member_expiry ON member(expiry_date)`,
			`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,
			`CREATE INDEX IF NOT EXISTS idx_finance_date ON finance(date)`,
			`CREATE INDEX IF NOT EXISTS idx_chat_member ON chat_message(member_id, created_at)`,
		},
	},
	{
		version: 2,
		name:    "member email and finance member link",
		stmts: []string{
			`ALTER TABLE member ADD COLUMN email TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE finance ADD COLUMN member_id INTEGER REFERENCES member(id) ON DELETE SET NULL`,
		},
	},
	{
		// Keeps the newest row per key, then lets the unique indexes back the upserts.
		version: 3,
		name:    "unique per-member keys",
		stmts: []string{
			`DELETE FROM attendance WHERE id NOT IN (SELECT MAX(id) FROM attendance GROUP BY member_id, date)`,
			`DELETE FROM diet_plan WHERE id NOT IN (SELECT MAX(id) FROM diet_plan GROUP BY member_id, meal_type)`,
			`DELETE FROM workout_plan WHERE id NOT IN (SELECT MAX(id) FROM workout_plan GROUP BY member_id, day)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_attendance_member_date ON attendance(member_id, date)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_diet_member_meal ON diet_plan(member_id, meal_type)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_workout_member_day ON workout_plan(member_id, day)`,
		},
	},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for an empty database.
// PRE: db is a valid database connection
// POST: Returns the highest applied version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return v, nil
}

// MigrateDB applies every pending migration.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion, foreign keys enabled on the connection
func MigrateDB(db *sql.DB) error {
	return migrateTo(db, LatestSchemaVersion())
}

// migrateTo applies pending migrations up to and including target.
func migrateTo(db *sql.DB, target int) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current || m.version > target {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}

// ResetTables lists every data table, children before parents.
var ResetTables = []string{
	"chat_message",
	"measurement",
	"diet_plan",
	"workout_plan",
	"attendance",
	"finance",
	"member",
	"trainer",
	"machine",
}

// ResetAll deletes every row from every data table in one transaction.
// PRE: schema is migrated
// POST: All data tables are empty, or nothing changed on error
func ResetAll(ctx context.Context, db SQLDB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range ResetTables {
		// table names come from the fixed list above
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// RequireAffected converts a zero-row UPDATE or DELETE into a wrapped ErrNotFound.
func RequireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
