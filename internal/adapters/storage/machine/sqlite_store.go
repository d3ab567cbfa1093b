package machine

import (
	"context"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/machine"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new machine Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a Machine when ID is zero, otherwise updates it.
// PRE: entity has been validated
// POST: Entity is persisted and ID assigned on insert
func (s *SQLiteStore) Save(ctx context.Context, m *domain.Machine) error {
	if m.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO machine (name, status, last_maintenance, next_maintenance) VALUES (?, ?, ?, ?)",
			m.Name, m.Status, m.LastMaintenance, m.NextMaintenance)
		if err != nil {
			return fmt.Errorf("insert machine: %w", err)
		}
		m.ID, err = res.LastInsertId()
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE machine SET name = ?, status = ?, last_maintenance = ?, next_maintenance = ? WHERE id = ?",
		m.Name, m.Status, m.LastMaintenance, m.NextMaintenance, m.ID)
	if err != nil {
		return fmt.Errorf("update machine %d: %w", m.ID, err)
	}
	return storage.RequireAffected(res, "machine", m.ID)
}

// Delete removes a Machine.
// PRE: id > 0
// POST: Row removed, or storage.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM machine WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete machine %d: %w", id, err)
	}
	return storage.RequireAffected(res, "machine", id)
}

// List returns machines needing attention first, then by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Machine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, status, last_maintenance, next_maintenance FROM machine
		ORDER BY CASE status WHEN 'Broken' THEN 0 WHEN 'Under Maintenance' THEN 1 ELSE 2 END, name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Machine
	for rows.Next() {
		var m domain.Machine
		if err := rows.Scan(&m.ID, &m.Name, &m.Status, &m.LastMaintenance, &m.NextMaintenance); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
