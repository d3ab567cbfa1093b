package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/trainer"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new trainer Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Trainer by its ID.
// PRE: id > 0
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Trainer, error) {
	var t domain.Trainer
	err := s.db.QueryRowContext(ctx, "SELECT id, name, specialty, phone FROM trainer WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.Specialty, &t.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trainer{}, fmt.Errorf("trainer %d: %w", id, storage.ErrNotFound)
	}
	return t, err
}

// Save inserts a Trainer when ID is zero, otherwise updates it.
// PRE: entity has been validated
// POST: Entity is persisted and ID assigned on insert
func (s *SQLiteStore) Save(ctx context.Context, t *domain.Trainer) error {
	if t.ID == 0 {
		res, err := s.db.ExecContext(ctx, "INSERT INTO trainer (name, specialty, phone) VALUES (?, ?, ?)",
			t.Name, t.Specialty, t.Phone)
		if err != nil {
			return fmt.Errorf("insert trainer: %w", err)
		}
		t.ID, err = res.LastInsertId()
		return err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE trainer SET name = ?, specialty = ?, phone = ? WHERE id = ?",
		t.Name, t.Specialty, t.Phone, t.ID)
	if err != nil {
		return fmt.Errorf("update trainer %d: %w", t.ID, err)
	}
	return storage.RequireAffected(res, "trainer", t.ID)
}

// Delete removes a Trainer. Callers check for assigned members first.
// PRE: id > 0
// POST: Row removed, or storage.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trainer WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete trainer %d: %w", id, err)
	}
	return storage.RequireAffected(res, "trainer", id)
}

// List returns all trainers ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Trainer, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, specialty, phone FROM trainer ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainer
	for rows.Next() {
		var t domain.Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.Specialty, &t.Phone); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}
