package measurement

import (
	"context"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/measurement"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new measurement Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create appends a measurement.
// PRE: entity has been validated
// POST: Row persisted and value.ID assigned
func (s *SQLiteStore) Create(ctx context.Context, m *domain.Measurement) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO measurement (member_id, date, weight, body_fat, chest, waist, arms, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MemberID, m.Date, m.Weight, m.BodyFat, m.Chest, m.Waist, m.Arms, m.Notes)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

// ListByMember returns a member's measurements oldest first, as the progress chart reads them.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID int64) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, date, weight, body_fat, chest, waist, arms, notes
		FROM measurement WHERE member_id = ? ORDER BY date, id`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(&m.ID, &m.MemberID, &m.Date, &m.Weight, &m.BodyFat, &m.Chest, &m.Waist, &m.Arms, &m.Notes); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
