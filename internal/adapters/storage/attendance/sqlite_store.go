package attendance

import (
	"context"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Upsert records the status for (MemberID, Date), replacing any earlier status for that day.
// PRE: entity has been validated
// POST: Exactly one row exists for (MemberID, Date); value.ID is that row's id
func (s *SQLiteStore) Upsert(ctx context.Context, a *domain.Attendance) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO attendance (member_id, date, status) VALUES (?, ?, ?)
		ON CONFLICT(member_id, date) DO UPDATE SET status = excluded.status
		RETURNING id`,
		a.MemberID, a.Date, a.Status,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// List returns attendance rows with member names, newest date first.
// PRE: filter fields are optional
// POST: Rows match every non-zero filter field
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Attendance, error) {
	query := `SELECT a.id, a.member_id, m.name, a.date, a.status
		FROM attendance a JOIN member m ON m.id = a.member_id WHERE 1=1`
	var args []any
	if filter.Date != "" {
		query += " AND a.date = ?"
		args = append(args, filter.Date)
	}
	if filter.MemberID > 0 {
		query += " AND a.member_id = ?"
		args = append(args, filter.MemberID)
	}
	query += " ORDER BY a.date DESC, m.name, a.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(&a.ID, &a.MemberID, &a.MemberName, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
