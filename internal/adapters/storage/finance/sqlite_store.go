package finance

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/finance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new finance Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a transaction.
// PRE: entity has been validated
// POST: Row persisted and value.ID assigned
func (s *SQLiteStore) Create(ctx context.Context, f *domain.Finance) error {
	var memberID any
	if f.MemberID != nil {
		memberID = *f.MemberID
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO finance (type, amount, date, category, description, member_id) VALUES (?, ?, ?, ?, ?, ?)",
		f.Type, f.Amount, f.Date, f.Category, f.Description, memberID)
	if err != nil {
		return fmt.Errorf("insert finance: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

// Delete removes a transaction.
// PRE: id > 0
// POST: Row removed, or storage.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM finance WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete finance %d: %w", id, err)
	}
	return storage.RequireAffected(res, "finance", id)
}

// List returns transactions newest first.
// PRE: filter fields are optional
// POST: Rows match every non-zero filter field
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Finance, error) {
	query := "SELECT id, type, amount, date, category, description, member_id FROM finance WHERE 1=1"
	var args []any
	if filter.From != "" {
		query += " AND date >= ?"
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += " AND date <= ?"
		args = append(args, filter.To)
	}
	if filter.MemberID > 0 {
		query += " AND member_id = ?"
		args = append(args, filter.MemberID)
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Finance
	for rows.Next() {
		var f domain.Finance
		var memberID sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Type, &f.Amount, &f.Date, &f.Category, &f.Description, &memberID); err != nil {
			return nil, err
		}
		if memberID.Valid {
			id := memberID.Int64
			f.MemberID = &id
		}
		results = append(results, f)
	}
	return results, rows.Err()
}
