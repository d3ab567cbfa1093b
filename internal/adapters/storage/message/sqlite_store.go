package message

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/message"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new message Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create appends a message to its member's thread.
// PRE: entity has been validated
// POST: Row persisted and value.ID assigned
func (s *SQLiteStore) Create(ctx context.Context, m *domain.Message) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_message (member_id, sender, message, created_at) VALUES (?, ?, ?, ?)",
		m.MemberID, m.Sender, m.Body, m.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

// ListByMember returns a thread oldest first.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID int64) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, sender, message, created_at FROM chat_message WHERE member_id = ? ORDER BY created_at, id",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Message
	for rows.Next() {
		var m domain.Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.MemberID, &m.Sender, &m.Body, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		results = append(results, m)
	}
	return results, rows.Err()
}
