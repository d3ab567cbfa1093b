package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/member"
)

const selectColumns = "SELECT id, name, phone, email, dob, photo, height, plan_type, amount, start_date, expiry_date, trainer_id FROM member"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new member Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(sc scanner, today time.Time) (domain.Member, error) {
	var m domain.Member
	var trainerID sql.NullInt64
	err := sc.Scan(
		&m.ID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.DOB,
		&m.Photo,
		&m.Height,
		&m.PlanType,
		&m.Amount,
		&m.StartDate,
		&m.ExpiryDate,
		&trainerID,
	)
	if err != nil {
		return domain.Member{}, err
	}
	if trainerID.Valid {
		id := trainerID.Int64
		m.TrainerID = &id
	}
	m.Status = m.StatusOn(today)
	return m, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id > 0
// POST: Returns the entity with derived Status, or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	m, err := scanMember(row, s.now())
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member %d: %w", id, storage.ErrNotFound)
	}
	return m, err
}

// GetByLogin retrieves the member matching a portal login.
// PRE: phone and dob are non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByLogin(ctx context.Context, phone, dob string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE phone = ? AND dob = ? ORDER BY id LIMIT 1", phone, dob)
	m, err := scanMember(row, s.now())
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member login: %w", storage.ErrNotFound)
	}
	return m, err
}

// Save persists a Member. A zero ID inserts and assigns the new ID; otherwise the row is updated.
// PRE: entity has been validated
// POST: Entity is persisted; storage.ErrNotFound when updating a missing row
func (s *SQLiteStore) Save(ctx context.Context, m *domain.Member) error {
	var trainerID any
	if m.TrainerID != nil {
		trainerID = *m.TrainerID
	}

	if m.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO member (name, phone, email, dob, photo, height, plan_type, amount, start_date, expiry_date, trainer_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Name, m.Phone, m.Email, m.DOB, m.Photo, m.Height, m.PlanType, m.Amount, m.StartDate, m.ExpiryDate, trainerID,
		)
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		m.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}
	} else {
		res, err := s.db.ExecContext(ctx,
			`UPDATE member SET name = ?, phone = ?, email = ?, dob = ?, photo = ?, height = ?, plan_type = ?,
			amount = ?, start_date = ?, expiry_date = ?, trainer_id = ? WHERE id = ?`,
			m.Name, m.Phone, m.Email, m.DOB, m.Photo, m.Height, m.PlanType, m.Amount, m.StartDate, m.ExpiryDate, trainerID, m.ID,
		)
		if err != nil {
			return fmt.Errorf("update member %d: %w", m.ID, err)
		}
		if err := storage.RequireAffected(res, "member", m.ID); err != nil {
			return err
		}
	}
	m.Status = m.StatusOn(s.now())
	return nil
}

// Delete removes a Member and, by cascade, its attendance, measurements, plans and chat.
// PRE: id > 0
// POST: Row removed, or storage.ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	return storage.RequireAffected(res, "member", id)
}

// List returns members, active first, then by soonest expiry.
// PRE: filter dates, when set, use YYYY-MM-DD
// POST: Every returned member carries a Status derived for filter.Today
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	today := s.now()
	if filter.Today != "" {
		t, err := time.Parse(domain.DateLayout, filter.Today)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		today = t
	}
	todayStr := today.Format(domain.DateLayout)

	query := selectColumns + " WHERE 1=1"
	var args []any
	if filter.TrainerID > 0 {
		query += " AND trainer_id = ?"
		args = append(args, filter.TrainerID)
	}
	if filter.ExpiringBy != "" {
		query += " AND expiry_date >= ? AND expiry_date <= ?"
		args = append(args, todayStr, filter.ExpiringBy)
	}
	query += " ORDER BY (expiry_date >= ?) DESC, expiry_date ASC, id ASC"
	args = append(args, todayStr)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		m, err := scanMember(rows, today)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// CountByTrainer returns how many members are assigned to a trainer.
// PRE: trainerID > 0
// POST: Returns count >= 0
func (s *SQLiteStore) CountByTrainer(ctx context.Context, trainerID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member WHERE trainer_id = ?", trainerID).Scan(&n)
	return n, err
}
