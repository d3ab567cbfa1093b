package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"gymdesk/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new report Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) scalar(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("report query: %w", err)
	}
	return n, nil
}

// CountMembers returns the number of member rows.
func (s *SQLiteStore) CountMembers(ctx context.Context) (int, error) {
	return s.scalar(ctx, "SELECT COUNT(*) FROM member")
}

// CountActive returns members whose expiry is today or later.
func (s *SQLiteStore) CountActive(ctx context.Context, today string) (int, error) {
	return s.scalar(ctx, "SELECT COUNT(*) FROM member WHERE expiry_date >= ?", today)
}

// CountExpiring returns members expiring within [from, to].
func (s *SQLiteStore) CountExpiring(ctx context.Context, from, to string) (int, error) {
	return s.scalar(ctx, "SELECT COUNT(*) FROM member WHERE expiry_date >= ? AND expiry_date <= ?", from, to)
}

// CountPresentOn returns the number of present rows for a day.
func (s *SQLiteStore) CountPresentOn(ctx context.Context, date string) (int, error) {
	return s.scalar(ctx, "SELECT COUNT(*) FROM attendance WHERE date = ? AND status = 'present'", date)
}

// CountPresentForMember returns how many days a member has been marked present.
func (s *SQLiteStore) CountPresentForMember(ctx context.Context, memberID int64) (int, error) {
	return s.scalar(ctx, "SELECT COUNT(*) FROM attendance WHERE member_id = ? AND status = 'present'", memberID)
}

// SumFinance totals transactions of one type within [from, to].
// POST: Returns zero when no rows match
func (s *SQLiteStore) SumFinance(ctx context.Context, typ, from, to string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM finance WHERE type = ? AND date >= ? AND date <= ?",
		typ, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum finance: %w", err)
	}
	return total, nil
}

// DailyRevenue returns one entry per day in [from, to], zero-filled for days without transactions.
// PRE: from <= to, both YYYY-MM-DD
// POST: len(result) == days in range, ordered by date
func (s *SQLiteStore) DailyRevenue(ctx context.Context, from, to string) ([]DailyRevenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE days(d) AS (
			SELECT date(?)
			UNION ALL
			SELECT date(d, '+1 day') FROM days WHERE d < date(?)
		)
		SELECT days.d,
			COALESCE(SUM(CASE WHEN f.type = 'Income' THEN f.amount END), 0),
			COALESCE(SUM(CASE WHEN f.type = 'Expense' THEN f.amount END), 0)
		FROM days LEFT JOIN finance f ON f.date = days.d
		GROUP BY days.d
		ORDER BY days.d`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	defer rows.Close()

	var results []DailyRevenue
	for rows.Next() {
		var r DailyRevenue
		if err := rows.Scan(&r.Date, &r.Income, &r.Expense); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// WeightRange returns the earliest and latest non-zero weights for a member.
func (s *SQLiteStore) WeightRange(ctx context.Context, memberID int64) (WeightRange, error) {
	var wr WeightRange
	pick := func(order string) (*float64, error) {
		var w float64
		err := s.db.QueryRowContext(ctx,
			"SELECT weight FROM measurement WHERE member_id = ? AND weight > 0 ORDER BY date "+order+", id "+order+" LIMIT 1",
			memberID).Scan(&w)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &w, nil
	}
	var err error
	if wr.First, err = pick("ASC"); err != nil {
		return wr, fmt.Errorf("first weight: %w", err)
	}
	if wr.Latest, err = pick("DESC"); err != nil {
		return wr, fmt.Errorf("latest weight: %w", err)
	}
	return wr, nil
}
