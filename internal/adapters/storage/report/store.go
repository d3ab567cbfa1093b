package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// DailyRevenue is the income and expense total for one calendar day.
type DailyRevenue struct {
	Date    string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// WeightRange holds the first and most recent recorded weights of a member.
// Both are nil when the member has no weighted measurement.
type WeightRange struct {
	First  *float64
	Latest *float64
}

// Store answers the scalar and series queries behind the dashboard and member reports.
type Store interface {
	CountMembers(ctx context.Context) (int, error)
	CountActive(ctx context.Context, today string) (int, error)
	CountExpiring(ctx context.Context, from, to string) (int, error)
	CountPresentOn(ctx context.Context, date string) (int, error)
	CountPresentForMember(ctx context.Context, memberID int64) (int, error)
	SumFinance(ctx context.Context, typ, from, to string) (decimal.Decimal, error)
	DailyRevenue(ctx context.Context, from, to string) ([]DailyRevenue, error)
	WeightRange(ctx context.Context, memberID int64) (WeightRange, error)
}
