package projections

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gymdesk/internal/adapters/storage/report"
	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/member"
)

// RevenueDays is the length of the trailing revenue series, today included.
const RevenueDays = 7

// DashboardStore defines the report store interface needed by the dashboard projection.
type DashboardStore interface {
	CountMembers(ctx context.Context) (int, error)
	CountActive(ctx context.Context, today string) (int, error)
	CountExpiring(ctx context.Context, from, to string) (int, error)
	CountPresentOn(ctx context.Context, date string) (int, error)
	SumFinance(ctx context.Context, typ, from, to string) (decimal.Decimal, error)
	DailyRevenue(ctx context.Context, from, to string) ([]report.DailyRevenue, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Now time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Reports DashboardStore
}

// RevenuePoint is one day of the revenue chart.
type RevenuePoint struct {
	Date    string          `json:"date"`
	Day     string          `json:"day"` // Mon, Tue, ...
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	TotalMembers   int             `json:"total_members"`
	ActiveMembers  int             `json:"active_members"`
	ExpiringSoon   int             `json:"expiring_soon"`
	TodayPresent   int             `json:"today_present"`
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
	Revenue        []RevenuePoint  `json:"revenue"`
}

// QueryGetDashboard computes the admin dashboard.
// Every figure is an independent query; they run concurrently and the first failure cancels the rest.
// PRE: query.Now is set
// POST: Returns all counts, month totals and RevenueDays revenue points ending today
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	t := query.Now
	today := t.Format(member.DateLayout)
	soon := t.AddDate(0, 0, member.ExpiringSoonDays).Format(member.DateLayout)
	month := now.With(t)
	monthStart := month.BeginningOfMonth().Format(member.DateLayout)
	monthEnd := month.EndOfMonth().Format(member.DateLayout)
	seriesStart := t.AddDate(0, 0, -(RevenueDays - 1)).Format(member.DateLayout)

	var res DashboardResult
	var daily []report.DailyRevenue
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		res.TotalMembers, err = deps.Reports.CountMembers(ctx)
		return err
	})
	g.Go(func() (err error) {
		res.ActiveMembers, err = deps.Reports.CountActive(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		res.ExpiringSoon, err = deps.Reports.CountExpiring(ctx, today, soon)
		return err
	})
	g.Go(func() (err error) {
		res.TodayPresent, err = deps.Reports.CountPresentOn(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		res.MonthlyIncome, err = deps.Reports.SumFinance(ctx, finance.TypeIncome, monthStart, monthEnd)
		return err
	})
	g.Go(func() (err error) {
		res.MonthlyExpense, err = deps.Reports.SumFinance(ctx, finance.TypeExpense, monthStart, monthEnd)
		return err
	})
	g.Go(func() (err error) {
		daily, err = deps.Reports.DailyRevenue(ctx, seriesStart, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}

	res.MonthlyIncome = res.MonthlyIncome.Round(2)
	res.MonthlyExpense = res.MonthlyExpense.Round(2)
	res.Revenue = make([]RevenuePoint, 0, len(daily))
	for _, d := range daily {
		res.Revenue = append(res.Revenue, RevenuePoint{
			Date:    d.Date,
			Day:     weekdayLabel(d.Date),
			Income:  d.Income.Round(2),
			Expense: d.Expense.Round(2),
		})
	}
	return res, nil
}

func weekdayLabel(date string) string {
	d, err := time.Parse(member.DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()[:3]
}
