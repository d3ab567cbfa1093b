package finance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// CategoryMembership is the category used for fees recorded alongside a new member.
const CategoryMembership = "Membership"

// Domain errors
var (
	ErrInvalidType   = errors.New("finance type must be Income or Expense")
	ErrInvalidAmount = errors.New("finance amount must be greater than zero")
	ErrInvalidDate   = errors.New("finance date must use YYYY-MM-DD")
	ErrEmptyCategory = errors.New("finance category is required")
	ErrInvalidMember = errors.New("finance member_id must be positive")
	ErrRangeReversed = errors.New("finance range end is before start")
)

func init() {
	// Amounts travel as JSON numbers, matching what the dashboard client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// Finance is a single income or expense transaction.
type Finance struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	MemberID    *int64          `json:"member_id"`
}

// Validate checks if the Finance has valid data.
// PRE: Finance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Type is Income or Expense, Amount > 0, Date parses
func (f *Finance) Validate() error {
	if f.Type != TypeIncome && f.Type != TypeExpense {
		return ErrInvalidType
	}
	if !f.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", f.Date); err != nil {
		return ErrInvalidDate
	}
	if f.Category == "" {
		return ErrEmptyCategory
	}
	if f.MemberID != nil && *f.MemberID <= 0 {
		return ErrInvalidMember
	}
	return nil
}

// Signed returns the amount as a signed contribution to the balance.
func (f *Finance) Signed() decimal.Decimal {
	if f.Type == TypeExpense {
		return f.Amount.Neg()
	}
	return f.Amount
}

// Totals summarises a set of transactions.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Sum totals the given transactions.
// POST: Balance == Income - Expense
func Sum(rows []Finance) Totals {
	var t Totals
	for i := range rows {
		switch rows[i].Type {
		case TypeIncome:
			t.Income = t.Income.Add(rows[i].Amount)
		case TypeExpense:
			t.Expense = t.Expense.Add(rows[i].Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}
