package client

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/machine"
	"gymdesk/internal/domain/member"
)

var statsToday = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

// TestCountMembers tests status buckets around the expiry boundaries.
func TestCountMembers(t *testing.T) {
	members := []member.Member{
		{ID: 1, ExpiryDate: "2026-03-10"},  // last day, active and expiring
		{ID: 2, ExpiryDate: "2026-03-17"},  // seventh day, still expiring soon
		{ID: 3, ExpiryDate: "2026-03-18"},  // active
		{ID: 4, ExpiryDate: "2026-03-09"},  // expired yesterday
		{ID: -1, ExpiryDate: "2026-04-10"}, // pending server id
	}
	got := CountMembers(members, statsToday)
	want := MemberCounts{Total: 5, Active: 4, Expired: 1, ExpiringSoon: 2}
	if got != want {
		t.Errorf("CountMembers = %+v, want %+v", got, want)
	}
	if got := CountMembers(nil, statsToday); got != (MemberCounts{}) {
		t.Errorf("empty roster = %+v", got)
	}
}

// TestTotals tests income, expense and balance over the finance rows.
func TestTotals(t *testing.T) {
	s := State{Finances: []finance.Finance{
		{Type: finance.TypeIncome, Amount: decimal.RequireFromString("1500")},
		{Type: finance.TypeIncome, Amount: decimal.RequireFromString("0.10")},
		{Type: finance.TypeExpense, Amount: decimal.RequireFromString("400.60")},
	}}
	got := Totals(s)
	if got.Income.StringFixed(2) != "1500.10" || got.Expense.StringFixed(2) != "400.60" || got.Balance.StringFixed(2) != "1099.50" {
		t.Errorf("Totals = income %s expense %s balance %s", got.Income, got.Expense, got.Balance)
	}
}

// TestBirthdaysToday tests month/day matching and tolerance of missing dates of birth.
func TestBirthdaysToday(t *testing.T) {
	members := []member.Member{
		{Name: "Asha", DOB: "1995-03-10"},
		{Name: "Vikram", DOB: "1990-03-11"},
		{Name: "Meera"},
		{Name: "Kiran", DOB: "not a date"},
	}
	got := BirthdaysToday(members, statsToday)
	if len(got) != 1 || got[0] != "Asha" {
		t.Errorf("BirthdaysToday = %v, want [Asha]", got)
	}
}

// TestMaintenanceDue tests that only machines with an arrived date are listed.
func TestMaintenanceDue(t *testing.T) {
	s := State{Machines: []machine.Machine{
		{Name: "Treadmill", NextMaintenance: "2026-03-01"},
		{Name: "Rower", NextMaintenance: "2026-03-10"},
		{Name: "Bike", NextMaintenance: "2026-04-01"},
		{Name: "Smith"},
	}}
	got := MaintenanceDue(s, statsToday)
	if len(got) != 2 || got[0] != "Treadmill" || got[1] != "Rower" {
		t.Errorf("MaintenanceDue = %v", got)
	}
}
