package client

import (
	"time"

	"github.com/samber/lo"

	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/machine"
	"gymdesk/internal/domain/member"
)

// MemberCounts summarizes the members collection for one day.
type MemberCounts struct {
	Total        int
	Active       int
	Expired      int
	ExpiringSoon int
}

// CountMembers derives status counts from expiry dates as of today.
// Rows still waiting for a server id are included.
func CountMembers(members []member.Member, today time.Time) MemberCounts {
	active := lo.CountBy(members, func(m member.Member) bool {
		return m.StatusOn(today) == member.StatusActive
	})
	return MemberCounts{
		Total:        len(members),
		Active:       active,
		Expired:      len(members) - active,
		ExpiringSoon: lo.CountBy(members, func(m member.Member) bool { return m.IsExpiringSoon(today) }),
	}
}

// Totals sums every finance row in the state.
func Totals(s State) finance.Totals {
	return finance.Sum(s.Finances)
}

// BirthdaysToday returns the names of members born on today's month and day.
func BirthdaysToday(members []member.Member, today time.Time) []string {
	return lo.FilterMap(members, func(m member.Member, _ int) (string, bool) {
		return m.Name, m.HasBirthdayOn(today)
	})
}

// MaintenanceDue returns the names of machines whose next maintenance date has arrived.
func MaintenanceDue(s State, today time.Time) []string {
	due := lo.Filter(s.Machines, func(m machine.Machine, _ int) bool { return m.MaintenanceDue(today) })
	return lo.Map(due, func(m machine.Machine, _ int) string { return m.Name })
}
