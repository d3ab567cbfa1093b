package projections

import (
	"context"
	"math"
	"time"

	"gymdesk/internal/adapters/storage/report"
	"gymdesk/internal/domain/member"
)

// MemberReportMemberStore defines the member store interface needed by the member report.
type MemberReportMemberStore interface {
	GetByID(ctx context.Context, id int64) (member.Member, error)
}

// MemberReportStore defines the report store interface needed by the member report.
type MemberReportStore interface {
	CountPresentForMember(ctx context.Context, memberID int64) (int, error)
	WeightRange(ctx context.Context, memberID int64) (report.WeightRange, error)
}

// GetMemberReportQuery carries query parameters.
type GetMemberReportQuery struct {
	MemberID int64
	Now      time.Time
}

// GetMemberReportDeps holds dependencies for GetMemberReport.
type GetMemberReportDeps struct {
	Members MemberReportMemberStore
	Reports MemberReportStore
}

// MemberReport carries the query result. Pointer fields are null when there is no data.
type MemberReport struct {
	Member           member.Member `json:"member"`
	PresentDays      int           `json:"present_days"`
	FirstWeight      *float64      `json:"first_weight"`
	LatestWeight     *float64      `json:"latest_weight"`
	DaysSinceJoining int           `json:"days_since_joining"`
	BMI              *float64      `json:"bmi"`
	WeightChange     *float64      `json:"weight_change"`
	AttendanceRate   float64       `json:"attendance_rate"` // percent of days since joining
}

// QueryGetMemberReport builds the progress report of one member.
// PRE: query.MemberID > 0
// POST: Returns the report; wrapped storage.ErrNotFound when the member does not exist
func QueryGetMemberReport(ctx context.Context, query GetMemberReportQuery, deps GetMemberReportDeps) (MemberReport, error) {
	m, err := deps.Members.GetByID(ctx, query.MemberID)
	if err != nil {
		return MemberReport{}, err
	}
	present, err := deps.Reports.CountPresentForMember(ctx, m.ID)
	if err != nil {
		return MemberReport{}, err
	}
	weights, err := deps.Reports.WeightRange(ctx, m.ID)
	if err != nil {
		return MemberReport{}, err
	}

	r := MemberReport{
		Member:           m,
		PresentDays:      present,
		FirstWeight:      weights.First,
		LatestWeight:     weights.Latest,
		DaysSinceJoining: m.DaysSinceJoining(query.Now),
	}
	r.AttendanceRate = round1(float64(present) / float64(r.DaysSinceJoining) * 100)
	if weights.Latest != nil {
		if bmi := member.BMI(*weights.Latest, m.Height); bmi > 0 {
			r.BMI = &bmi
		}
		if weights.First != nil {
			change := round1(*weights.Latest - *weights.First)
			r.WeightChange = &change
		}
	}
	return r, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
