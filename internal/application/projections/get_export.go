package projections

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"

	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	financeStore "gymdesk/internal/adapters/storage/finance"
	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/domain/attendance"
	"gymdesk/internal/domain/export"
	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// ExportMemberStore defines the member store interface needed by the export.
type ExportMemberStore interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
}

// ExportTrainerStore defines the trainer store interface needed by the export.
type ExportTrainerStore interface {
	List(ctx context.Context) ([]trainer.Trainer, error)
}

// ExportFinanceStore defines the finance store interface needed by the export.
type ExportFinanceStore interface {
	List(ctx context.Context, filter financeStore.ListFilter) ([]finance.Finance, error)
}

// ExportAttendanceStore defines the attendance store interface needed by the export.
type ExportAttendanceStore interface {
	List(ctx context.Context, filter attendanceStore.ListFilter) ([]attendance.Attendance, error)
}

// ExportQuery carries query parameters.
type ExportQuery struct {
	Request export.Request
	Now     time.Time
}

// ExportDeps holds dependencies for Export.
type ExportDeps struct {
	Members    ExportMemberStore
	Trainers   ExportTrainerStore
	Finances   ExportFinanceStore
	Attendance ExportAttendanceStore
}

// ExportResult is a ready-to-serve attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// QueryExport renders one table as a CSV or XLSX attachment.
// PRE: query.Request.Type names an exportable table
// POST: Returns a header row plus one record per stored row
func QueryExport(ctx context.Context, query ExportQuery, deps ExportDeps) (ExportResult, error) {
	req := query.Request
	if err := req.Validate(); err != nil {
		return ExportResult{}, err
	}

	var rows any
	var err error
	switch req.Type {
	case export.TypeMembers:
		rows, err = memberRows(ctx, query.Now, deps)
	case export.TypeFinances:
		rows, err = financeRows(ctx, deps)
	case export.TypeAttendance:
		rows, err = attendanceRows(ctx, deps)
	}
	if err != nil {
		return ExportResult{}, err
	}

	body, err := req.Encode(rows)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Filename: req.Filename(query.Now), ContentType: req.ContentType(), Body: body}, nil
}

func memberRows(ctx context.Context, t time.Time, deps ExportDeps) ([]export.MemberRow, error) {
	members, err := deps.Members.List(ctx, memberStore.ListFilter{Today: t.Format(member.DateLayout)})
	if err != nil {
		return nil, err
	}
	trainers, err := deps.Trainers.List(ctx)
	if err != nil {
		return nil, err
	}
	names := lo.SliceToMap(trainers, func(tr trainer.Trainer) (int64, string) { return tr.ID, tr.Name })

	return lo.Map(members, func(m member.Member, _ int) export.MemberRow {
		row := export.MemberRow{
			ID:         m.ID,
			Name:       m.Name,
			Phone:      m.Phone,
			Email:      m.Email,
			DOB:        m.DOB,
			PlanType:   m.PlanType,
			Amount:     m.Amount.StringFixed(2),
			StartDate:  m.StartDate,
			ExpiryDate: m.ExpiryDate,
			Status:     m.Status,
		}
		if m.TrainerID != nil {
			row.Trainer = names[*m.TrainerID]
		}
		return row
	}), nil
}

func financeRows(ctx context.Context, deps ExportDeps) ([]export.FinanceRow, error) {
	rows, err := deps.Finances.List(ctx, financeStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(f finance.Finance, _ int) export.FinanceRow {
		row := export.FinanceRow{
			ID:          f.ID,
			Date:        f.Date,
			Type:        f.Type,
			Category:    f.Category,
			Amount:      f.Amount.StringFixed(2),
			Description: f.Description,
		}
		if f.MemberID != nil {
			row.MemberID = strconv.FormatInt(*f.MemberID, 10)
		}
		return row
	}), nil
}

func attendanceRows(ctx context.Context, deps ExportDeps) ([]export.AttendanceRow, error) {
	rows, err := deps.Attendance.List(ctx, attendanceStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(a attendance.Attendance, _ int) export.AttendanceRow {
		return export.AttendanceRow{ID: a.ID, Date: a.Date, MemberID: a.MemberID, MemberName: a.MemberName, Status: a.Status}
	}), nil
}
