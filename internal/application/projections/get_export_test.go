package projections

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	financeStore "gymdesk/internal/adapters/storage/finance"
	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/adapters/storage/storagetest"
	trainerStore "gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/domain/export"
)

func exportDeps(t *testing.T) ExportDeps {
	db := storagetest.Open(t)
	storagetest.Exec(t, db,
		"INSERT INTO trainer (id, name) VALUES (1, 'Ravi')",
		"INSERT INTO member (id, name, phone, plan_type, amount, start_date, expiry_date, trainer_id) VALUES (1, 'Asha, Jr.', '1', 'Monthly', 1500, '2026-03-01', '2026-04-01', 1)",
		"INSERT INTO member (id, name, phone, start_date, expiry_date) VALUES (2, 'Bilal', '2', '2025-01-01', '2025-02-01')",
		"INSERT INTO finance (type, amount, date, category, member_id) VALUES ('Income', 1500, '2026-03-01', 'Membership', 1)",
		"INSERT INTO attendance (member_id, date, status) VALUES (1, '2026-03-02', 'present')",
	)
	return ExportDeps{
		Members:    memberStore.NewSQLiteStore(db),
		Trainers:   trainerStore.NewSQLiteStore(db),
		Finances:   financeStore.NewSQLiteStore(db),
		Attendance: attendanceStore.NewSQLiteStore(db),
	}
}

// TestQueryExport_CSV tests the CSV attachment for each table.
func TestQueryExport_CSV(t *testing.T) {
	deps := exportDeps(t)
	tests := []struct {
		typ      string
		filename string
		lines    []string
	}{
		{
			typ:      export.TypeMembers,
			filename: "members_2026-03-10.csv",
			lines: []string{
				"id,name,phone,email,dob,plan_type,amount,start_date,expiry_date,status,trainer",
				`1,"Asha, Jr.",1,,,Monthly,1500.00,2026-03-01,2026-04-01,active,Ravi`,
				"2,Bilal,2,,,,0.00,2025-01-01,2025-02-01,expired,",
			},
		},
		{
			typ:      export.TypeFinances,
			filename: "finances_2026-03-10.csv",
			lines: []string{
				"id,date,type,category,amount,description,member_id",
				"1,2026-03-01,Income,Membership,1500.00,,1",
			},
		},
		{
			typ:      export.TypeAttendance,
			filename: "attendance_2026-03-10.csv",
			lines: []string{
				"id,date,member_id,member_name,status",
				`1,2026-03-02,1,"Asha, Jr.",present`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, err := QueryExport(context.Background(), ExportQuery{Request: export.Request{Type: tt.typ}, Now: tuesday}, deps)
			if err != nil {
				t.Fatalf("QueryExport: %v", err)
			}
			if got.Filename != tt.filename {
				t.Errorf("Filename = %q, want %q", got.Filename, tt.filename)
			}
			if !strings.HasPrefix(got.ContentType, "text/csv") {
				t.Errorf("ContentType = %q", got.ContentType)
			}
			lines := strings.Split(strings.TrimSpace(string(got.Body)), "\n")
			if len(lines) != len(tt.lines) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.lines), got.Body)
			}
			for i := range lines {
				if lines[i] != tt.lines[i] {
					t.Errorf("line %d = %q, want %q", i, lines[i], tt.lines[i])
				}
			}
		})
	}
}

// TestQueryExport_XLSX tests the spreadsheet carries the same columns.
func TestQueryExport_XLSX(t *testing.T) {
	got, err := QueryExport(context.Background(), ExportQuery{Request: export.Request{Type: export.TypeFinances, Format: export.FormatXLSX}, Now: tuesday}, exportDeps(t))
	if err != nil {
		t.Fatalf("QueryExport: %v", err)
	}
	if got.Filename != "finances_2026-03-10.xlsx" {
		t.Errorf("Filename = %q", got.Filename)
	}
	f, err := excelize.OpenReader(bytes.NewReader(got.Body))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.TypeFinances)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[1][4] != "1500.00" {
		t.Errorf("rows = %v", rows)
	}
}

// TestQueryExport_InvalidType tests request validation.
func TestQueryExport_InvalidType(t *testing.T) {
	_, err := QueryExport(context.Background(), ExportQuery{Request: export.Request{Type: "trainers"}, Now: tuesday}, ExportDeps{})
	if !errors.Is(err, export.ErrInvalidType) {
		t.Errorf("err = %v, want ErrInvalidType", err)
	}
}
