package attendance

import (
	"context"
	"testing"

	"gymdesk/internal/adapters/storage/storagetest"
	domain "gymdesk/internal/domain/attendance"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := storagetest.Open(t)
	storagetest.Exec(t, db,
		"INSERT INTO member (id, name, phone, start_date, expiry_date) VALUES (1, 'Asha', '1', '2026-01-01', '2026-12-31')",
		"INSERT INTO member (id, name, phone, start_date, expiry_date) VALUES (2, 'Bilal', '2', '2026-01-01', '2026-12-31')",
	)
	return NewSQLiteStore(db)
}

// TestSQLiteStore_UpsertKeepsOneRow verifies toggling the same day replaces the status.
func TestSQLiteStore_UpsertKeepsOneRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := domain.Attendance{MemberID: 1, Date: "2026-03-01", Status: domain.StatusPresent}
	if err := s.Upsert(ctx, &first); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second := domain.Attendance{MemberID: 1, Date: "2026-03-01", Status: domain.StatusAbsent}
	if err := s.Upsert(ctx, &second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}

	rows, err := s.List(ctx, ListFilter{MemberID: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Status != domain.StatusAbsent || rows[0].MemberName != "Asha" {
		t.Errorf("got %+v, want absent row for Asha", rows[0])
	}
}

// TestSQLiteStore_ListByDate verifies the date filter and ordering.
func TestSQLiteStore_ListByDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, a := range []domain.Attendance{
		{MemberID: 2, Date: "2026-03-01", Status: domain.StatusPresent},
		{MemberID: 1, Date: "2026-03-01", Status: domain.StatusPresent},
		{MemberID: 1, Date: "2026-03-02", Status: domain.StatusPresent},
	} {
		a := a
		if err := s.Upsert(ctx, &a); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	rows, err := s.List(ctx, ListFilter{Date: "2026-03-01"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 || rows[0].MemberName != "Asha" || rows[1].MemberName != "Bilal" {
		t.Errorf("got %+v, want Asha then Bilal", rows)
	}
}
