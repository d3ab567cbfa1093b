package measurement

import (
	"context"
	"testing"

	"gymdesk/internal/adapters/storage/storagetest"
	domain "gymdesk/internal/domain/measurement"
)

// TestSQLiteStore_ListByMember verifies rows come back oldest first and scoped to the member.
func TestSQLiteStore_ListByMember(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.Exec(t, db,
		`INSERT INTO member (id, name, phone, start_date, expiry_date) VALUES (1, 'Asha', '1', '2026-01-01', '2026-02-01')`,
		`INSERT INTO member (id, name, phone, start_date, expiry_date) VALUES (2, 'Vikram', '2', '2026-01-01', '2026-02-01')`,
	)
	s := NewSQLiteStore(db)
	ctx := context.Background()

	for _, m := range []domain.Measurement{
		{MemberID: 1, Date: "2026-03-01", Weight: 71.5, Waist: 82},
		{MemberID: 1, Date: "2026-01-01", Weight: 74, Notes: "baseline"},
		{MemberID: 2, Date: "2026-02-01", Weight: 90},
	} {
		if err := s.Create(ctx, &m); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if m.ID == 0 {
			t.Fatal("Create did not assign an id")
		}
	}

	got, err := s.ListByMember(ctx, 1)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Date != "2026-01-01" || got[0].Notes != "baseline" || got[1].Waist != 82 {
		t.Errorf("rows = %+v", got)
	}
}

// TestSQLiteStore_CascadeOnMemberDelete verifies measurements go with their member.
func TestSQLiteStore_CascadeOnMemberDelete(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.Exec(t, db,
		`INSERT INTO member (id, name, phone, start_date, expiry_date) VALUES (1, 'Asha', '1', '2026-01-01', '2026-02-01')`,
		`INSERT INTO measurement (member_id, date, weight) VALUES (1, '2026-01-01', 70)`,
		`DELETE FROM member WHERE id = 1`,
	)
	got, err := NewSQLiteStore(db).ListByMember(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d rows after member delete, want 0", len(got))
	}
}
