package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/adapters/storage/storagetest"
	domain "gymdesk/internal/domain/member"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(storagetest.Open(t))
	s.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }
	return s
}

func saveMember(t *testing.T, s *SQLiteStore, name, expiry string) domain.Member {
	t.Helper()
	m := domain.Member{
		Name: name, Phone: "98" + name, DOB: "1990-01-01", PlanType: domain.PlanMonthly,
		Amount: decimal.NewFromInt(1000), StartDate: "2026-01-01", ExpiryDate: expiry,
	}
	if err := s.Save(context.Background(), &m); err != nil {
		t.Fatalf("Save(%s): %v", name, err)
	}
	return m
}

// TestSQLiteStore_SaveAndGet verifies insert assigns an id and round-trips every column.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := saveMember(t, s, "Asha", "2026-04-01")
	if m.ID == 0 {
		t.Fatal("Save did not assign an id")
	}
	got, err := s.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Asha" || got.ExpiryDate != "2026-04-01" || !got.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", got.Status)
	}
	if got.TrainerID != nil {
		t.Errorf("trainer id = %v, want nil", *got.TrainerID)
	}
}

// TestSQLiteStore_UpdateMissing verifies updates and deletes of unknown ids report ErrNotFound.
func TestSQLiteStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := domain.Member{ID: 42, Name: "Ghost", Phone: "1", StartDate: "2026-01-01", ExpiryDate: "2026-02-01"}
	if err := s.Save(ctx, &m); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Save missing = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete missing = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID(ctx, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID missing = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_ListOrdering verifies active members come first, each group by ascending expiry.
func TestSQLiteStore_ListOrdering(t *testing.T) {
	s := newTestStore(t)
	saveMember(t, s, "ExpiredLate", "2026-03-05")
	saveMember(t, s, "ActiveLate", "2026-06-01")
	saveMember(t, s, "ExpiredEarly", "2026-02-01")
	saveMember(t, s, "ActiveToday", "2026-03-10")
	saveMember(t, s, "ActiveSoon", "2026-03-12")

	got, err := s.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"ActiveToday", "ActiveSoon", "ActiveLate", "ExpiredEarly", "ExpiredLate"}
	if len(got) != len(want) {
		t.Fatalf("got %d members, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, name)
		}
	}
	if got[2].Status != domain.StatusActive || got[3].Status != domain.StatusExpired {
		t.Errorf("statuses = %s/%s, want active/expired", got[2].Status, got[3].Status)
	}
}

// TestSQLiteStore_ListExpiring verifies the expiring window filter.
func TestSQLiteStore_ListExpiring(t *testing.T) {
	s := newTestStore(t)
	saveMember(t, s, "Past", "2026-03-09")
	saveMember(t, s, "Inside", "2026-03-15")
	saveMember(t, s, "Outside", "2026-03-30")

	got, err := s.List(context.Background(), ListFilter{ExpiringBy: "2026-03-17"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Inside" {
		t.Errorf("got %+v, want only Inside", got)
	}
}

// TestSQLiteStore_GetByLogin verifies portal credential lookup.
func TestSQLiteStore_GetByLogin(t *testing.T) {
	s := newTestStore(t)
	m := saveMember(t, s, "Asha", "2026-04-01")

	got, err := s.GetByLogin(context.Background(), m.Phone, "1990-01-01")
	if err != nil {
		t.Fatalf("GetByLogin: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("id = %d, want %d", got.ID, m.ID)
	}
	if _, err := s.GetByLogin(context.Background(), m.Phone, "1991-01-01"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("wrong dob = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_CountByTrainer verifies assignment counting.
func TestSQLiteStore_CountByTrainer(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.Exec(t, db, "INSERT INTO trainer (id, name) VALUES (7, 'Ravi')")
	s := NewSQLiteStore(db)
	tid := int64(7)
	m := domain.Member{Name: "Asha", Phone: "1", StartDate: "2026-01-01", ExpiryDate: "2026-02-01", TrainerID: &tid}
	if err := s.Save(context.Background(), &m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	n, err := s.CountByTrainer(context.Background(), 7)
	if err != nil {
		t.Fatalf("CountByTrainer: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
