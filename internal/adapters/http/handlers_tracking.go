package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/adapters/storage"
	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	financeStore "gymdesk/internal/adapters/storage/finance"
	"gymdesk/internal/domain/attendance"
	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/measurement"
	"gymdesk/internal/domain/member"
)

// handleAttendance handles GET ?date or ?member_id and POST (upsert by member and date) for /api/attendance
func handleAttendance(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		filter := attendanceStore.ListFilter{Date: q.Get("date")}
		if q.Get("member_id") != "" {
			id, err := queryID(r, "member_id")
			if err != nil {
				badRequest(w, err)
				return
			}
			filter.MemberID = id
		}
		if filter.Date != "" {
			if _, err := time.Parse(member.DateLayout, filter.Date); err != nil {
				badRequest(w, attendance.ErrInvalidDate)
				return
			}
		}
		if filter.Date == "" && filter.MemberID == 0 {
			filter.Date = today()
		}
		list, err := stores.AttendanceStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input struct {
			MemberID int64  `json:"member_id"`
			Date     string `json:"date"`
			Status   string `json:"status"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		if input.Date == "" {
			input.Date = today()
		}
		a := attendance.Attendance{MemberID: input.MemberID, Date: input.Date, Status: input.Status}
		if err := a.Validate(); err != nil {
			badRequest(w, err)
			return
		}
		if _, err := stores.MemberStore.GetByID(ctx, a.MemberID); err != nil {
			storeError(w, err)
			return
		}
		if err := stores.AttendanceStore.Upsert(ctx, &a); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"id": a.ID})

	default:
		methodNotAllowed(w)
	}
}

// handleMeasurements handles GET ?member_id and POST for /api/measurements
func handleMeasurements(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		memberID, err := queryID(r, "member_id")
		if err != nil {
			badRequest(w, err)
			return
		}
		list, err := stores.MeasurementStore.ListByMember(ctx, memberID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input struct {
			MemberID int64   `json:"member_id"`
			Date     string  `json:"date"`
			Weight   float64 `json:"weight"`
			BodyFat  float64 `json:"body_fat"`
			Chest    float64 `json:"chest"`
			Waist    float64 `json:"waist"`
			Arms     float64 `json:"arms"`
			Notes    string  `json:"notes"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		if input.Date == "" {
			input.Date = today()
		}
		m := measurement.Measurement{
			MemberID: input.MemberID,
			Date:     input.Date,
			Weight:   input.Weight,
			BodyFat:  input.BodyFat,
			Chest:    input.Chest,
			Waist:    input.Waist,
			Arms:     input.Arms,
			Notes:    input.Notes,
		}
		if err := m.Validate(); err != nil {
			badRequest(w, err)
			return
		}
		if _, err := stores.MemberStore.GetByID(ctx, m.MemberID); err != nil {
			storeError(w, err)
			return
		}
		if err := stores.MeasurementStore.Create(ctx, &m); err != nil {
			internalError(w, err)
			return
		}
		writeCreated(w, m.ID)

	default:
		methodNotAllowed(w)
	}
}

// handleFinances handles GET (optional ?from&to), POST and DELETE ?id for /api/finances
func handleFinances(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		filter := financeStore.ListFilter{From: q.Get("from"), To: q.Get("to")}
		for _, d := range []string{filter.From, filter.To} {
			if d == "" {
				continue
			}
			if _, err := time.Parse(member.DateLayout, d); err != nil {
				badRequest(w, finance.ErrInvalidDate)
				return
			}
		}
		if filter.From != "" && filter.To != "" && filter.To < filter.From {
			badRequest(w, finance.ErrRangeReversed)
			return
		}
		list, err := stores.FinanceStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input struct {
			Type        string          `json:"type"`
			Amount      decimal.Decimal `json:"amount"`
			Date        string          `json:"date"`
			Category    string          `json:"category"`
			Description string          `json:"description"`
			MemberID    *int64          `json:"member_id"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		if input.Date == "" {
			input.Date = today()
		}
		f := finance.Finance{
			Type:        input.Type,
			Amount:      input.Amount,
			Date:        input.Date,
			Category:    input.Category,
			Description: input.Description,
			MemberID:    input.MemberID,
		}
		if err := f.Validate(); err != nil {
			badRequest(w, err)
			return
		}
		if f.MemberID != nil {
			if _, err := stores.MemberStore.GetByID(ctx, *f.MemberID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					badRequest(w, errors.New("member_id does not match a member"))
					return
				}
				internalError(w, err)
				return
			}
		}
		if err := stores.FinanceStore.Create(ctx, &f); err != nil {
			internalError(w, err)
			return
		}
		writeCreated(w, f.ID)

	case http.MethodDelete:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.FinanceStore.Delete(ctx, id); err != nil {
			storeError(w, err)
			return
		}
		writeSuccess(w)

	default:
		methodNotAllowed(w)
	}
}
