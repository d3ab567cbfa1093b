package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/export"
)

// handleDashboard handles GET /api/dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{Now: timeNow()}, projections.GetDashboardDeps{
		Reports: stores.ReportStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeMemberReport(w http.ResponseWriter, r *http.Request, memberID int64) {
	result, err := projections.QueryGetMemberReport(r.Context(), projections.GetMemberReportQuery{
		MemberID: memberID,
		Now:      timeNow(),
	}, projections.GetMemberReportDeps{
		Members: stores.MemberStore,
		Reports: stores.ReportStore,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReports handles GET /api/reports?id
func handleReports(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, err := queryID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}
	writeMemberReport(w, r, id)
}

// handleExport handles GET /api/export?type=members|finances|attendance[&format=csv|xlsx]
func handleExport(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryExport(r.Context(), projections.ExportQuery{
		Request: export.Request{Type: q.Get("type"), Format: q.Get("format")},
		Now:     timeNow(),
	}, projections.ExportDeps{
		Members:    stores.MemberStore,
		Trainers:   stores.TrainerStore,
		Finances:   stores.FinanceStore,
		Attendance: stores.AttendanceStore,
	})
	if errors.Is(err, export.ErrInvalidType) || errors.Is(err, export.ErrInvalidFormat) {
		badRequest(w, err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Body)
}

// handleReminders handles POST /api/reminders {days}; days defaults to the configured window.
func handleReminders(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var input struct {
		Days *int `json:"days"`
	}
	if r.ContentLength != 0 {
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
	}
	days := options.ReminderDays
	if input.Days != nil {
		days = *input.Days
	}

	result, err := orchestrators.ExecuteSendReminders(r.Context(), orchestrators.SendRemindersInput{
		Days:    days,
		Now:     timeNow(),
		GymName: options.GymName,
		ReplyTo: options.ReplyTo,
	}, orchestrators.SendRemindersDeps{
		MemberStore: stores.MemberStore,
		Sender:      options.EmailSender,
	})
	if errors.Is(err, orchestrators.ErrInvalidReminderWindow) {
		badRequest(w, err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReset handles POST /api/reset {"confirm":"RESET"}
func handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var input struct {
		Confirm string `json:"confirm"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}
	err := orchestrators.ExecuteResetData(r.Context(), input.Confirm, orchestrators.ResetDataDeps{ResetAll: stores.ResetAll})
	if errors.Is(err, orchestrators.ErrResetNotConfirmed) {
		badRequest(w, err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	slog.Warn("admin_event", "event", "reset", "session_id", sess.ID)
	writeSuccess(w)
}
