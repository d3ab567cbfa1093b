package web

import (
	"net/http"

	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/message"
	"gymdesk/internal/domain/trainer"
)

// Portal handlers only ever read the member id from the session, never from the request.

// portalGet authorizes a member GET and returns the session member id.
func portalGet(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sess, ok := requireMember(w, r)
	if !ok {
		return 0, false
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return 0, false
	}
	return sess.MemberID, true
}

// handlePortalProfile handles GET /api/portal/profile: the member row and assigned trainer.
func handlePortalProfile(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	m, err := stores.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		storeError(w, err)
		return
	}
	resp := struct {
		Member  member.Member    `json:"member"`
		Trainer *trainer.Trainer `json:"trainer"`
	}{Member: m}
	if m.TrainerID != nil {
		t, err := stores.TrainerStore.GetByID(ctx, *m.TrainerID)
		if err == nil {
			resp.Trainer = &t
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePortalAttendance handles GET /api/portal/attendance
func handlePortalAttendance(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	list, err := stores.AttendanceStore.List(r.Context(), attendanceStore.ListFilter{MemberID: memberID})
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, list)
}

// handlePortalMeasurements handles GET /api/portal/measurements
func handlePortalMeasurements(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	list, err := stores.MeasurementStore.ListByMember(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, list)
}

// handlePortalWorkouts handles GET /api/portal/workouts
func handlePortalWorkouts(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	list, err := stores.WorkoutStore.ListByMember(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, list)
}

// handlePortalDiet handles GET /api/portal/diet
func handlePortalDiet(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	list, err := stores.DietStore.ListByMember(r.Context(), memberID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, list)
}

// handlePortalReport handles GET /api/portal/report
func handlePortalReport(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	writeMemberReport(w, r, memberID)
}

// handlePortalChat handles GET and POST for /api/portal/chat. Members always post as "member".
func handlePortalChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireMember(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		listMessages(w, r, sess.MemberID)

	case http.MethodPost:
		var input struct {
			Message string `json:"message"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		postMessage(w, r, sess.MemberID, message.SenderMember, input.Message)

	default:
		methodNotAllowed(w)
	}
}

// handlePortalChatSocket handles GET /api/portal/chat/ws: a live feed of the member's own thread.
func handlePortalChatSocket(w http.ResponseWriter, r *http.Request) {
	memberID, ok := portalGet(w, r)
	if !ok {
		return
	}
	chat.serve(w, r, memberID)
}
