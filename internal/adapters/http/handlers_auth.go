package web

import (
	"errors"
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
)

// handleLogin handles POST /api/auth/login for the owner ({pin}) and members ({phone, dob}).
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !loginLimiter.Allow(middleware.ClientIP(r)) {
		middleware.WriteError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var input struct {
		PIN   string `json:"pin"`
		Phone string `json:"phone"`
		DOB   string `json:"dob"`
	}
	if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		PIN:   input.PIN,
		Phone: input.Phone,
		DOB:   input.DOB,
	}, orchestrators.LoginDeps{
		AdminPINHash: options.AdminPINHash,
		MemberStore:  stores.MemberStore,
	})
	switch {
	case errors.Is(err, orchestrators.ErrMissingCredentials):
		badRequest(w, err)
		return
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	token, err := sessions.Issue(result.Role, result.MemberID, result.Name)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"role":      result.Role,
		"member_id": result.MemberID,
		"name":      result.Name,
	})
}

// handleLogout handles POST /api/auth/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	middleware.ClearSessionCookie(w)
	writeSuccess(w)
}

// handleVerify handles GET /api/auth/verify and returns the session identity.
func handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
