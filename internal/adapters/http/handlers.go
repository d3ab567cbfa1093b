package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxBodyBytes caps request bodies; a member photo data URI may be up to 2 MB.
const maxBodyBytes = 4 << 20

// today returns the current calendar date in storage format.
func today() string {
	return timeNow().Format(member.DateLayout)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_response", "error", err.Error())
	}
}

// writeList encodes a slice, writing [] for nil.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeCreated(w http.ResponseWriter, id int64) {
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// badRequest answers 400 with the validation message.
func badRequest(w http.ResponseWriter, err error) {
	middleware.WriteError(w, http.StatusBadRequest, err.Error())
}

// internalError logs the real error and returns a generic message to the client,
// unless the operator turned on expose_errors for single-user debugging.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	msg := "internal server error"
	if options.ExposeErrors {
		msg = err.Error()
	}
	middleware.WriteError(w, http.StatusInternalServerError, msg)
}

// storeError maps store and orchestrator errors onto the status taxonomy.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trainer.ErrHasMembers):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	default:
		internalError(w, err)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields and oversized bodies.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// queryID reads a positive integer query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// requireAdmin checks that the session belongs to the gym owner.
// Returns the session and true if authorized, or writes 401/403 and returns false.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	return middleware.CheckRole(w, r, middleware.RoleAdmin)
}

// requireMember checks that the session belongs to a member and returns it.
func requireMember(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	return middleware.CheckRole(w, r, middleware.RoleMember)
}
