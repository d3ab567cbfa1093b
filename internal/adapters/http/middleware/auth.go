package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// SessionTTL is the lifetime of a session token, measured from its issue time.
const SessionTTL = 24 * time.Hour

// Session errors.
var (
	ErrNoSession      = errors.New("not authenticated")
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

// Session represents an authenticated identity decoded from the session token.
type Session struct {
	ID       string    `json:"-"`
	Role     string    `json:"role"`
	MemberID int64     `json:"member_id,omitempty"`
	Name     string    `json:"name,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

// IsAdmin reports whether the session belongs to the gym owner.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type sessionClaims struct {
	Role     string `json:"role"`
	MemberID int64  `json:"member_id,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256 session tokens.
// Tokens are stateless: logout clears the cookie, it does not revoke the token.
type SessionManager struct {
	key []byte
	now func() time.Time
}

// NewSessionManager creates a manager signing with key.
// PRE: len(key) >= 32
// POST: Returns a manager using the wall clock
func NewSessionManager(key []byte) *SessionManager {
	return &SessionManager{key: key, now: time.Now}
}

// Issue signs a new token for role (and memberID for member sessions).
// PRE: role is RoleAdmin or RoleMember
// POST: Returns a compact JWT valid for SessionTTL
func (m *SessionManager) Issue(role string, memberID int64, name string) (string, error) {
	now := m.now()
	claims := sessionClaims{
		Role:     role,
		MemberID: memberID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns its session.
// PRE: token is non-empty
// POST: Returns ErrSessionExpired when now - iat >= SessionTTL, ErrInvalidSession for any other defect
func (m *SessionManager) Parse(token string) (Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuedAt(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Session{}, ErrSessionExpired
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.IssuedAt == nil {
		return Session{}, fmt.Errorf("%w: missing iat", ErrInvalidSession)
	}
	if m.now().Sub(claims.IssuedAt.Time) >= SessionTTL {
		return Session{}, ErrSessionExpired
	}
	if claims.Role != RoleAdmin && (claims.Role != RoleMember || claims.MemberID <= 0) {
		return Session{}, fmt.Errorf("%w: bad role", ErrInvalidSession)
	}
	return Session{
		ID:       claims.ID,
		Role:     claims.Role,
		MemberID: claims.MemberID,
		Name:     claims.Name,
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}

const sessionCookieName = "gym_session"

// SecureCookies marks the session cookie Secure. Set in production.
var SecureCookies bool

// Auth returns middleware that decodes the session cookie and sets the session in context.
// It does NOT block unauthenticated requests; handlers and RequireRole do that.
func Auth(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				session, err := sessions.Parse(cookie.Value)
				if err == nil {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				} else {
					slog.Debug("session_rejected", "path", r.URL.Path, "error", err.Error())
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that answers 401 without a session and 403 for any other role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CheckRole(w, r, role); ok {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// CheckRole writes the 401/403 response itself and reports false when the request may not continue.
func CheckRole(w http.ResponseWriter, r *http.Request, role string) (Session, bool) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		WriteError(w, http.StatusUnauthorized, ErrNoSession.Error())
		return Session{}, false
	}
	if session.Role != role {
		slog.Warn("auth_denied", "path", r.URL.Path, "role", session.Role, "required", role)
		WriteError(w, http.StatusForbidden, "forbidden")
		return Session{}, false
	}
	return session, true
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// WriteError writes the JSON error body used by every API response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
