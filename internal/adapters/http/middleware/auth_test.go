package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func managerAt(t time.Time) *SessionManager {
	m := NewSessionManager(testKey)
	m.now = func() time.Time { return t }
	return m
}

// TestSessionManager_RoundTrip verifies issued tokens decode to the same identity.
func TestSessionManager_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := managerAt(issued)
	token, err := m.Issue(RoleMember, 7, "Asha")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	s, err := managerAt(issued.Add(23 * time.Hour)).Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Role != RoleMember || s.MemberID != 7 || s.Name != "Asha" || s.ID == "" || !s.IssuedAt.Equal(issued) {
		t.Errorf("session = %+v", s)
	}
}

// TestSessionManager_Rejections verifies every defect the guard must catch.
func TestSessionManager_Rejections(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	good, _ := managerAt(issued).Issue(RoleAdmin, 0, "Owner")

	otherKey := NewSessionManager([]byte("ffffffffffffffffffffffffffffffff"))
	otherKey.now = func() time.Time { return issued }
	forged, _ := otherKey.Issue(RoleAdmin, 0, "Owner")

	// A token whose exp was stretched still fails the explicit iat age check.
	longLived, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(30 * 24 * time.Hour)),
		},
	}).SignedString(testKey)

	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(issued)},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	memberWithoutID, _ := managerAt(issued).Issue(RoleMember, 0, "")

	tests := []struct {
		name    string
		token   string
		at      time.Time
		wantErr error
	}{
		{name: "expired at 24h", token: good, at: issued.Add(24 * time.Hour), wantErr: ErrSessionExpired},
		{name: "stretched exp", token: longLived, at: issued.Add(25 * time.Hour), wantErr: ErrSessionExpired},
		{name: "wrong signature", token: forged, at: issued, wantErr: ErrInvalidSession},
		{name: "alg none", token: noneAlg, at: issued, wantErr: ErrInvalidSession},
		{name: "garbage", token: "not.a.jwt", at: issued, wantErr: ErrInvalidSession},
		{name: "member without id", token: memberWithoutID, at: issued, wantErr: ErrInvalidSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := managerAt(tt.at).Parse(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAuthAndRequireRole verifies the guard chain answers 401/403 and only calls the handler when allowed.
func TestAuthAndRequireRole(t *testing.T) {
	m := NewSessionManager(testKey)
	admin, _ := m.Issue(RoleAdmin, 0, "Owner")
	member, _ := m.Issue(RoleMember, 3, "Asha")

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{name: "no cookie", wantStatus: http.StatusUnauthorized},
		{name: "tampered", cookie: admin + "x", wantStatus: http.StatusUnauthorized},
		{name: "wrong role", cookie: member, wantStatus: http.StatusForbidden},
		{name: "admin", cookie: admin, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := Auth(m)(RequireRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				s, _ := GetSessionFromContext(r.Context())
				if !s.IsAdmin() {
					t.Errorf("handler saw session %+v", s)
				}
			})))
			req := httptest.NewRequest("GET", "/api/members", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v", called)
			}
			if tt.wantStatus != http.StatusOK && !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body = %q, want JSON error", rec.Body.String())
			}
		})
	}
}

// TestSetSessionCookie verifies cookie attributes.
func TestSetSessionCookie(t *testing.T) {
	SecureCookies = true
	defer func() { SecureCookies = false }()

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok")
	c := rec.Result().Cookies()[0]
	if c.Name != "gym_session" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode || c.MaxAge != 86400 || c.Path != "/" {
		t.Errorf("cookie = %+v", c)
	}
}
