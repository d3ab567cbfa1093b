package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/member"
)

// Session roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// MemberStoreForLogin defines the store interface needed by member login.
type MemberStoreForLogin interface {
	GetByLogin(ctx context.Context, phone, dob string) (member.Member, error)
}

// LoginInput carries input for the login orchestrator.
// Exactly one of PIN or Phone+DOB is expected.
type LoginInput struct {
	PIN   string
	Phone string
	DOB   string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Role     string
	MemberID int64
	Name     string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AdminPINHash []byte // bcrypt hash of the configured admin PIN
	MemberStore  MemberStoreForLogin
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("pin, or phone and dob, are required")
)

// ExecuteLogin validates admin or member credentials and returns the identity for session creation.
// PRE: input carries a PIN or a phone and date of birth
// POST: Returns identity on success; ErrInvalidCredentials on a mismatch; store failures are returned wrapped
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	switch {
	case input.PIN != "":
		if len(deps.AdminPINHash) == 0 || bcrypt.CompareHashAndPassword(deps.AdminPINHash, []byte(input.PIN)) != nil {
			slog.Info("auth_event", "event", "login_failed", "role", RoleAdmin, "reason", "wrong_pin")
			return LoginResult{}, ErrInvalidCredentials
		}
		slog.Info("auth_event", "event", "login_success", "role", RoleAdmin)
		return LoginResult{Role: RoleAdmin, Name: "Owner"}, nil

	case input.Phone != "" && input.DOB != "":
		m, err := deps.MemberStore.GetByLogin(ctx, strings.TrimSpace(input.Phone), input.DOB)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Info("auth_event", "event", "login_failed", "role", RoleMember, "reason", "not_found")
			return LoginResult{}, ErrInvalidCredentials
		}
		if err != nil {
			return LoginResult{}, fmt.Errorf("member login: %w", err)
		}
		slog.Info("auth_event", "event", "login_success", "role", RoleMember, "member_id", m.ID)
		return LoginResult{Role: RoleMember, MemberID: m.ID, Name: m.Name}, nil
	}
	return LoginResult{}, ErrMissingCredentials
}

// HashPIN returns the bcrypt hash stored in LoginDeps.AdminPINHash.
func HashPIN(pin string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
}
