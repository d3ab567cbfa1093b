package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/machine"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// Backend is the server surface the Store mutates through.
type Backend interface {
	ListMembers(ctx context.Context) ([]member.Member, error)
	CreateMember(ctx context.Context, m member.Member) (int64, error)
	UpdateMember(ctx context.Context, m member.Member) error
	DeleteMember(ctx context.Context, id int64) error

	ListTrainers(ctx context.Context) ([]trainer.Trainer, error)
	CreateTrainer(ctx context.Context, t trainer.Trainer) (int64, error)
	UpdateTrainer(ctx context.Context, t trainer.Trainer) error
	DeleteTrainer(ctx context.Context, id int64) error

	ListMachines(ctx context.Context) ([]machine.Machine, error)
	CreateMachine(ctx context.Context, m machine.Machine) (int64, error)
	UpdateMachine(ctx context.Context, m machine.Machine) error
	DeleteMachine(ctx context.Context, id int64) error

	ListFinances(ctx context.Context) ([]finance.Finance, error)
	CreateFinance(ctx context.Context, f finance.Finance) (int64, error)
	DeleteFinance(ctx context.Context, id int64) error

	Reset(ctx context.Context) error
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// API talks to a gymdesk server over HTTP. The session cookie lives in its jar.
type API struct {
	base string
	http *http.Client
}

// NewAPI creates a client for the server at baseURL, e.g. "http://localhost:8080".
func NewAPI(baseURL string) (*API, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &API{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// do sends in as JSON when non-nil and decodes a 2xx body into out when non-nil.
func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	// JSON writes are exempt from the CSRF token check, including bodyless ones.
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func readAPIError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &e) != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: e.Error}
}

func (a *API) create(ctx context.Context, path string, in any) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := a.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func withID(path string, id int64) string {
	return path + "?id=" + strconv.FormatInt(id, 10)
}

// --- Session ---

// Identity is the session a login produced.
type Identity struct {
	Role     string `json:"role"`
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
}

// LoginAdmin opens an owner session.
func (a *API) LoginAdmin(ctx context.Context, pin string) (Identity, error) {
	var id Identity
	err := a.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"pin": pin}, &id)
	return id, err
}

// LoginMember opens a member session.
func (a *API) LoginMember(ctx context.Context, phone, dob string) (Identity, error) {
	var id Identity
	err := a.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"phone": phone, "dob": dob}, &id)
	return id, err
}

// Logout clears the session cookie.
func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// --- Members ---

// memberBody is the writable part of a member; the server rejects id and status.
type memberBody struct {
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email,omitempty"`
	DOB        string          `json:"dob,omitempty"`
	Photo      string          `json:"photo,omitempty"`
	Height     float64         `json:"height,omitempty"`
	PlanType   string          `json:"plan_type"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  string          `json:"start_date,omitempty"`
	ExpiryDate string          `json:"expiry_date,omitempty"`
	TrainerID  *int64          `json:"trainer_id"`
}

func toMemberBody(m member.Member) memberBody {
	return memberBody{
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		DOB:        m.DOB,
		Photo:      m.Photo,
		Height:     m.Height,
		PlanType:   m.PlanType,
		Amount:     m.Amount,
		StartDate:  m.StartDate,
		ExpiryDate: m.ExpiryDate,
		TrainerID:  m.TrainerID,
	}
}

func (a *API) ListMembers(ctx context.Context) ([]member.Member, error) {
	var list []member.Member
	err := a.do(ctx, http.MethodGet, "/api/members", nil, &list)
	return list, err
}

func (a *API) CreateMember(ctx context.Context, m member.Member) (int64, error) {
	return a.create(ctx, "/api/members", toMemberBody(m))
}

func (a *API) UpdateMember(ctx context.Context, m member.Member) error {
	return a.do(ctx, http.MethodPut, withID("/api/members", m.ID), toMemberBody(m), nil)
}

func (a *API) DeleteMember(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, withID("/api/members", id), nil, nil)
}

// --- Trainers ---

type trainerBody struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

func (a *API) ListTrainers(ctx context.Context) ([]trainer.Trainer, error) {
	var list []trainer.Trainer
	err := a.do(ctx, http.MethodGet, "/api/trainers", nil, &list)
	return list, err
}

func (a *API) CreateTrainer(ctx context.Context, t trainer.Trainer) (int64, error) {
	return a.create(ctx, "/api/trainers", trainerBody{Name: t.Name, Specialty: t.Specialty, Phone: t.Phone})
}

func (a *API) UpdateTrainer(ctx context.Context, t trainer.Trainer) error {
	return a.do(ctx, http.MethodPut, withID("/api/trainers", t.ID), trainerBody{Name: t.Name, Specialty: t.Specialty, Phone: t.Phone}, nil)
}

func (a *API) DeleteTrainer(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, withID("/api/trainers", id), nil, nil)
}

// --- Machines ---

type machineBody struct {
	Name            string `json:"name"`
	Status          string `json:"status"`
	LastMaintenance string `json:"last_maintenance"`
	NextMaintenance string `json:"next_maintenance"`
}

func toMachineBody(m machine.Machine) machineBody {
	return machineBody{Name: m.Name, Status: m.Status, LastMaintenance: m.LastMaintenance, NextMaintenance: m.NextMaintenance}
}

func (a *API) ListMachines(ctx context.Context) ([]machine.Machine, error) {
	var list []machine.Machine
	err := a.do(ctx, http.MethodGet, "/api/machines", nil, &list)
	return list, err
}

func (a *API) CreateMachine(ctx context.Context, m machine.Machine) (int64, error) {
	return a.create(ctx, "/api/machines", toMachineBody(m))
}

func (a *API) UpdateMachine(ctx context.Context, m machine.Machine) error {
	return a.do(ctx, http.MethodPut, withID("/api/machines", m.ID), toMachineBody(m), nil)
}

func (a *API) DeleteMachine(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, withID("/api/machines", id), nil, nil)
}

// --- Finances ---

type financeBody struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	MemberID    *int64          `json:"member_id"`
}

func (a *API) ListFinances(ctx context.Context) ([]finance.Finance, error) {
	var list []finance.Finance
	err := a.do(ctx, http.MethodGet, "/api/finances", nil, &list)
	return list, err
}

func (a *API) CreateFinance(ctx context.Context, f finance.Finance) (int64, error) {
	return a.create(ctx, "/api/finances", financeBody{
		Type:        f.Type,
		Amount:      f.Amount,
		Date:        f.Date,
		Category:    f.Category,
		Description: f.Description,
		MemberID:    f.MemberID,
	})
}

func (a *API) DeleteFinance(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, withID("/api/finances", id), nil, nil)
}

// --- Operations ---

// Reset wipes every table on the server.
func (a *API) Reset(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/reset", map[string]string{"confirm": orchestrators.ResetConfirmation}, nil)
}

// Dashboard fetches the server-computed summary.
func (a *API) Dashboard(ctx context.Context) (projections.DashboardResult, error) {
	var d projections.DashboardResult
	err := a.do(ctx, http.MethodGet, "/api/dashboard", nil, &d)
	return d, err
}

// SendReminders emails members expiring within days. A negative days uses the server default.
func (a *API) SendReminders(ctx context.Context, days int) (orchestrators.SendRemindersResult, error) {
	var in any
	if days >= 0 {
		in = map[string]int{"days": days}
	}
	var out orchestrators.SendRemindersResult
	err := a.do(ctx, http.MethodPost, "/api/reminders", in, &out)
	return out, err
}

// Export downloads a CSV or XLSX export and returns the server's file name with the body.
func (a *API) Export(ctx context.Context, typ, format string) (string, []byte, error) {
	q := url.Values{"type": {typ}}
	if format != "" {
		q.Set("format", format)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/api/export?"+q.Encode(), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", nil, readAPIError(resp)
	}

	name := typ + "." + format
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	body, err := io.ReadAll(resp.Body)
	return name, body, err
}
