package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"gymdesk/internal/domain/member"
)

// recordedRequest is what the fake server saw.
type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Cookie      string
	Body        string
}

func newFakeServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*API, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cookie := ""
		if c, err := r.Cookie("gym_session"); err == nil {
			cookie = c.Value
		}
		seen = append(seen, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Cookie:      cookie,
			Body:        string(body),
		})
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	api, err := NewAPI(srv.URL + "/")
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	return api, &seen
}

// TestAPI_LoginKeepsCookie tests that the session cookie is replayed on later requests.
func TestAPI_LoginKeepsCookie(t *testing.T) {
	api, seen := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "gym_session", Value: "tok123", Path: "/"})
			w.Write([]byte(`{"success":true,"role":"admin","member_id":0,"name":"Owner"}`))
		default:
			w.Write([]byte(`[]`))
		}
	})

	id, err := api.LoginAdmin(context.Background(), "4321")
	if err != nil {
		t.Fatalf("LoginAdmin: %v", err)
	}
	if id.Role != "admin" || id.Name != "Owner" {
		t.Errorf("identity = %+v", id)
	}
	if _, err := api.ListMembers(context.Background()); err != nil {
		t.Fatalf("ListMembers: %v", err)
	}

	reqs := *seen
	if reqs[0].Body != `{"pin":"4321"}` {
		t.Errorf("login body = %s", reqs[0].Body)
	}
	if reqs[1].Cookie != "tok123" {
		t.Errorf("cookie = %q, want tok123", reqs[1].Cookie)
	}
}

// TestAPI_CreateMemberSendsWritableFields tests the request shape the server's strict decoder accepts.
func TestAPI_CreateMemberSendsWritableFields(t *testing.T) {
	api, seen := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42}`))
	})

	id, err := api.CreateMember(context.Background(), member.Member{
		ID:        -3,
		Name:      "Meera",
		Phone:     "9900112233",
		PlanType:  member.PlanMonthly,
		Amount:    decimal.NewFromInt(1500),
		StartDate: "2026-03-10",
		Status:    member.StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte((*seen)[0].Body), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	for _, field := range []string{"id", "status"} {
		if _, ok := body[field]; ok {
			t.Errorf("body carries read-only field %q", field)
		}
	}
	if body["amount"] != float64(1500) {
		t.Errorf("amount = %v", body["amount"])
	}
}

// TestAPI_PathsAndMethods tests the verb and query of each id-addressed call.
func TestAPI_PathsAndMethods(t *testing.T) {
	api, seen := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})
	ctx := context.Background()

	api.UpdateMember(ctx, member.Member{ID: 7, Name: "Asha"})
	api.DeleteTrainer(ctx, 3)
	api.DeleteFinance(ctx, 9)
	api.Logout(ctx)
	api.Reset(ctx)

	want := []struct {
		method, path, query string
	}{
		{http.MethodPut, "/api/members", "id=7"},
		{http.MethodDelete, "/api/trainers", "id=3"},
		{http.MethodDelete, "/api/finances", "id=9"},
		{http.MethodPost, "/api/auth/logout", ""},
		{http.MethodPost, "/api/reset", ""},
	}
	for i, w := range want {
		got := (*seen)[i]
		if got.Method != w.method || got.Path != w.path || got.Query != w.query {
			t.Errorf("request %d = %s %s?%s, want %s %s?%s", i, got.Method, got.Path, got.Query, w.method, w.path, w.query)
		}
		if got.ContentType != "application/json" {
			t.Errorf("request %d content type = %q", i, got.ContentType)
		}
	}
	if (*seen)[4].Body != `{"confirm":"RESET"}` {
		t.Errorf("reset body = %s", (*seen)[4].Body)
	}
}

// TestAPI_ErrorResponses tests that non-2xx answers become APIError.
func TestAPI_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "json error", status: http.StatusConflict, body: `{"error":"trainer still has assigned members"}`, wantMessage: "trainer still has assigned members"},
		{name: "plain text", status: http.StatusBadGateway, body: "upstream down\n", wantMessage: "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _ := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			err := api.DeleteTrainer(context.Background(), 1)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMessage {
				t.Errorf("got %d %q", apiErr.Status, apiErr.Message)
			}
		})
	}
}

// TestAPI_Export tests the file name taken from Content-Disposition.
func TestAPI_Export(t *testing.T) {
	api, seen := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="members_2026-03-10.csv"`)
		w.Write([]byte("id,name\n1,Asha\n"))
	})

	name, body, err := api.Export(context.Background(), "members", "csv")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "members_2026-03-10.csv" {
		t.Errorf("name = %q", name)
	}
	if !strings.HasPrefix(string(body), "id,name") {
		t.Errorf("body = %q", body)
	}
	if q := (*seen)[0].Query; q != "format=csv&type=members" {
		t.Errorf("query = %q", q)
	}
}

// TestAPI_SendRemindersDefaultWindow tests that a negative window sends no body.
func TestAPI_SendRemindersDefaultWindow(t *testing.T) {
	api, seen := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expiring":2,"sent":1,"skipped_no_email":1}`))
	})

	res, err := api.SendReminders(context.Background(), -1)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if res.Sent != 1 || res.SkippedNoEmail != 1 {
		t.Errorf("result = %+v", res)
	}
	if (*seen)[0].Body != "" {
		t.Errorf("body = %q, want empty", (*seen)[0].Body)
	}

	api.SendReminders(context.Background(), 3)
	if (*seen)[1].Body != `{"days":3}` {
		t.Errorf("body = %q", (*seen)[1].Body)
	}
}

// TestNewAPI_RejectsBadURL tests the corresponding function.
func TestNewAPI_RejectsBadURL(t *testing.T) {
	if _, err := NewAPI("not a url"); err == nil {
		t.Error("expected error")
	}
}
