package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/steelcity-drags/roster-api/internal/adapters/memory/clock"
	memidempotency "github.com/steelcity-drags/roster-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/memberrepo"
	memoptionrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/optionrepo"
	memvehiclerepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/vehiclerepo"
	"github.com/steelcity-drags/roster-api/internal/app/exports"
	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/options"
	"github.com/steelcity-drags/roster-api/internal/app/reports"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/platform/metrics"
)

type testAPI struct {
	h   http.Handler
	clk *memclock.ManualClock
	met *metrics.Metrics
}

// newTestAPI wires the full router over memory adapters with dev auth and no default subject,
// so every request must name its caller.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	memberRepo := memmemberrepo.NewRepo()
	vehicleRepo := memvehiclerepo.NewRepo()
	met := metrics.New()

	memberSvc := members.NewService(memberRepo, vehicleRepo, clk, nil)
	vehicleSvc := vehicles.NewService(vehicleRepo, memberRepo, clk, nil)
	svcs := Services{
		Members:  memberSvc,
		Vehicles: vehicleSvc,
		Options:  options.NewService(memoptionrepo.NewRepo(), clk, nil),
		Imports: imports.NewService(memberSvc, vehicleSvc, imports.RecorderFunc(func(k imports.Kind, ok, failed int) {
			met.ObserveImport(string(k), ok, failed)
		}), nil),
		Reports: reports.NewService(memberSvc, vehicleSvc),
		Exports: exports.NewService(memberSvc, vehicleSvc, clk),
	}
	s := NewServer(svcs, memidempotency.NewStore(), clk, nil)
	s.IdemTTL = 24 * time.Hour
	h := NewRouter(s, RouterOptions{
		AuthMiddleware: NewDevAuthMiddleware("", domain.RoleAdmin),
		Metrics:        met,
	})
	return &testAPI{h: h, clk: clk, met: met}
}

type caller struct {
	subject string
	role    domain.Role
}

var (
	admin        = caller{subject: "sub-admin", role: domain.RoleAdmin}
	fullEditor   = caller{subject: "sub-editor", role: domain.RoleFullEditor}
	memberEditor = caller{subject: "sub-member-editor", role: domain.RoleMemberEditor}
	anonymous    = caller{}
)

func (a *testAPI) do(t *testing.T, c caller, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if c.subject != "" {
		req.Header.Set("X-Debug-Subject", c.subject)
	}
	if c.role != "" {
		req.Header.Set("X-Debug-Role", string(c.role))
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	a.h.ServeHTTP(rr, req)
	return rr
}

func (a *testAPI) doJSON(t *testing.T, c caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	return a.do(t, c, method, path, r, map[string]string{"Content-Type": "application/json"})
}

type errorEnvelope struct {
	Error struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, rr.Body.String())
	}
	return out
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, want, rr.Body.String())
	}
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) errorEnvelope {
	t.Helper()
	requireStatus(t, rr, wantStatus)
	got := mustUnmarshal[errorEnvelope](t, rr)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, rr.Body.String())
	}
	return got
}

type memberEnvelope struct {
	Member memberJSON `json:"member"`
}

type vehicleEnvelope struct {
	Vehicle vehicleJSON `json:"vehicle"`
}

func validMemberBody(number, name string) map[string]any {
	return map[string]any{
		"member_number": number,
		"name":          name,
		"address":       "1 Strip Rd",
		"suburb":        "Albion Park",
		"postcode":      "2527",
		"state":         "NSW",
	}
}

func (a *testAPI) createMember(t *testing.T, number, name string) memberJSON {
	t.Helper()
	rr := a.doJSON(t, admin, http.MethodPost, "/members", validMemberBody(number, name))
	requireStatus(t, rr, http.StatusCreated)
	return mustUnmarshal[memberEnvelope](t, rr).Member
}

func (a *testAPI) createVehicle(t *testing.T, memberID, rego string) vehicleJSON {
	t.Helper()
	rr := a.doJSON(t, fullEditor, http.MethodPost, "/vehicles", map[string]any{
		"member_id":       memberID,
		"log_book_number": "LB-" + rego,
		"registration":    rego,
		"make":            "Holden",
		"model":           "Torana",
		"body_style":      "Sedan",
		"year":            1974,
	})
	requireStatus(t, rr, http.StatusCreated)
	return mustUnmarshal[vehicleEnvelope](t, rr).Vehicle
}
