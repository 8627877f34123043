package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/steelcity-drags/roster-api/internal/adapters/httpapi"
	memclock "github.com/steelcity-drags/roster-api/internal/adapters/memory/clock"
	memidempotency "github.com/steelcity-drags/roster-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/memberrepo"
	memoptionrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/optionrepo"
	memvehiclerepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/vehiclerepo"
	pgidempotency "github.com/steelcity-drags/roster-api/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/postgres/memberrepo"
	pgoptionrepo "github.com/steelcity-drags/roster-api/internal/adapters/postgres/optionrepo"
	postgres_testutil "github.com/steelcity-drags/roster-api/internal/adapters/postgres/testutil"
	pgvehiclerepo "github.com/steelcity-drags/roster-api/internal/adapters/postgres/vehiclerepo"
	"github.com/steelcity-drags/roster-api/internal/app/exports"
	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/options"
	"github.com/steelcity-drags/roster-api/internal/app/reports"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
	idempotencyport "github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
	memberrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
	optionrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
	vehiclerepoport "github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	var (
		memberRepo  memberrepoport.Repository
		vehicleRepo vehiclerepoport.Repository
		optionRepo  optionrepoport.Repository
		idemStore   idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		memberRepo = pgmemberrepo.NewRepo(pool)
		vehicleRepo = pgvehiclerepo.NewRepo(pool)
		optionRepo = pgoptionrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		memberRepo = memmemberrepo.NewRepo()
		vehicleRepo = memvehiclerepo.NewRepo()
		optionRepo = memoptionrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	memberSvc := members.NewService(memberRepo, vehicleRepo, clk, nil)
	vehicleSvc := vehicles.NewService(vehicleRepo, memberRepo, clk, nil)
	api := httpapi.NewServer(httpapi.Services{
		Members:  memberSvc,
		Vehicles: vehicleSvc,
		Options:  options.NewService(optionRepo, clk, nil),
		Imports:  imports.NewService(memberSvc, vehicleSvc, nil, nil),
		Reports:  reports.NewService(memberSvc, vehicleSvc),
		Exports:  exports.NewService(memberSvc, vehicleSvc, clk),
	}, idemStore, clk, nil)

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// We pass empty default subject to ensure requests MUST provide X-Debug-Subject, allowing
	// auth-failure coverage.
	authMW := httpapi.NewDevAuthMiddleware("", domain.RoleMemberEditor)
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

// caller is "subject" or "subject/role".
func (s *testServer) doJSON(t *testing.T, method string, path string, caller string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if caller != "" {
		sub, role, _ := strings.Cut(caller, "/")
		req.Header.Set("X-Debug-Subject", sub)
		if role != "" {
			req.Header.Set("X-Debug-Role", role)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

// doCSV posts a raw CSV body with an optional Idempotency-Key.
func (s *testServer) doCSV(t *testing.T, path string, caller string, csv string, key string) (int, []byte, http.Header) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, s.url(path), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	sub, role, _ := strings.Cut(caller, "/")
	req.Header.Set("X-Debug-Subject", sub)
	if role != "" {
		req.Header.Set("X-Debug-Role", role)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
