package httpapi

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/steelcity-drags/roster-api/internal/app/reports"
)

// seedRoster creates a financial member with a vehicle, an unfinancial member with an
// archived vehicle, and an unfinancial member without one.
func seedRoster(t *testing.T, api *testAPI) (ann, bob, cat memberJSON) {
	t.Helper()

	body := validMemberBody("1", "Ann Able")
	body["financial"] = true
	body["email1"] = "ann@example.com"
	body["email2"] = "ANN@example.com"
	body["interest"] = "Drag Racing"
	rr := api.doJSON(t, admin, http.MethodPost, "/members", body)
	requireStatus(t, rr, http.StatusCreated)
	ann = mustUnmarshal[memberEnvelope](t, rr).Member

	body = validMemberBody("2", "Bob Best")
	body["email1"] = "bob@example.com"
	body["receive_emails"] = false
	body["phone1"] = "0400 111 222"
	rr = api.doJSON(t, admin, http.MethodPost, "/members", body)
	requireStatus(t, rr, http.StatusCreated)
	bob = mustUnmarshal[memberEnvelope](t, rr).Member

	cat = api.createMember(t, "3", "Cat Cole")

	api.createVehicle(t, ann.ID, "ANN1")
	v := api.createVehicle(t, bob.ID, "BOB1")
	requireStatus(t, api.do(t, admin, http.MethodDelete, "/vehicles/"+v.ID, nil, nil), http.StatusOK)
	return ann, bob, cat
}

func TestReports_Dashboard(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	seedRoster(t, api)

	rr := api.do(t, memberEditor, http.MethodGet, "/stats/dashboard", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	stats := mustUnmarshal[reports.DashboardStats](t, rr)
	if stats.TotalMembers != 3 || stats.FinancialMembers != 1 || stats.UnfinancialMembers != 2 {
		t.Fatalf("member counts=%+v", stats)
	}
	if stats.TotalVehicles != 1 || stats.ActiveVehicles != 1 {
		t.Fatalf("vehicle counts=%+v", stats)
	}
	if stats.MembersWithVehicle.Financial != 1 || stats.MembersWithVehicle.Unfinancial != 0 {
		t.Fatalf("members with vehicle=%+v", stats.MembersWithVehicle)
	}
}

func TestReports_MemberReport(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	_, bob, cat := seedRoster(t, api)

	rr := api.do(t, memberEditor, http.MethodGet, "/reports/members?filter=unfinancial", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	got := mustUnmarshal[struct {
		FilterType string          `json:"filter_type"`
		Count      int             `json:"count"`
		Members    []reportRowJSON `json:"members"`
	}](t, rr)
	if got.FilterType != "unfinancial" || got.Count != 2 {
		t.Fatalf("report=%+v", got)
	}
	if got.Members[0].Member.ID != bob.ID || got.Members[1].Member.ID != cat.ID || got.Members[0].HasVehicle {
		t.Fatalf("rows=%+v", got.Members)
	}

	rr = api.do(t, memberEditor, http.MethodGet, "/reports/members?filter=everyone", nil, nil)
	requireErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestReports_ExportMemberReport(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	seedRoster(t, api)

	rr := api.do(t, memberEditor, http.MethodGet, "/reports/members/export?filter=with_vehicle", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="member_report_with_vehicle_2025-03-10.csv"` {
		t.Fatalf("Content-Disposition=%q", cd)
	}
	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\r\n"), "\r\n")
	if len(lines) != 2 || lines[0] != "Member #,Name,Phone,Email,Financial,Has Vehicle" || !strings.Contains(lines[1], `"Ann Able"`) {
		t.Fatalf("csv=%q", rr.Body.String())
	}
}

func TestReports_ContactList(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	seedRoster(t, api)

	rr := api.do(t, memberEditor, http.MethodGet, "/contact-lists?type=email", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	cl := mustUnmarshal[reports.ContactList](t, rr)
	if cl.Count != 1 || cl.Contacts != "ann@example.com" {
		t.Fatalf("email list=%+v", cl)
	}

	rr = api.do(t, memberEditor, http.MethodGet, "/contact-lists?type=sms&interest=Drag%20Racing", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	if cl := mustUnmarshal[reports.ContactList](t, rr); cl.Count != 0 {
		t.Fatalf("sms list=%+v", cl)
	}

	rr = api.do(t, memberEditor, http.MethodGet, "/contact-lists?type=fax", nil, nil)
	requireErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestExports_Members(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	seedRoster(t, api)

	rr := api.doJSON(t, memberEditor, http.MethodPost, "/members/export", map[string]any{"receive_emails": true})
	requireStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type=%q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "members_export_2025-03-10.csv") {
		t.Fatalf("Content-Disposition=%q", cd)
	}
	if rr.Header().Get("X-Row-Count") != "2" {
		t.Fatalf("X-Row-Count=%q body=%s", rr.Header().Get("X-Row-Count"), rr.Body.String())
	}
	if !strings.HasPrefix(rr.Body.String(), "member_number,name,address,") {
		t.Fatalf("unexpected header: %q", rr.Body.String())
	}

	rr = api.do(t, memberEditor, http.MethodPost, "/members/export", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Row-Count") != "3" {
		t.Fatalf("unfiltered X-Row-Count=%q", rr.Header().Get("X-Row-Count"))
	}

	rr = api.doJSON(t, memberEditor, http.MethodPost, "/members/export", map[string]any{"interest": "Knitting"})
	requireErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rr = api.do(t, memberEditor, http.MethodPost, "/members/export", strings.NewReader("{"), nil)
	requireErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestExports_MembersChunkedEmptyBody(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	seedRoster(t, api)

	// A reader of unknown length leaves ContentLength at -1, as with chunked encoding.
	rr := api.do(t, memberEditor, http.MethodPost, "/members/export", io.MultiReader(), nil)
	requireStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Row-Count") != "3" {
		t.Fatalf("X-Row-Count=%q body=%s", rr.Header().Get("X-Row-Count"), rr.Body.String())
	}
}
