package exports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/steelcity-drags/roster-api/internal/adapters/memory/clock"
	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

type stubMembers []domain.Member

func (s stubMembers) List(context.Context, members.ListFilter) ([]domain.Member, error) {
	return s, nil
}

type stubVehicles []domain.Vehicle

func (s stubVehicles) List(context.Context, vehicles.ListFilter) ([]domain.Vehicle, error) {
	return s, nil
}

var viewer = domain.Principal{Subject: "sub-1", Role: domain.RoleMemberEditor}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func roster() stubMembers {
	paid := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return stubMembers{
		{
			ID: "m1", MemberNumber: "1", Name: `Dave "Quick" Jones`, Address: "1 Strip Rd", Suburb: "Unanderra",
			Postcode: "2526", State: "NSW", Email1: strPtr("dave@example.com"), Financial: true,
			MembershipType: domain.MembershipFamily, FamilyMembers: []string{"Sue Jones", "Tim Jones"},
			Interest: domain.InterestDragRacing, DatePaid: &paid, ReceiveEmails: true,
		},
		{
			ID: "m2", MemberNumber: "2", Name: "Amy Lee", Address: "2 Pit Ln", Suburb: "Dapto",
			Postcode: "2530", State: "NSW", MembershipType: domain.MembershipFull,
			Interest: domain.InterestBoth, ReceiveEmails: true, ReceiveSMS: true,
		},
	}
}

func newService(ms stubMembers, vs stubVehicles) *Service {
	clk := memclock.NewManualClock(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))
	return NewService(ms, vs, clk)
}

func TestRenderMembers_QuotesTextAndDoublesQuotes(t *testing.T) {
	t.Parallel()

	out := string(RenderMembers(roster()[:1]))
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(MemberColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"1","Dave ""Quick"" Jones","1 Strip Rd"`), lines[1])
	assert.Contains(t, lines[1], `,false,true,"Family","Sue Jones;Tim Jones","Drag Racing",2024-06-01,,"",true,false`)
}

func TestExportMembers_FiltersCombineWithAnd(t *testing.T) {
	t.Parallel()
	svc := newService(roster(), nil)

	f, err := svc.ExportMembers(context.Background(), viewer, MemberFilters{ReceiveEmails: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Rows)
	assert.Equal(t, "members_export_2025-03-10.csv", f.Filename)

	f, err = svc.ExportMembers(context.Background(), viewer, MemberFilters{ReceiveEmails: boolPtr(true), ReceiveSMS: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Rows)
	assert.Contains(t, string(f.Content), `"Amy Lee"`)

	drag := domain.InterestDragRacing
	f, err = svc.ExportMembers(context.Background(), viewer, MemberFilters{Interest: &drag, ReceiveSMS: boolPtr(true)})
	require.NoError(t, err)
	assert.Zero(t, f.Rows)
}

func TestExportMembers_RejectsUnknownInterest(t *testing.T) {
	t.Parallel()
	bad := domain.Interest("Knitting")

	_, err := newService(roster(), nil).ExportMembers(context.Background(), viewer, MemberFilters{Interest: &bad})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestExportReport(t *testing.T) {
	t.Parallel()
	svc := newService(roster(), stubVehicles{{ID: "v1", MemberID: "m2", Status: "Active"}})

	f, err := svc.ExportReport(context.Background(), viewer, "unfinancial_with_vehicle")
	require.NoError(t, err)
	assert.Equal(t, "member_report_unfinancial_with_vehicle_2025-03-10.csv", f.Filename)
	assert.Equal(t, 1, f.Rows)
	assert.Equal(t,
		"Member #,Name,Phone,Email,Financial,Has Vehicle\r\n"+`"2","Amy Lee","","",No,Yes`+"\r\n",
		string(f.Content))
}
