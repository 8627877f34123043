package members

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/steelcity-drags/roster-api/internal/adapters/memory/clock"
	memmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/memberrepo"
	memvehiclerepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/vehiclerepo"
	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/patch"
	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

var (
	admin        = domain.Principal{Subject: "admin-1", Role: domain.RoleAdmin}
	memberEditor = domain.Principal{Subject: "editor-1", Role: domain.RoleMemberEditor}
)

type fixture struct {
	svc      *Service
	vehicles *memvehiclerepo.Repo
	clk      *memclock.ManualClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	vehicles := memvehiclerepo.NewRepo()
	svc := NewService(memmemberrepo.NewRepo(), vehicles, clk, nil)
	n := 0
	svc.newMemberID = func() domain.MemberID {
		n++
		return domain.MemberID("m" + string(rune('0'+n)))
	}
	return fixture{svc: svc, vehicles: vehicles, clk: clk}
}

func strPtr(s string) *string { return &s }

func validInput(number string) MemberInput {
	return MemberInput{
		MemberNumber: number,
		Name:         "  Jane   Citizen ",
		Address:      "12 Pit Lane",
		Suburb:       "Wollongong",
		Postcode:     "2500",
		State:        "NSW",
		Email1:       strPtr(" jane@example.com "),
		Email2:       strPtr("   "),
		Phone1:       strPtr("0400 111 222"),
	}
}

func TestCreate_NormalizesFields(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	m, err := f.svc.Create(context.Background(), memberEditor, validInput("42"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Citizen", m.Name)
	assert.Equal(t, "jane@example.com", *m.Email1)
	assert.Nil(t, m.Email2)
	assert.Equal(t, domain.MembershipFull, m.MembershipType)
	assert.Equal(t, domain.InterestBoth, m.Interest)
	assert.Equal(t, f.clk.Now(), m.CreatedAt)
}

func TestCreate_ReportsEveryMissingRequiredField(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), admin, MemberInput{Name: " ", Suburb: "X"})
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	for _, field := range []string{"name", "address", "postcode", "state"} {
		assert.Contains(t, ae.Details, field)
	}
	assert.NotContains(t, ae.Details, "suburb")
}

func TestCreate_RejectsInvalidEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	in := validInput("1")
	in.Email1 = strPtr("not-an-email")
	_, err := f.svc.Create(context.Background(), admin, in)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreate_DuplicateMemberNumberConflicts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), admin, validInput("7"))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), admin, validInput(" 7 "))
	require.True(t, apperr.Is(err, apperr.KindConflict), "err=%v", err)
}

func TestCreate_BlankMemberNumbersCoexist(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), admin, validInput(""))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), admin, validInput(""))
	require.NoError(t, err)
}

func TestCreate_FamilyMembersOnlyForFamilyMembership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	in := validInput("1")
	in.FamilyMembers = []string{"Kid One", "  "}
	m, err := f.svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Empty(t, m.FamilyMembers)

	in = validInput("2")
	in.MembershipType = domain.MembershipFamily
	in.FamilyMembers = []string{" Kid One ", "", "Kid Two"}
	m, err = f.svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kid One", "Kid Two"}, m.FamilyMembers)
}

func TestUpdate_AppliesPatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), admin, validInput("5"))
	require.NoError(t, err)

	f.clk.Advance(time.Hour)
	updated, err := f.svc.Update(context.Background(), memberEditor, created.ID, UpdateMemberInput{
		Suburb:    patch.Some("Kiama"),
		Phone1:    patch.Null[string](),
		Financial: patch.Some(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "Kiama", updated.Suburb)
	assert.Nil(t, updated.Phone1)
	assert.True(t, updated.Financial)
	assert.Equal(t, "Jane Citizen", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, f.clk.Now(), updated.UpdatedAt)
}

func TestUpdate_RejectsNullRequiredField(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), admin, validInput("5"))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), admin, created.ID, UpdateMemberInput{Name: patch.Null[string]()})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdate_UnknownIDNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), admin, "missing", UpdateMemberInput{})
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete_CascadesToVehicles(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	owner, err := f.svc.Create(ctx, admin, validInput("1"))
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, admin, validInput("2"))
	require.NoError(t, err)

	require.NoError(t, f.vehicles.Create(ctx, vehiclerepo.Vehicle{ID: "v1", MemberID: owner.ID}))
	require.NoError(t, f.vehicles.Create(ctx, vehiclerepo.Vehicle{ID: "v2", MemberID: owner.ID, Archived: true}))
	require.NoError(t, f.vehicles.Create(ctx, vehiclerepo.Vehicle{ID: "v3", MemberID: other.ID}))

	require.NoError(t, f.svc.Delete(ctx, admin, owner.ID))

	_, err = f.svc.Get(ctx, owner.ID)
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	remaining, err := f.vehicles.List(ctx, vehiclerepo.Filter{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, domain.VehicleID("v3"), remaining[0].ID)
}

func TestDelete_RequiresAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	m, err := f.svc.Create(context.Background(), admin, validInput("1"))
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), memberEditor, m.ID)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUpsert_UpdatesByMemberNumber(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, outcome, err := f.svc.Upsert(ctx, admin, validInput("9"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	in := validInput("9")
	in.Suburb = "Nowra"
	second, outcome, err := f.svc.Upsert(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Nowra", second.Suburb)
}

func TestList_FiltersBySearch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := validInput("1")
	a.Name = "Alice Able"
	a.Email1 = strPtr("alice@example.com")
	b := validInput("2")
	b.Name = "Bob Baker"
	b.Email1 = nil
	b.Email2 = strPtr("bob@ALICE.example.com")
	c := validInput("3")
	c.Name = "Carol"
	c.Email1 = strPtr("carol@example.com")
	for _, in := range []MemberInput{a, b, c} {
		_, err := f.svc.Create(ctx, admin, in)
		require.NoError(t, err)
	}

	got, err := f.svc.List(ctx, ListFilter{Search: "alice"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].MemberNumber)
	assert.Equal(t, "2", got[1].MemberNumber)

	got, err = f.svc.List(ctx, ListFilter{MemberNumber: "3"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Carol", got[0].Name)
}

func TestRenew_MultiYearAnchorsToRecentPayment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	in := validInput("1")
	paid := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	in.DatePaid = &paid
	m, err := f.svc.Create(ctx, admin, in)
	require.NoError(t, err)

	renewed, err := f.svc.Renew(ctx, memberEditor, m.ID, 2)
	require.NoError(t, err)
	assert.True(t, renewed.Financial)
	assert.Equal(t, paid, *renewed.DatePaid)
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), *renewed.ExpiryDate)

	renewed, err = f.svc.Renew(ctx, memberEditor, m.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *renewed.DatePaid)
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), *renewed.ExpiryDate)
}

func TestRenew_RejectsUnsupportedYears(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	m, err := f.svc.Create(context.Background(), admin, validInput("1"))
	require.NoError(t, err)
	_, err = f.svc.Renew(context.Background(), admin, m.ID, 4)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}
