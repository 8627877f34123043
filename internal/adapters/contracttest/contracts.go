package contracttest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/steelcity-drags/roster-api/internal/domain"
	idempotencyport "github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
	memberrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
	optionrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
	vehiclerepoport "github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

type CleanupFunc = func()

type MemberRepoFactory func(t *testing.T) (memberrepoport.Repository, CleanupFunc)
type VehicleRepoFactory func(t *testing.T) (vehiclerepoport.Repository, CleanupFunc)
type OptionRepoFactory func(t *testing.T) (optionrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:     idempotencyport.Key("k-" + uuid.NewString()),
		Subject: domain.SubjectID("sub-1"),
		Route:   "POST /imports/member",
	}
	rec := idempotencyport.Record{
		BodyHash:    "hash-abc",
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"imported_count":1}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got.BodyHash != "hash-abc" || got.ContentType != "application/json" || got.StatusCode != 200 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Same key under a different route is a different fingerprint.
	other := fp
	other.Route = "POST /imports/vehicle"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected miss for other route, ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.BodyHash = "hash-def"
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || got.BodyHash != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v hash=%q", ok, err, got.BodyHash)
	}

	// Prune drops records created before the cutoff and keeps newer ones.
	fresh := fp
	fresh.Key = idempotencyport.Key("k-" + uuid.NewString())
	recent := rec
	recent.CreatedAt = time.Unix(10_000, 0).UTC()
	if err := store.Put(ctx, fresh, recent); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	n, err := store.Prune(ctx, time.Unix(5_000, 0))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n < 1 {
		t.Fatalf("Prune removed %d, want >= 1", n)
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("expected pruned record gone, ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.Get(ctx, fresh); err != nil || !ok {
		t.Fatalf("expected recent record kept, ok=%v err=%v", ok, err)
	}
}

func strPtr(s string) *string { return &s }

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// NewMember returns a fully populated member record suitable for repository tests.
func NewMember(number, name string, now time.Time) memberrepoport.Member {
	return memberrepoport.Member{
		ID:             domain.MemberID(uuid.NewString()),
		MemberNumber:   number,
		Name:           name,
		Address:        "1 Main St",
		Suburb:         "Newcastle",
		Postcode:       "2300",
		State:          "NSW",
		Phone1:         strPtr("0400000000"),
		Email1:         strPtr(uuid.NewString()[:8] + "@example.com"),
		MembershipType: domain.MembershipFull,
		Interest:       domain.InterestBoth,
		DatePaid:       dayPtr(2024, time.June, 1),
		ExpiryDate:     dayPtr(2025, time.May, 31),
		ReceiveEmails:  true,
		ReceiveSMS:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func RunMemberRepo(t *testing.T, newRepo MemberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	prefix := uuid.NewString()[:6]

	a := NewMember(prefix+"-10", "Alice Johnson", now)
	a.FamilyMembers = []string{"Tom Johnson"}
	a.MembershipType = domain.MembershipFamily
	a.Email2 = strPtr("alice." + prefix + "@example.com")
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != a.Name || got.MemberNumber != a.MemberNumber || len(got.FamilyMembers) != 1 || got.FamilyMembers[0] != "Tom Johnson" {
		t.Fatalf("unexpected member: %+v", got)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(*a.ExpiryDate) {
		t.Fatalf("expiry roundtrip=%v, want %v", got.ExpiryDate, a.ExpiryDate)
	}
	if got.Phone2 != nil || got.Comments != nil {
		t.Fatalf("expected absent optional fields to stay nil: %+v", got)
	}
	if _, err := repo.GetByMemberNumber(ctx, a.MemberNumber); err != nil {
		t.Fatalf("GetByMemberNumber: %v", err)
	}
	if _, err := repo.GetByMemberNumber(ctx, ""); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("GetByMemberNumber(blank) err=%v, want ErrNotFound", err)
	}

	// Member number uniqueness.
	dup := NewMember(a.MemberNumber, "Alice 2", now)
	if err := repo.Create(ctx, dup); !errors.Is(err, memberrepoport.ErrMemberNumberTaken) {
		t.Fatalf("Create dup number err=%v, want ErrMemberNumberTaken", err)
	}

	// Blank numbers are exempt from uniqueness.
	blank1 := NewMember("", "Blank One", now)
	blank2 := NewMember("", "Blank Two", now)
	if err := repo.Create(ctx, blank1); err != nil {
		t.Fatalf("Create blank1: %v", err)
	}
	if err := repo.Create(ctx, blank2); err != nil {
		t.Fatalf("Create blank2: %v", err)
	}

	b := NewMember(prefix+"-9", "bob builder", now)
	b.Suburb = "newcastle"
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create b: %v", err)
	}

	// Search matches name and emails, case-insensitively.
	res, err := repo.List(ctx, memberrepoport.ListQuery{Search: strings.ToUpper("alice." + prefix)})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if len(res) != 1 || res[0].ID != a.ID {
		t.Fatalf("List search=%v, want only a", ids(res))
	}
	res, err = repo.List(ctx, memberrepoport.ListQuery{MemberNumber: b.MemberNumber, Search: "alice"})
	if err != nil {
		t.Fatalf("List number: %v", err)
	}
	if len(res) != 1 || res[0].ID != b.ID {
		t.Fatalf("List number=%v, want only b", ids(res))
	}

	// Update changes the number and frees the old one.
	a.MemberNumber = prefix + "-11"
	a.Name = "Alice Updated"
	a.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.GetByMemberNumber(ctx, prefix+"-10"); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("old number still resolves: err=%v", err)
	}
	b.MemberNumber = a.MemberNumber
	if err := repo.Update(ctx, b); !errors.Is(err, memberrepoport.ErrMemberNumberTaken) {
		t.Fatalf("Update to taken number err=%v, want ErrMemberNumberTaken", err)
	}

	suburbs, err := repo.ListSuburbs(ctx)
	if err != nil {
		t.Fatalf("ListSuburbs: %v", err)
	}
	count := 0
	for _, s := range suburbs {
		if s == "Newcastle" || s == "newcastle" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("ListSuburbs=%v, want Newcastle once", suburbs)
	}

	if err := repo.Delete(ctx, blank1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, blank1.ID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, blank1.ID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want ErrNotFound", err)
	}
	if err := repo.Update(ctx, blank1); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("Update missing err=%v, want ErrNotFound", err)
	}
}

func RunVehicleRepo(t *testing.T, newMembers MemberRepoFactory, newRepo VehicleRepoFactory) {
	t.Helper()
	ctx := context.Background()

	members, mcleanup := newMembers(t)
	if mcleanup != nil {
		t.Cleanup(mcleanup)
	}
	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	owner := NewMember("", "Owner One", now)
	other := NewMember("", "Owner Two", now)
	for _, m := range []memberrepoport.Member{owner, other} {
		if err := members.Create(ctx, m); err != nil {
			t.Fatalf("Create member: %v", err)
		}
	}

	reg := "R" + uuid.NewString()[:6]
	v1 := vehiclerepoport.Vehicle{
		ID:            domain.VehicleID(uuid.NewString()),
		MemberID:      owner.ID,
		LogBookNumber: "LB-1",
		Registration:  reg,
		Make:          "Holden",
		Model:         "Torana",
		BodyStyle:     "Sedan",
		Year:          1974,
		EntryDate:     dayPtr(2024, time.July, 1),
		ExpiryDate:    dayPtr(2025, time.June, 30),
		Status:        domain.DefaultVehicleStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	v2 := v1
	v2.ID = domain.VehicleID(uuid.NewString())
	v2.Registration = "X" + uuid.NewString()[:6]
	v2.CreatedAt = now.Add(time.Second)
	v3 := v1
	v3.ID = domain.VehicleID(uuid.NewString())
	v3.MemberID = other.ID
	v3.Registration = "Y" + uuid.NewString()[:6]
	v3.CreatedAt = now.Add(2 * time.Second)

	for _, v := range []vehiclerepoport.Vehicle{v1, v2, v3} {
		if err := repo.Create(ctx, v); err != nil {
			t.Fatalf("Create vehicle: %v", err)
		}
	}
	if err := repo.Create(ctx, v1); !errors.Is(err, vehiclerepoport.ErrAlreadyExists) {
		t.Fatalf("Create dup err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, v1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Year != 1974 || got.Registration != reg || got.ExpiryDate == nil || !got.ExpiryDate.Equal(*v1.ExpiryDate) {
		t.Fatalf("unexpected vehicle: %+v", got)
	}

	byOwner, err := repo.List(ctx, vehiclerepoport.Filter{MemberID: owner.ID})
	if err != nil {
		t.Fatalf("List owner: %v", err)
	}
	if len(byOwner) != 2 || byOwner[0].ID != v1.ID || byOwner[1].ID != v2.ID {
		t.Fatalf("List owner=%v, want [v1 v2]", vehicleIDs(byOwner))
	}

	byReg, err := repo.List(ctx, vehiclerepoport.Filter{Registration: "  " + strings.ToLower(reg) + " "})
	if err != nil {
		t.Fatalf("List registration: %v", err)
	}
	if len(byReg) != 1 || byReg[0].ID != v1.ID {
		t.Fatalf("List registration=%v, want [v1]", vehicleIDs(byReg))
	}

	// Archive v2: hidden by default, visible with IncludeArchived / ArchivedOnly.
	v2.Archived = true
	v2.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, v2); err != nil {
		t.Fatalf("Update archive: %v", err)
	}
	active, _ := repo.List(ctx, vehiclerepoport.Filter{MemberID: owner.ID})
	if len(active) != 1 || active[0].ID != v1.ID {
		t.Fatalf("List active=%v, want [v1]", vehicleIDs(active))
	}
	all, _ := repo.List(ctx, vehiclerepoport.Filter{MemberID: owner.ID, IncludeArchived: true})
	if len(all) != 2 {
		t.Fatalf("List include archived=%v, want 2", vehicleIDs(all))
	}
	archived, _ := repo.List(ctx, vehiclerepoport.Filter{MemberID: owner.ID, ArchivedOnly: true})
	if len(archived) != 1 || archived[0].ID != v2.ID {
		t.Fatalf("List archived only=%v, want [v2]", vehicleIDs(archived))
	}

	n, err := repo.DeleteByMember(ctx, owner.ID)
	if err != nil {
		t.Fatalf("DeleteByMember: %v", err)
	}
	if n != 2 {
		t.Fatalf("DeleteByMember()=%d, want 2", n)
	}
	if _, err := repo.GetByID(ctx, v3.ID); err != nil {
		t.Fatalf("other owner's vehicle removed: %v", err)
	}

	if err := repo.Delete(ctx, v3.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, v3.ID); !errors.Is(err, vehiclerepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want ErrNotFound", err)
	}
	if err := repo.Update(ctx, v3); !errors.Is(err, vehiclerepoport.ErrNotFound) {
		t.Fatalf("Update missing err=%v, want ErrNotFound", err)
	}
}

func RunOptionRepo(t *testing.T, newRepo OptionRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	val := "Show Car " + uuid.NewString()[:6]
	status := optionrepoport.Option{ID: domain.OptionID(uuid.NewString()), Type: domain.OptionTypeStatus, Value: val, CreatedAt: now}
	if err := repo.Create(ctx, status); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := optionrepoport.Option{ID: domain.OptionID(uuid.NewString()), Type: domain.OptionTypeStatus, Value: strings.ToLower(val), CreatedAt: now}
	if err := repo.Create(ctx, dup); !errors.Is(err, optionrepoport.ErrDuplicateValue) {
		t.Fatalf("Create dup err=%v, want ErrDuplicateValue", err)
	}

	// The same value is allowed under the other type.
	reason := optionrepoport.Option{ID: domain.OptionID(uuid.NewString()), Type: domain.OptionTypeReason, Value: val, CreatedAt: now.Add(time.Second)}
	if err := repo.Create(ctx, reason); err != nil {
		t.Fatalf("Create reason: %v", err)
	}

	typ := domain.OptionTypeReason
	reasons, err := repo.List(ctx, &typ)
	if err != nil {
		t.Fatalf("List reason: %v", err)
	}
	for _, o := range reasons {
		if o.Type != domain.OptionTypeReason {
			t.Fatalf("List(reason) returned %+v", o)
		}
	}
	if !containsOption(reasons, reason.ID) {
		t.Fatalf("List(reason) missing created option")
	}

	all, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if !containsOption(all, status.ID) || !containsOption(all, reason.ID) {
		t.Fatalf("List(nil) missing options")
	}

	if err := repo.Delete(ctx, status.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, status.ID); !errors.Is(err, optionrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, status.ID); !errors.Is(err, optionrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want ErrNotFound", err)
	}
}

func ids(ms []memberrepoport.Member) []domain.MemberID {
	out := make([]domain.MemberID, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func vehicleIDs(vs []vehiclerepoport.Vehicle) []domain.VehicleID {
	out := make([]domain.VehicleID, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func containsOption(os []optionrepoport.Option, id domain.OptionID) bool {
	for _, o := range os {
		if o.ID == id {
			return true
		}
	}
	return false
}
