package memberrepo

import (
	"context"
	"testing"
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()
	email := "alice@example.com"

	m := memberrepo.Member{
		ID:             domain.MemberID("m1"),
		MemberNumber:   "101",
		Name:           "Alice Smith",
		Email1:         &email,
		MembershipType: domain.MembershipFull,
		Interest:       domain.InterestBoth,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	gotByID, err := r.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if gotByID.ID != m.ID || gotByID.Name != m.Name || *gotByID.Email1 != email {
		t.Fatalf("GetByID()=%+v, want %+v", gotByID, m)
	}

	gotByNumber, err := r.GetByMemberNumber(context.Background(), "101")
	if err != nil {
		t.Fatalf("GetByMemberNumber() err=%v", err)
	}
	if gotByNumber.ID != m.ID {
		t.Fatalf("GetByMemberNumber().ID=%q, want %q", gotByNumber.ID, m.ID)
	}
}

func TestRepo_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m := memberrepo.Member{ID: "m1", Name: "A", FamilyMembers: []string{"Kid"}}
	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	got, _ := r.GetByID(context.Background(), "m1")
	got.FamilyMembers[0] = "Changed"

	again, _ := r.GetByID(context.Background(), "m1")
	if again.FamilyMembers[0] != "Kid" {
		t.Fatalf("stored member mutated through returned copy: %v", again.FamilyMembers)
	}
}

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m1 := memberrepo.Member{ID: "m1", MemberNumber: "1", Name: "A"}
	m2 := memberrepo.Member{ID: "m1", MemberNumber: "2", Name: "B"}

	if err := r.Create(context.Background(), m1); err != nil {
		t.Fatalf("Create(m1) err=%v", err)
	}
	if err := r.Create(context.Background(), m2); err != memberrepo.ErrAlreadyExists {
		t.Fatalf("Create(m2) err=%v, want %v", err, memberrepo.ErrAlreadyExists)
	}
}

func TestRepo_UpdateReleasesOldNumber(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m := memberrepo.Member{ID: "m1", MemberNumber: "7", Name: "A"}
	if err := r.Create(context.Background(), m); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	m.MemberNumber = ""
	if err := r.Update(context.Background(), m); err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	if _, err := r.GetByMemberNumber(context.Background(), "7"); err != memberrepo.ErrNotFound {
		t.Fatalf("GetByMemberNumber(7) err=%v, want %v", err, memberrepo.ErrNotFound)
	}

	other := memberrepo.Member{ID: "m2", MemberNumber: "7", Name: "B"}
	if err := r.Create(context.Background(), other); err != nil {
		t.Fatalf("Create(reuse number) err=%v", err)
	}
}

func TestRepo_ListOrdersByMemberNumber(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	for _, m := range []memberrepo.Member{
		{ID: "a", MemberNumber: "10", Name: "Ten"},
		{ID: "b", MemberNumber: "9", Name: "Nine"},
		{ID: "c", MemberNumber: "A1", Name: "Alpha"},
		{ID: "d", MemberNumber: "100", Name: "Hundred"},
	} {
		if err := r.Create(context.Background(), m); err != nil {
			t.Fatalf("Create(%s) err=%v", m.ID, err)
		}
	}

	got, err := r.List(context.Background(), memberrepo.ListQuery{})
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	want := []domain.MemberID{"b", "a", "d", "c"}
	if len(got) != len(want) {
		t.Fatalf("List() len=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("List()[%d]=%q, want %q", i, got[i].ID, want[i])
		}
	}
}
