package members

import (
	"time"

	"github.com/steelcity-drags/roster-api/internal/app/patch"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

// MemberInput is a complete member record as supplied by a form or an import row.
// Blank MembershipType and Interest default to Full and Both.
type MemberInput struct {
	MemberNumber string

	Name     string
	Address  string
	Suburb   string
	Postcode string
	State    string

	Phone1 *string
	Phone2 *string
	Email1 *string
	Email2 *string

	LifeMember bool
	Financial  bool

	MembershipType domain.MembershipType
	FamilyMembers  []string
	Interest       domain.Interest

	DatePaid   *time.Time
	ExpiryDate *time.Time

	Comments *string

	ReceiveEmails bool
	ReceiveSMS    bool
}

// UpdateMemberInput is a partial update. Required fields cannot be null.
type UpdateMemberInput struct {
	MemberNumber patch.Optional[string]

	Name     patch.Optional[string]
	Address  patch.Optional[string]
	Suburb   patch.Optional[string]
	Postcode patch.Optional[string]
	State    patch.Optional[string]

	Phone1 patch.Optional[string]
	Phone2 patch.Optional[string]
	Email1 patch.Optional[string]
	Email2 patch.Optional[string]

	LifeMember patch.Optional[bool]
	Financial  patch.Optional[bool]

	MembershipType patch.Optional[domain.MembershipType]
	FamilyMembers  patch.Optional[[]string]
	Interest       patch.Optional[domain.Interest]

	DatePaid   patch.Optional[time.Time]
	ExpiryDate patch.Optional[time.Time]

	Comments patch.Optional[string]

	ReceiveEmails patch.Optional[bool]
	ReceiveSMS    patch.Optional[bool]
}

// ListFilter selects members. MemberNumber (exact) wins over Search.
type ListFilter struct {
	MemberNumber string
	Search       string
}

// Outcome reports whether Upsert created or updated a member.
type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeUpdated
)
