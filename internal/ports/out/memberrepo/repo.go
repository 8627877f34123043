package memberrepo

import (
	"context"
	"sort"
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

// Member is the persistence shape used by the member repository.
// It's used as an internal record, not an HTTP DTO.
type Member struct {
	ID domain.MemberID
	// MemberNumber is the user-facing number. Blank is allowed (legacy imports) and is exempt
	// from the uniqueness constraint.
	MemberNumber string

	Name     string
	Address  string
	Suburb   string
	Postcode string
	State    string

	// Optional contact fields; nil means absent, never "".
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

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListQuery narrows List results. MemberNumber (exact) takes precedence over Search.
type ListQuery struct {
	MemberNumber string
	// Search is a case-insensitive substring matched against name, email1 and email2.
	Search string
}

// Repository provides access to persisted members.
//
// Result ordering expectations:
//   - List returns members ordered by member number (numeric when possible, see
//     domain.CompareMemberNumbers), ties broken by ID.
type Repository interface {
	Create(ctx context.Context, m Member) error
	Update(ctx context.Context, m Member) error
	Delete(ctx context.Context, id domain.MemberID) error

	GetByID(ctx context.Context, id domain.MemberID) (Member, error)
	// GetByMemberNumber looks a member up by its business key. Blank numbers never match.
	GetByMemberNumber(ctx context.Context, number string) (Member, error)

	List(ctx context.Context, q ListQuery) ([]Member, error)

	// ListSuburbs returns the distinct non-blank suburbs, sorted case-insensitively.
	ListSuburbs(ctx context.Context) ([]string, error)
}

// SortByMemberNumber orders members the way List implementations must return them.
func SortByMemberNumber(ms []Member) {
	sort.SliceStable(ms, func(i, j int) bool {
		if c := domain.CompareMemberNumbers(ms[i].MemberNumber, ms[j].MemberNumber); c != 0 {
			return c < 0
		}
		return string(ms[i].ID) < string(ms[j].ID)
	})
}
