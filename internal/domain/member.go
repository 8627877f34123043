package domain

import "time"

type MembershipType string

const (
	MembershipFull   MembershipType = "Full"
	MembershipFamily MembershipType = "Family"
	MembershipJunior MembershipType = "Junior"
)

// MembershipTypes lists the allowed membership types in display order.
var MembershipTypes = []MembershipType{MembershipFull, MembershipFamily, MembershipJunior}

func (t MembershipType) Valid() bool {
	switch t {
	case MembershipFull, MembershipFamily, MembershipJunior:
		return true
	}
	return false
}

type Interest string

const (
	InterestDragRacing    Interest = "Drag Racing"
	InterestCarEnthusiast Interest = "Car Enthusiast"
	InterestBoth          Interest = "Both"
)

// Interests lists the allowed declared interests in display order.
var Interests = []Interest{InterestDragRacing, InterestCarEnthusiast, InterestBoth}

func (i Interest) Valid() bool {
	switch i {
	case InterestDragRacing, InterestCarEnthusiast, InterestBoth:
		return true
	}
	return false
}

// Member is the domain representation of a club member.
//
// Optional contact fields use nil for "absent"; they are never empty strings.
// DatePaid and ExpiryDate carry date-only semantics (UTC midnight).
type Member struct {
	ID           MemberID
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

	MembershipType MembershipType
	FamilyMembers  []string
	Interest       Interest

	DatePaid   *time.Time
	ExpiryDate *time.Time

	Comments *string

	ReceiveEmails bool
	ReceiveSMS    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Emails returns the member's present email addresses in field order.
func (m Member) Emails() []string {
	return presentValues(m.Email1, m.Email2)
}

// Phones returns the member's present phone numbers in field order.
func (m Member) Phones() []string {
	return presentValues(m.Phone1, m.Phone2)
}

func presentValues(ps ...*string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}
