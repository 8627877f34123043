package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/patch"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

type memberJSON struct {
	ID             string                                `json:"id"`
	MemberNumber   string                                `json:"member_number"`
	Name           string                                `json:"name"`
	Address        string                                `json:"address"`
	Suburb         string                                `json:"suburb"`
	Postcode       string                                `json:"postcode"`
	State          string                                `json:"state"`
	Phone1         nullable.Nullable[string]             `json:"phone1"`
	Phone2         nullable.Nullable[string]             `json:"phone2"`
	Email1         nullable.Nullable[string]             `json:"email1"`
	Email2         nullable.Nullable[string]             `json:"email2"`
	LifeMember     bool                                  `json:"life_member"`
	Financial      bool                                  `json:"financial"`
	MembershipType string                                `json:"membership_type"`
	FamilyMembers  []string                              `json:"family_members"`
	Interest       string                                `json:"interest"`
	DatePaid       nullable.Nullable[openapi_types.Date] `json:"date_paid"`
	ExpiryDate     nullable.Nullable[openapi_types.Date] `json:"expiry_date"`
	Comments       nullable.Nullable[string]             `json:"comments"`
	ReceiveEmails  bool                                  `json:"receive_emails"`
	ReceiveSMS     bool                                  `json:"receive_sms"`
	CreatedAt      time.Time                             `json:"created_at"`
	UpdatedAt      time.Time                             `json:"updated_at"`
}

// memberCreateRequest is a full member. Opt-in flags default to true when omitted.
type memberCreateRequest struct {
	MemberNumber   string              `json:"member_number"`
	Name           string              `json:"name"`
	Address        string              `json:"address"`
	Suburb         string              `json:"suburb"`
	Postcode       string              `json:"postcode"`
	State          string              `json:"state"`
	Phone1         *string             `json:"phone1"`
	Phone2         *string             `json:"phone2"`
	Email1         *string             `json:"email1"`
	Email2         *string             `json:"email2"`
	LifeMember     bool                `json:"life_member"`
	Financial      bool                `json:"financial"`
	MembershipType string              `json:"membership_type"`
	FamilyMembers  []string            `json:"family_members"`
	Interest       string              `json:"interest"`
	DatePaid       *openapi_types.Date `json:"date_paid"`
	ExpiryDate     *openapi_types.Date `json:"expiry_date"`
	Comments       *string             `json:"comments"`
	ReceiveEmails  *bool               `json:"receive_emails"`
	ReceiveSMS     *bool               `json:"receive_sms"`
}

type memberPatchRequest struct {
	MemberNumber   nullable.Nullable[string]             `json:"member_number"`
	Name           nullable.Nullable[string]             `json:"name"`
	Address        nullable.Nullable[string]             `json:"address"`
	Suburb         nullable.Nullable[string]             `json:"suburb"`
	Postcode       nullable.Nullable[string]             `json:"postcode"`
	State          nullable.Nullable[string]             `json:"state"`
	Phone1         nullable.Nullable[string]             `json:"phone1"`
	Phone2         nullable.Nullable[string]             `json:"phone2"`
	Email1         nullable.Nullable[string]             `json:"email1"`
	Email2         nullable.Nullable[string]             `json:"email2"`
	LifeMember     nullable.Nullable[bool]               `json:"life_member"`
	Financial      nullable.Nullable[bool]               `json:"financial"`
	MembershipType nullable.Nullable[string]             `json:"membership_type"`
	FamilyMembers  nullable.Nullable[[]string]           `json:"family_members"`
	Interest       nullable.Nullable[string]             `json:"interest"`
	DatePaid       nullable.Nullable[openapi_types.Date] `json:"date_paid"`
	ExpiryDate     nullable.Nullable[openapi_types.Date] `json:"expiry_date"`
	Comments       nullable.Nullable[string]             `json:"comments"`
	ReceiveEmails  nullable.Nullable[bool]               `json:"receive_emails"`
	ReceiveSMS     nullable.Nullable[bool]               `json:"receive_sms"`
}

type vehicleJSON struct {
	ID            string                                `json:"id"`
	MemberID      string                                `json:"member_id"`
	LogBookNumber string                                `json:"log_book_number"`
	Registration  string                                `json:"registration"`
	Make          string                                `json:"make"`
	Model         string                                `json:"model"`
	BodyStyle     string                                `json:"body_style"`
	Year          int                                   `json:"year"`
	EntryDate     nullable.Nullable[openapi_types.Date] `json:"entry_date"`
	ExpiryDate    nullable.Nullable[openapi_types.Date] `json:"expiry_date"`
	Status        string                                `json:"status"`
	Reason        string                                `json:"reason"`
	Archived      bool                                  `json:"archived"`
	CreatedAt     time.Time                             `json:"created_at"`
	UpdatedAt     time.Time                             `json:"updated_at"`
}

type vehicleCreateRequest struct {
	MemberID      string              `json:"member_id"`
	LogBookNumber string              `json:"log_book_number"`
	Registration  string              `json:"registration"`
	Make          string              `json:"make"`
	Model         string              `json:"model"`
	BodyStyle     string              `json:"body_style"`
	Year          int                 `json:"year"`
	EntryDate     *openapi_types.Date `json:"entry_date"`
	ExpiryDate    *openapi_types.Date `json:"expiry_date"`
	Status        string              `json:"status"`
	Reason        string              `json:"reason"`
}

type vehiclePatchRequest struct {
	LogBookNumber nullable.Nullable[string]             `json:"log_book_number"`
	Registration  nullable.Nullable[string]             `json:"registration"`
	Make          nullable.Nullable[string]             `json:"make"`
	Model         nullable.Nullable[string]             `json:"model"`
	BodyStyle     nullable.Nullable[string]             `json:"body_style"`
	Year          nullable.Nullable[int]                `json:"year"`
	EntryDate     nullable.Nullable[openapi_types.Date] `json:"entry_date"`
	ExpiryDate    nullable.Nullable[openapi_types.Date] `json:"expiry_date"`
	Status        nullable.Nullable[string]             `json:"status"`
	Reason        nullable.Nullable[string]             `json:"reason"`
}

type optionJSON struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type optionCreateRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type renewalRequest struct {
	Years int `json:"years"`
}

type exportMembersRequest struct {
	ReceiveEmails *bool   `json:"receive_emails"`
	ReceiveSMS    *bool   `json:"receive_sms"`
	Interest      *string `json:"interest"`
}

type reportRowJSON struct {
	Member     memberJSON `json:"member"`
	HasVehicle bool       `json:"has_vehicle"`
}

func memberFromDomain(m domain.Member) memberJSON {
	family := m.FamilyMembers
	if family == nil {
		family = []string{}
	}
	return memberJSON{
		ID:             string(m.ID),
		MemberNumber:   m.MemberNumber,
		Name:           m.Name,
		Address:        m.Address,
		Suburb:         m.Suburb,
		Postcode:       m.Postcode,
		State:          m.State,
		Phone1:         nullableString(m.Phone1),
		Phone2:         nullableString(m.Phone2),
		Email1:         nullableString(m.Email1),
		Email2:         nullableString(m.Email2),
		LifeMember:     m.LifeMember,
		Financial:      m.Financial,
		MembershipType: string(m.MembershipType),
		FamilyMembers:  family,
		Interest:       string(m.Interest),
		DatePaid:       nullableDate(m.DatePaid),
		ExpiryDate:     nullableDate(m.ExpiryDate),
		Comments:       nullableString(m.Comments),
		ReceiveEmails:  m.ReceiveEmails,
		ReceiveSMS:     m.ReceiveSMS,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func membersFromDomain(ms []domain.Member) []memberJSON {
	out := make([]memberJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, memberFromDomain(m))
	}
	return out
}

func (b memberCreateRequest) toInput() members.MemberInput {
	return members.MemberInput{
		MemberNumber:   b.MemberNumber,
		Name:           b.Name,
		Address:        b.Address,
		Suburb:         b.Suburb,
		Postcode:       b.Postcode,
		State:          b.State,
		Phone1:         b.Phone1,
		Phone2:         b.Phone2,
		Email1:         b.Email1,
		Email2:         b.Email2,
		LifeMember:     b.LifeMember,
		Financial:      b.Financial,
		MembershipType: domain.MembershipType(b.MembershipType),
		FamilyMembers:  b.FamilyMembers,
		Interest:       domain.Interest(b.Interest),
		DatePaid:       datePtr(b.DatePaid),
		ExpiryDate:     datePtr(b.ExpiryDate),
		Comments:       b.Comments,
		ReceiveEmails:  boolOr(b.ReceiveEmails, true),
		ReceiveSMS:     boolOr(b.ReceiveSMS, true),
	}
}

func (b memberPatchRequest) toInput() members.UpdateMemberInput {
	return members.UpdateMemberInput{
		MemberNumber:   optional(b.MemberNumber),
		Name:           optional(b.Name),
		Address:        optional(b.Address),
		Suburb:         optional(b.Suburb),
		Postcode:       optional(b.Postcode),
		State:          optional(b.State),
		Phone1:         optional(b.Phone1),
		Phone2:         optional(b.Phone2),
		Email1:         optional(b.Email1),
		Email2:         optional(b.Email2),
		LifeMember:     optional(b.LifeMember),
		Financial:      optional(b.Financial),
		MembershipType: optionalAs(b.MembershipType, func(s string) domain.MembershipType { return domain.MembershipType(s) }),
		FamilyMembers:  optional(b.FamilyMembers),
		Interest:       optionalAs(b.Interest, func(s string) domain.Interest { return domain.Interest(s) }),
		DatePaid:       optionalAs(b.DatePaid, dateTime),
		ExpiryDate:     optionalAs(b.ExpiryDate, dateTime),
		Comments:       optional(b.Comments),
		ReceiveEmails:  optional(b.ReceiveEmails),
		ReceiveSMS:     optional(b.ReceiveSMS),
	}
}

func vehicleFromDomain(v domain.Vehicle) vehicleJSON {
	return vehicleJSON{
		ID:            string(v.ID),
		MemberID:      string(v.MemberID),
		LogBookNumber: v.LogBookNumber,
		Registration:  v.Registration,
		Make:          v.Make,
		Model:         v.Model,
		BodyStyle:     v.BodyStyle,
		Year:          v.Year,
		EntryDate:     nullableDate(v.EntryDate),
		ExpiryDate:    nullableDate(v.ExpiryDate),
		Status:        v.Status,
		Reason:        v.Reason,
		Archived:      v.Archived,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func vehiclesFromDomain(vs []domain.Vehicle) []vehicleJSON {
	out := make([]vehicleJSON, 0, len(vs))
	for _, v := range vs {
		out = append(out, vehicleFromDomain(v))
	}
	return out
}

func (b vehicleCreateRequest) toInput() vehicles.VehicleInput {
	return vehicles.VehicleInput{
		MemberID:      domain.MemberID(b.MemberID),
		LogBookNumber: b.LogBookNumber,
		Registration:  b.Registration,
		Make:          b.Make,
		Model:         b.Model,
		BodyStyle:     b.BodyStyle,
		Year:          b.Year,
		EntryDate:     datePtr(b.EntryDate),
		ExpiryDate:    datePtr(b.ExpiryDate),
		Status:        b.Status,
		Reason:        b.Reason,
	}
}

func (b vehiclePatchRequest) toInput() vehicles.UpdateVehicleInput {
	return vehicles.UpdateVehicleInput{
		LogBookNumber: optional(b.LogBookNumber),
		Registration:  optional(b.Registration),
		Make:          optional(b.Make),
		Model:         optional(b.Model),
		BodyStyle:     optional(b.BodyStyle),
		Year:          optional(b.Year),
		EntryDate:     optionalAs(b.EntryDate, dateTime),
		ExpiryDate:    optionalAs(b.ExpiryDate, dateTime),
		Status:        optional(b.Status),
		Reason:        optional(b.Reason),
	}
}

func optionFromDomain(o domain.VehicleOption) optionJSON {
	return optionJSON{
		ID:        string(o.ID),
		Type:      string(o.Type),
		Value:     o.Value,
		CreatedAt: o.CreatedAt,
	}
}

func nullableString(p *string) nullable.Nullable[string] {
	if p == nil {
		return nullable.NewNullNullable[string]()
	}
	return nullable.NewNullableWithValue(*p)
}

func nullableDate(p *time.Time) nullable.Nullable[openapi_types.Date] {
	if p == nil {
		return nullable.NewNullNullable[openapi_types.Date]()
	}
	return nullable.NewNullableWithValue(openapi_types.Date{Time: *p})
}

func optional[T any](n nullable.Nullable[T]) patch.Optional[T] {
	return optionalAs(n, func(v T) T { return v })
}

func optionalAs[T, U any](n nullable.Nullable[T], conv func(T) U) patch.Optional[U] {
	if !n.IsSpecified() {
		return patch.Unspecified[U]()
	}
	if n.IsNull() {
		return patch.Null[U]()
	}
	v, err := n.Get()
	if err != nil {
		return patch.Null[U]()
	}
	return patch.Some(conv(v))
}

func dateTime(d openapi_types.Date) time.Time { return d.Time }

func datePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
