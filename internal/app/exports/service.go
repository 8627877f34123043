// Package exports renders roster data as downloadable CSV files.
package exports

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/authz"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/reports"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
	clockport "github.com/steelcity-drags/roster-api/internal/ports/out/clock"
)

// MemberColumns is the member CSV layout shared by export and import.
var MemberColumns = []string{
	"member_number",
	"name",
	"address",
	"suburb",
	"postcode",
	"state",
	"phone1",
	"phone2",
	"email1",
	"email2",
	"life_member",
	"financial",
	"membership_type",
	"family_members",
	"interest",
	"date_paid",
	"expiry_date",
	"comments",
	"receive_emails",
	"receive_sms",
}

var reportColumns = []string{"Member #", "Name", "Phone", "Email", "Financial", "Has Vehicle"}

// FamilySeparator joins family member names in a single CSV cell.
const FamilySeparator = ";"

// MemberFilters are independent predicates combined with AND; nil imposes no constraint.
type MemberFilters struct {
	ReceiveEmails *bool
	ReceiveSMS    *bool
	Interest      *domain.Interest
}

func (f MemberFilters) match(m domain.Member) bool {
	if f.ReceiveEmails != nil && m.ReceiveEmails != *f.ReceiveEmails {
		return false
	}
	if f.ReceiveSMS != nil && m.ReceiveSMS != *f.ReceiveSMS {
		return false
	}
	if f.Interest != nil && m.Interest != *f.Interest {
		return false
	}
	return true
}

// File is a rendered export.
type File struct {
	Filename string
	Rows     int
	Content  []byte
}

const ContentType = "text/csv; charset=utf-8"

type Service struct {
	members  reports.MemberSource
	vehicles reports.VehicleSource
	clk      clockport.Clock
}

func NewService(members reports.MemberSource, vehicles reports.VehicleSource, clk clockport.Clock) *Service {
	return &Service{members: members, vehicles: vehicles, clk: clk}
}

// ExportMembers renders every member matching f, in member-number order.
func (s *Service) ExportMembers(ctx context.Context, actor domain.Principal, f MemberFilters) (File, error) {
	if err := authz.Require(actor.Role, authz.OpExportMembers); err != nil {
		return File{}, err
	}
	if f.Interest != nil && !f.Interest.Valid() {
		return File{}, apperr.Validation("invalid export filters", map[string]any{
			"interest": "must be one of Drag Racing, Car Enthusiast, Both",
		})
	}
	ms, err := s.members.List(ctx, members.ListFilter{})
	if err != nil {
		return File{}, err
	}
	selected := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		if f.match(m) {
			selected = append(selected, m)
		}
	}
	return File{
		Filename: fmt.Sprintf("members_export_%s.csv", s.today()),
		Rows:     len(selected),
		Content:  RenderMembers(selected),
	}, nil
}

// ExportReport renders the member report for filter.
func (s *Service) ExportReport(ctx context.Context, actor domain.Principal, filter string) (File, error) {
	if err := authz.Require(actor.Role, authz.OpViewReports); err != nil {
		return File{}, err
	}
	ft, err := reports.ParseFilterType(filter)
	if err != nil {
		return File{}, apperr.Validation("invalid report filter", map[string]any{
			"filter_type": "must be one of all, unfinancial, with_vehicle, unfinancial_with_vehicle",
		})
	}
	ms, err := s.members.List(ctx, members.ListFilter{})
	if err != nil {
		return File{}, err
	}
	vs, err := s.vehicles.List(ctx, vehicles.ListFilter{})
	if err != nil {
		return File{}, err
	}
	rows := reports.ComputeMemberReport(ms, vs, ft)
	return File{
		Filename: fmt.Sprintf("member_report_%s_%s.csv", ft, s.today()),
		Rows:     len(rows),
		Content:  RenderReport(rows),
	}, nil
}

func (s *Service) today() string {
	return clockport.Today(s.clk).Format(domain.DateLayout)
}

// RenderMembers writes members using MemberColumns.
func RenderMembers(ms []domain.Member) []byte {
	var t table
	t.header(MemberColumns)
	for _, m := range ms {
		t.row([]cell{
			text(m.MemberNumber),
			text(m.Name),
			text(m.Address),
			text(m.Suburb),
			text(m.Postcode),
			text(m.State),
			text(deref(m.Phone1)),
			text(deref(m.Phone2)),
			text(deref(m.Email1)),
			text(deref(m.Email2)),
			plain(strconv.FormatBool(m.LifeMember)),
			plain(strconv.FormatBool(m.Financial)),
			text(string(m.MembershipType)),
			text(strings.Join(m.FamilyMembers, FamilySeparator)),
			text(string(m.Interest)),
			plain(domain.FormatDate(m.DatePaid)),
			plain(domain.FormatDate(m.ExpiryDate)),
			text(deref(m.Comments)),
			plain(strconv.FormatBool(m.ReceiveEmails)),
			plain(strconv.FormatBool(m.ReceiveSMS)),
		})
	}
	return t.bytes()
}

// RenderReport writes report rows with Yes/No flags.
func RenderReport(rows []reports.ReportRow) []byte {
	var t table
	t.header(reportColumns)
	for _, r := range rows {
		t.row([]cell{
			text(r.Member.MemberNumber),
			text(r.Member.Name),
			text(deref(r.Member.Phone1)),
			text(deref(r.Member.Email1)),
			plain(yesNo(r.Member.Financial)),
			plain(yesNo(r.HasVehicle)),
		})
	}
	return t.bytes()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
