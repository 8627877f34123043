package reports

import (
	"context"

	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/authz"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

// MemberSource lists members in member-number order.
type MemberSource interface {
	List(ctx context.Context, f members.ListFilter) ([]domain.Member, error)
}

// VehicleSource lists vehicles; the default filter excludes archived ones.
type VehicleSource interface {
	List(ctx context.Context, f vehicles.ListFilter) ([]domain.Vehicle, error)
}

// Service loads the roster and runs the read-only computations over it.
type Service struct {
	members  MemberSource
	vehicles VehicleSource
}

func NewService(members MemberSource, vehicles VehicleSource) *Service {
	return &Service{members: members, vehicles: vehicles}
}

func (s *Service) Dashboard(ctx context.Context, actor domain.Principal) (DashboardStats, error) {
	if err := authz.Require(actor.Role, authz.OpViewReports); err != nil {
		return DashboardStats{}, err
	}
	ms, vs, err := s.load(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return ComputeDashboard(ms, vs), nil
}

func (s *Service) MemberReport(ctx context.Context, actor domain.Principal, filter string) ([]ReportRow, FilterType, error) {
	if err := authz.Require(actor.Role, authz.OpViewReports); err != nil {
		return nil, "", err
	}
	ft, err := ParseFilterType(filter)
	if err != nil {
		return nil, "", apperr.Validation("invalid report filter", map[string]any{
			"filter_type": "must be one of all, unfinancial, with_vehicle, unfinancial_with_vehicle",
		})
	}
	ms, vs, err := s.load(ctx)
	if err != nil {
		return nil, "", err
	}
	return ComputeMemberReport(ms, vs, ft), ft, nil
}

// ContactList builds an email or sms list. An empty interest (or "all") applies no interest filter.
func (s *Service) ContactList(ctx context.Context, actor domain.Principal, listType, interest string) (ContactList, error) {
	if err := authz.Require(actor.Role, authz.OpViewReports); err != nil {
		return ContactList{}, err
	}
	fe := apperr.FieldErrors{}
	lt, err := ParseListType(listType)
	if err != nil {
		fe.Add("list_type", "must be email or sms")
	}
	var filter *domain.Interest
	if interest != "" && interest != "all" {
		i := domain.Interest(interest)
		if !i.Valid() {
			fe.Add("interest", "must be one of Drag Racing, Car Enthusiast, Both")
		}
		filter = &i
	}
	if err := fe.Err("invalid contact list request"); err != nil {
		return ContactList{}, err
	}

	ms, err := s.members.List(ctx, members.ListFilter{})
	if err != nil {
		return ContactList{}, err
	}
	return ComputeContactList(ms, lt, filter), nil
}

func (s *Service) load(ctx context.Context) ([]domain.Member, []domain.Vehicle, error) {
	ms, err := s.members.List(ctx, members.ListFilter{})
	if err != nil {
		return nil, nil, err
	}
	vs, err := s.vehicles.List(ctx, vehicles.ListFilter{})
	if err != nil {
		return nil, nil, err
	}
	return ms, vs, nil
}
