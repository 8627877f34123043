package members

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/authz"
	"github.com/steelcity-drags/roster-api/internal/app/patch"
	"github.com/steelcity-drags/roster-api/internal/domain"
	clockport "github.com/steelcity-drags/roster-api/internal/ports/out/clock"
	"github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
	"github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

const (
	codeMemberNotFound   = "MEMBER_NOT_FOUND"
	codeMemberNumberUsed = "MEMBER_NUMBER_IN_USE"
)

type Service struct {
	repo     memberrepo.Repository
	vehicles vehiclerepo.Repository
	clk      clockport.Clock
	log      *zap.Logger

	// Renewal computes membership renewal windows.
	Renewal domain.RenewalPolicy

	newMemberID func() domain.MemberID
}

func NewService(repo memberrepo.Repository, vehicles vehiclerepo.Repository, clk clockport.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		clk:      clk,
		log:      log,
		Renewal: domain.RenewalPolicy{
			Anchor:         domain.MonthDay{Month: time.May, Day: 31},
			LookbackMonths: 6,
		},
		newMemberID: func() domain.MemberID {
			return domain.MemberID(uuid.NewString())
		},
	}
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Member, error) {
	ms, err := s.repo.List(ctx, memberrepo.ListQuery{
		MemberNumber: strings.TrimSpace(f.MemberNumber),
		Search:       strings.TrimSpace(f.Search),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomain(m))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Member{}, mapRepoErr(err)
	}
	return toDomain(m), nil
}

// FindByNumber resolves a member by its business key. Blank numbers never match.
func (s *Service) FindByNumber(ctx context.Context, number string) (domain.Member, bool, error) {
	m, err := s.repo.GetByMemberNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}
	return toDomain(m), true, nil
}

func (s *Service) ListSuburbs(ctx context.Context) ([]string, error) {
	return s.repo.ListSuburbs(ctx)
}

func (s *Service) Create(ctx context.Context, actor domain.Principal, in MemberInput) (domain.Member, error) {
	if err := authz.Require(actor.Role, authz.OpMemberCreate); err != nil {
		return domain.Member{}, err
	}
	return s.create(ctx, in)
}

// Update applies a partial update to an existing member.
func (s *Service) Update(ctx context.Context, actor domain.Principal, id domain.MemberID, in UpdateMemberInput) (domain.Member, error) {
	if err := authz.Require(actor.Role, authz.OpMemberUpdate); err != nil {
		return domain.Member{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Member{}, mapRepoErr(err)
	}
	merged, err := applyPatch(toDomain(existing), in)
	if err != nil {
		return domain.Member{}, err
	}
	return s.replace(ctx, existing, merged)
}

// Upsert creates a member, or replaces the member whose number matches in.MemberNumber.
func (s *Service) Upsert(ctx context.Context, actor domain.Principal, in MemberInput) (domain.Member, Outcome, error) {
	if err := authz.Require(actor.Role, authz.OpMemberUpdate); err != nil {
		return domain.Member{}, 0, err
	}
	existing, err := s.repo.GetByMemberNumber(ctx, strings.TrimSpace(in.MemberNumber))
	switch {
	case err == nil:
		m, err := s.replace(ctx, existing, in)
		return m, OutcomeUpdated, err
	case errors.Is(err, memberrepo.ErrNotFound):
		if err := authz.Require(actor.Role, authz.OpMemberCreate); err != nil {
			return domain.Member{}, 0, err
		}
		m, err := s.create(ctx, in)
		return m, OutcomeCreated, err
	default:
		return domain.Member{}, 0, err
	}
}

// Delete removes the member and every vehicle it owns.
func (s *Service) Delete(ctx context.Context, actor domain.Principal, id domain.MemberID) error {
	if err := authz.Require(actor.Role, authz.OpMemberDelete); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	n, err := s.vehicles.DeleteByMember(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.log.Info("member deleted",
		zap.String("member_id", string(id)),
		zap.Int("vehicles_removed", n),
		zap.String("subject", string(actor.Subject)),
	)
	return nil
}

// Renew records a payment covering the given number of years and marks the member financial.
func (s *Service) Renew(ctx context.Context, actor domain.Principal, id domain.MemberID, years int) (domain.Member, error) {
	if err := authz.Require(actor.Role, authz.OpMemberRenew); err != nil {
		return domain.Member{}, err
	}
	if err := validateYears(years); err != nil {
		return domain.Member{}, err
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Member{}, mapRepoErr(err)
	}
	w, err := domain.ComputeRenewalWindow(clockport.Today(s.clk), m.DatePaid, years, s.Renewal)
	if err != nil {
		return domain.Member{}, apperr.Validation("invalid renewal", map[string]any{"years": err.Error()})
	}
	m.DatePaid = &w.Start
	m.ExpiryDate = &w.Expiry
	m.Financial = true
	m.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		return domain.Member{}, mapRepoErr(err)
	}
	return toDomain(m), nil
}

func (s *Service) create(ctx context.Context, in MemberInput) (domain.Member, error) {
	norm, err := normalizeInput(in)
	if err != nil {
		return domain.Member{}, err
	}
	now := s.clk.Now()
	m := toRecord(s.newMemberID(), norm)
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.repo.Create(ctx, m); err != nil {
		return domain.Member{}, mapRepoErr(err)
	}
	return toDomain(m), nil
}

func (s *Service) replace(ctx context.Context, existing memberrepo.Member, in MemberInput) (domain.Member, error) {
	norm, err := normalizeInput(in)
	if err != nil {
		return domain.Member{}, err
	}
	m := toRecord(existing.ID, norm)
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		return domain.Member{}, mapRepoErr(err)
	}
	return toDomain(m), nil
}

func validateYears(years int) error {
	if years < 1 || years > 3 {
		return apperr.Validation("invalid renewal", map[string]any{"years": "must be 1, 2 or 3"})
	}
	return nil
}

// normalizeInput trims and validates a member input. Every failing field is reported.
func normalizeInput(in MemberInput) (MemberInput, error) {
	fe := apperr.FieldErrors{}
	out := in

	out.MemberNumber = strings.TrimSpace(in.MemberNumber)
	out.Name = domain.NormalizeHumanName(in.Name)
	out.Address = strings.TrimSpace(domain.NormalizeNewlines(in.Address))
	out.Suburb = strings.TrimSpace(in.Suburb)
	out.Postcode = strings.TrimSpace(in.Postcode)
	out.State = strings.TrimSpace(in.State)
	for field, v := range map[string]string{
		"name":     out.Name,
		"address":  out.Address,
		"suburb":   out.Suburb,
		"postcode": out.Postcode,
		"state":    out.State,
	} {
		if v == "" {
			fe.Add(field, "is required")
		}
	}

	out.Phone1 = domain.NormalizeOptional(in.Phone1)
	out.Phone2 = domain.NormalizeOptional(in.Phone2)
	out.Email1 = domain.NormalizeOptional(in.Email1)
	out.Email2 = domain.NormalizeOptional(in.Email2)
	out.Comments = domain.NormalizeText(in.Comments)
	if out.Email1 != nil && !govalidator.IsEmail(*out.Email1) {
		fe.Add("email1", "must be a valid email address")
	}
	if out.Email2 != nil && !govalidator.IsEmail(*out.Email2) {
		fe.Add("email2", "must be a valid email address")
	}

	out.MembershipType = domain.MembershipType(strings.TrimSpace(string(in.MembershipType)))
	if out.MembershipType == "" {
		out.MembershipType = domain.MembershipFull
	}
	if !out.MembershipType.Valid() {
		fe.Add("membership_type", "must be one of Full, Family, Junior")
	}
	out.Interest = domain.Interest(strings.TrimSpace(string(in.Interest)))
	if out.Interest == "" {
		out.Interest = domain.InterestBoth
	}
	if !out.Interest.Valid() {
		fe.Add("interest", "must be one of Drag Racing, Car Enthusiast, Both")
	}

	out.FamilyMembers = nil
	if out.MembershipType == domain.MembershipFamily {
		if names := domain.NormalizeNameList(in.FamilyMembers); len(names) > 0 {
			out.FamilyMembers = names
		}
	}

	out.DatePaid = dateOnlyPtr(in.DatePaid)
	out.ExpiryDate = dateOnlyPtr(in.ExpiryDate)

	if err := fe.Err("invalid member"); err != nil {
		return MemberInput{}, err
	}
	return out, nil
}

func applyPatch(m domain.Member, p UpdateMemberInput) (MemberInput, error) {
	fe := apperr.FieldErrors{}
	in := fromDomain(m)

	setRequired(fe, "name", p.Name, &in.Name)
	setRequired(fe, "address", p.Address, &in.Address)
	setRequired(fe, "suburb", p.Suburb, &in.Suburb)
	setRequired(fe, "postcode", p.Postcode, &in.Postcode)
	setRequired(fe, "state", p.State, &in.State)
	setRequired(fe, "life_member", p.LifeMember, &in.LifeMember)
	setRequired(fe, "financial", p.Financial, &in.Financial)
	setRequired(fe, "membership_type", p.MembershipType, &in.MembershipType)
	setRequired(fe, "interest", p.Interest, &in.Interest)
	setRequired(fe, "receive_emails", p.ReceiveEmails, &in.ReceiveEmails)
	setRequired(fe, "receive_sms", p.ReceiveSMS, &in.ReceiveSMS)

	// A null member number clears it.
	if p.MemberNumber.IsSpecified() {
		in.MemberNumber = p.MemberNumber.Value()
	}
	if p.FamilyMembers.IsSpecified() {
		in.FamilyMembers = p.FamilyMembers.Value()
	}

	setOptional(p.Phone1, &in.Phone1)
	setOptional(p.Phone2, &in.Phone2)
	setOptional(p.Email1, &in.Email1)
	setOptional(p.Email2, &in.Email2)
	setOptional(p.Comments, &in.Comments)
	setOptional(p.DatePaid, &in.DatePaid)
	setOptional(p.ExpiryDate, &in.ExpiryDate)

	if err := fe.Err("invalid member"); err != nil {
		return MemberInput{}, err
	}
	return in, nil
}

func setRequired[T any](fe apperr.FieldErrors, field string, o patch.Optional[T], dst *T) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		fe.Add(field, "cannot be null")
		return
	}
	*dst = o.Value()
}

func setOptional[T any](o patch.Optional[T], dst **T) {
	if !o.IsSpecified() {
		return
	}
	*dst = nil
	if o.HasValue() {
		v := o.Value()
		*dst = &v
	}
}

func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memberrepo.ErrNotFound):
		return apperr.NotFound(codeMemberNotFound, "member not found")
	case errors.Is(err, memberrepo.ErrMemberNumberTaken):
		return apperr.Conflict(codeMemberNumberUsed, "member number is already in use")
	}
	return err
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}
