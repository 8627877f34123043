package vehicles

import (
	"context"
	"errors"
	"strings"
	"time"

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
	codeVehicleNotFound = "VEHICLE_NOT_FOUND"
	codeMemberNotFound  = "MEMBER_NOT_FOUND"
)

type Service struct {
	repo    vehiclerepo.Repository
	members memberrepo.Repository
	clk     clockport.Clock
	log     *zap.Logger

	// Renewal computes vehicle registration renewal windows.
	Renewal domain.RenewalPolicy

	newVehicleID func() domain.VehicleID
}

func NewService(repo vehiclerepo.Repository, members memberrepo.Repository, clk clockport.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		members: members,
		clk:     clk,
		log:     log,
		Renewal: domain.RenewalPolicy{
			Anchor:         domain.MonthDay{Month: time.June, Day: 30},
			LookbackMonths: 6,
		},
		newVehicleID: func() domain.VehicleID {
			return domain.VehicleID(uuid.NewString())
		},
	}
}

// List returns vehicles matching f. Archived vehicles are excluded unless requested.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Vehicle, error) {
	vs, err := s.repo.List(ctx, vehiclerepo.Filter{
		MemberID:        f.MemberID,
		Registration:    strings.TrimSpace(f.Registration),
		IncludeArchived: f.IncludeArchived,
		ArchivedOnly:    f.ArchivedOnly,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Vehicle, 0, len(vs))
	for _, v := range vs {
		out = append(out, toDomain(v))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id domain.VehicleID) (domain.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	return toDomain(v), nil
}

func (s *Service) Create(ctx context.Context, actor domain.Principal, in VehicleInput) (domain.Vehicle, error) {
	if err := authz.Require(actor.Role, authz.OpVehicleCreate); err != nil {
		return domain.Vehicle{}, err
	}
	norm, err := normalizeInput(in)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if _, err := s.members.GetByID(ctx, norm.MemberID); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Vehicle{}, apperr.NotFound(codeMemberNotFound, "owning member not found")
		}
		return domain.Vehicle{}, err
	}

	now := s.clk.Now()
	v := toRecord(s.newVehicleID(), norm)
	v.CreatedAt = now
	v.UpdatedAt = now
	if err := s.repo.Create(ctx, v); err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	return toDomain(v), nil
}

func (s *Service) Update(ctx context.Context, actor domain.Principal, id domain.VehicleID, in UpdateVehicleInput) (domain.Vehicle, error) {
	if err := authz.Require(actor.Role, authz.OpVehicleUpdate); err != nil {
		return domain.Vehicle{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	merged, err := applyPatch(toDomain(existing), in)
	if err != nil {
		return domain.Vehicle{}, err
	}
	norm, err := normalizeInput(merged)
	if err != nil {
		return domain.Vehicle{}, err
	}
	v := toRecord(existing.ID, norm)
	v.Archived = existing.Archived
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, v); err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	return toDomain(v), nil
}

// Archive hides the vehicle from default listings. Archiving twice is a no-op.
func (s *Service) Archive(ctx context.Context, actor domain.Principal, id domain.VehicleID) (domain.Vehicle, error) {
	if err := authz.Require(actor.Role, authz.OpVehicleArchive); err != nil {
		return domain.Vehicle{}, err
	}
	return s.setArchived(ctx, id, true)
}

// Restore clears the archived flag. Restoring an active vehicle is a no-op.
func (s *Service) Restore(ctx context.Context, actor domain.Principal, id domain.VehicleID) (domain.Vehicle, error) {
	if err := authz.Require(actor.Role, authz.OpVehicleRestore); err != nil {
		return domain.Vehicle{}, err
	}
	return s.setArchived(ctx, id, false)
}

// PermanentDelete removes the vehicle record. It cannot be undone.
func (s *Service) PermanentDelete(ctx context.Context, actor domain.Principal, id domain.VehicleID) error {
	if err := authz.Require(actor.Role, authz.OpVehiclePermanentDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.log.Info("vehicle permanently deleted",
		zap.String("vehicle_id", string(id)),
		zap.String("subject", string(actor.Subject)),
	)
	return nil
}

// Renew sets a new entry date and registration expiry for the given number of years.
func (s *Service) Renew(ctx context.Context, actor domain.Principal, id domain.VehicleID, years int) (domain.Vehicle, error) {
	if err := authz.Require(actor.Role, authz.OpVehicleRenew); err != nil {
		return domain.Vehicle{}, err
	}
	if years < 1 || years > 3 {
		return domain.Vehicle{}, apperr.Validation("invalid renewal", map[string]any{"years": "must be 1, 2 or 3"})
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	w, err := domain.ComputeRenewalWindow(clockport.Today(s.clk), v.EntryDate, years, s.Renewal)
	if err != nil {
		return domain.Vehicle{}, apperr.Validation("invalid renewal", map[string]any{"years": err.Error()})
	}
	v.EntryDate = &w.Start
	v.ExpiryDate = &w.Expiry
	v.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, v); err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	return toDomain(v), nil
}

func (s *Service) setArchived(ctx context.Context, id domain.VehicleID, archived bool) (domain.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	if v.Archived == archived {
		return toDomain(v), nil
	}
	v.Archived = archived
	v.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, v); err != nil {
		return domain.Vehicle{}, mapRepoErr(err)
	}
	return toDomain(v), nil
}

func normalizeInput(in VehicleInput) (VehicleInput, error) {
	fe := apperr.FieldErrors{}
	out := in

	out.MemberID = domain.MemberID(strings.TrimSpace(string(in.MemberID)))
	if out.MemberID == "" {
		fe.Add("member_id", "is required")
	}
	out.LogBookNumber = strings.TrimSpace(in.LogBookNumber)
	out.Registration = strings.TrimSpace(in.Registration)
	out.Make = strings.TrimSpace(in.Make)
	out.Model = strings.TrimSpace(in.Model)
	out.BodyStyle = strings.TrimSpace(in.BodyStyle)
	for field, v := range map[string]string{
		"log_book_number": out.LogBookNumber,
		"registration":    out.Registration,
		"make":            out.Make,
		"model":           out.Model,
		"body_style":      out.BodyStyle,
	} {
		if v == "" {
			fe.Add(field, "is required")
		}
	}
	if in.Year < 0 {
		fe.Add("year", "must not be negative")
	}

	out.Status = strings.TrimSpace(in.Status)
	if out.Status == "" {
		out.Status = domain.DefaultVehicleStatus
	}
	out.Reason = strings.TrimSpace(in.Reason)
	out.EntryDate = dateOnlyPtr(in.EntryDate)
	out.ExpiryDate = dateOnlyPtr(in.ExpiryDate)

	if err := fe.Err("invalid vehicle"); err != nil {
		return VehicleInput{}, err
	}
	return out, nil
}

func applyPatch(v domain.Vehicle, p UpdateVehicleInput) (VehicleInput, error) {
	fe := apperr.FieldErrors{}
	in := fromDomain(v)

	setRequired(fe, "log_book_number", p.LogBookNumber, &in.LogBookNumber)
	setRequired(fe, "registration", p.Registration, &in.Registration)
	setRequired(fe, "make", p.Make, &in.Make)
	setRequired(fe, "model", p.Model, &in.Model)
	setRequired(fe, "body_style", p.BodyStyle, &in.BodyStyle)
	setRequired(fe, "year", p.Year, &in.Year)

	// Null status resets to the default; null reason clears it.
	if p.Status.IsSpecified() {
		in.Status = p.Status.Value()
	}
	if p.Reason.IsSpecified() {
		in.Reason = p.Reason.Value()
	}
	if p.EntryDate.IsSpecified() {
		in.EntryDate = nil
		if p.EntryDate.HasValue() {
			d := p.EntryDate.Value()
			in.EntryDate = &d
		}
	}
	if p.ExpiryDate.IsSpecified() {
		in.ExpiryDate = nil
		if p.ExpiryDate.HasValue() {
			d := p.ExpiryDate.Value()
			in.ExpiryDate = &d
		}
	}

	if err := fe.Err("invalid vehicle"); err != nil {
		return VehicleInput{}, err
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

func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vehiclerepo.ErrNotFound):
		return apperr.NotFound(codeVehicleNotFound, "vehicle not found")
	case errors.Is(err, vehiclerepo.ErrOwnerNotFound):
		return apperr.NotFound(codeMemberNotFound, "owning member not found")
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
