// Package options manages the admin-maintained vehicle status and reason vocabulary.
package options

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/authz"
	"github.com/steelcity-drags/roster-api/internal/domain"
	clockport "github.com/steelcity-drags/roster-api/internal/ports/out/clock"
	"github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
)

var (
	DefaultStatuses = []string{"Active", "Cancelled", "Inactive"}
	DefaultReasons  = []string{"Blank", "Sold Vehicle", "No Longer Financial", "Lost Log Book"}
)

type Service struct {
	repo optionrepo.Repository
	clk  clockport.Clock
	log  *zap.Logger

	newOptionID func() domain.OptionID
}

func NewService(repo optionrepo.Repository, clk clockport.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo: repo,
		clk:  clk,
		log:  log,
		newOptionID: func() domain.OptionID {
			return domain.OptionID(uuid.NewString())
		},
	}
}

// List returns options of the given type, or all options when typ is nil.
func (s *Service) List(ctx context.Context, typ *domain.OptionType) ([]domain.VehicleOption, error) {
	if typ != nil && !typ.Valid() {
		return nil, invalidType()
	}
	os, err := s.repo.List(ctx, typ)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VehicleOption, 0, len(os))
	for _, o := range os {
		out = append(out, toDomain(o))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Principal, typ domain.OptionType, value string) (domain.VehicleOption, error) {
	if err := authz.Require(actor.Role, authz.OpOptionCreate); err != nil {
		return domain.VehicleOption{}, err
	}
	fe := apperr.FieldErrors{}
	if !typ.Valid() {
		fe.Add("type", "must be status or reason")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		fe.Add("value", "is required")
	}
	if err := fe.Err("invalid vehicle option"); err != nil {
		return domain.VehicleOption{}, err
	}
	return s.create(ctx, typ, value)
}

func (s *Service) Delete(ctx context.Context, actor domain.Principal, id domain.OptionID) error {
	if err := authz.Require(actor.Role, authz.OpOptionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, optionrepo.ErrNotFound) {
			return apperr.NotFound("OPTION_NOT_FOUND", "vehicle option not found")
		}
		return err
	}
	return nil
}

// SeedDefaults fills each option type that has no values yet. Types that already hold values
// are left untouched. It returns how many options were created.
func (s *Service) SeedDefaults(ctx context.Context, defaults map[domain.OptionType][]string) (int, error) {
	created := 0
	for _, typ := range []domain.OptionType{domain.OptionTypeStatus, domain.OptionTypeReason} {
		existing, err := s.repo.List(ctx, &typ)
		if err != nil {
			return created, err
		}
		if len(existing) > 0 {
			continue
		}
		for _, v := range defaults[typ] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, err := s.create(ctx, typ, v); err != nil {
				if apperr.Is(err, apperr.KindConflict) {
					continue
				}
				return created, err
			}
			created++
		}
	}
	if created > 0 {
		s.log.Info("seeded vehicle options", zap.Int("created", created))
	}
	return created, nil
}

// Defaults returns the built-in seed vocabulary.
func Defaults() map[domain.OptionType][]string {
	return map[domain.OptionType][]string{
		domain.OptionTypeStatus: append([]string(nil), DefaultStatuses...),
		domain.OptionTypeReason: append([]string(nil), DefaultReasons...),
	}
}

func (s *Service) create(ctx context.Context, typ domain.OptionType, value string) (domain.VehicleOption, error) {
	o := optionrepo.Option{
		ID:        s.newOptionID(),
		Type:      typ,
		Value:     value,
		CreatedAt: s.clk.Now(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		if errors.Is(err, optionrepo.ErrDuplicateValue) {
			return domain.VehicleOption{}, apperr.Conflict("OPTION_ALREADY_EXISTS", "value already exists for this option type")
		}
		return domain.VehicleOption{}, err
	}
	return toDomain(o), nil
}

func invalidType() error {
	return apperr.Validation("invalid vehicle option type", map[string]any{"type": "must be status or reason"})
}

func toDomain(o optionrepo.Option) domain.VehicleOption {
	return domain.VehicleOption{ID: o.ID, Type: o.Type, Value: o.Value, CreatedAt: o.CreatedAt}
}
