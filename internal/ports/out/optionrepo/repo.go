package optionrepo

import (
	"context"
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

type Option struct {
	ID        domain.OptionID
	Type      domain.OptionType
	Value     string
	CreatedAt time.Time
}

// Repository persists the vehicle status/reason vocabulary.
//
// List returns options ordered by type, then CreatedAt, then ID. A nil type lists every option.
type Repository interface {
	Create(ctx context.Context, o Option) error
	Delete(ctx context.Context, id domain.OptionID) error
	GetByID(ctx context.Context, id domain.OptionID) (Option, error)
	List(ctx context.Context, typ *domain.OptionType) ([]Option, error)
}
