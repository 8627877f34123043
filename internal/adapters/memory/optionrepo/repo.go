package optionrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
)

// Repo is an in-memory implementation of optionrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.OptionID]optionrepo.Option
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.OptionID]optionrepo.Option)}
}

func (r *Repo) Create(ctx context.Context, o optionrepo.Option) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.ID == o.ID {
			return optionrepo.ErrDuplicateValue
		}
		if existing.Type == o.Type && strings.EqualFold(existing.Value, o.Value) {
			return optionrepo.ErrDuplicateValue
		}
	}
	r.byID[o.ID] = o
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.OptionID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return optionrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OptionID) (optionrepo.Option, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return optionrepo.Option{}, optionrepo.ErrNotFound
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context, typ *domain.OptionType) ([]optionrepo.Option, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]optionrepo.Option, 0, len(r.byID))
	for _, o := range r.byID {
		if typ != nil && o.Type != *typ {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}
