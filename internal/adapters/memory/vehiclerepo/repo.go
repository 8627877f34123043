package vehiclerepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

// Repo is an in-memory implementation of vehiclerepo.Repository.
// It is safe for concurrent use. Ownership is not checked here; the app layer resolves members.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.VehicleID]vehiclerepo.Vehicle
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.VehicleID]vehiclerepo.Vehicle)}
}

func (r *Repo) Create(ctx context.Context, v vehiclerepo.Vehicle) error {
	_ = ctx
	if v.ID == "" {
		return vehiclerepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[v.ID]; ok {
		return vehiclerepo.ErrAlreadyExists
	}
	r.byID[v.ID] = cloneVehicle(v)
	return nil
}

func (r *Repo) Update(ctx context.Context, v vehiclerepo.Vehicle) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[v.ID]; !ok {
		return vehiclerepo.ErrNotFound
	}
	r.byID[v.ID] = cloneVehicle(v)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.VehicleID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return vehiclerepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) DeleteByMember(ctx context.Context, memberID domain.MemberID) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.byID {
		if v.MemberID == memberID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.VehicleID) (vehiclerepo.Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byID[id]
	if !ok {
		return vehiclerepo.Vehicle{}, vehiclerepo.ErrNotFound
	}
	return cloneVehicle(v), nil
}

func (r *Repo) List(ctx context.Context, f vehiclerepo.Filter) ([]vehiclerepo.Vehicle, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg := strings.TrimSpace(f.Registration)
	out := make([]vehiclerepo.Vehicle, 0)
	for _, v := range r.byID {
		if f.ArchivedOnly && !v.Archived {
			continue
		}
		if v.Archived && !f.IncludeArchived && !f.ArchivedOnly {
			continue
		}
		if f.MemberID != "" && v.MemberID != f.MemberID {
			continue
		}
		if reg != "" && !strings.EqualFold(strings.TrimSpace(v.Registration), reg) {
			continue
		}
		out = append(out, cloneVehicle(v))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return string(out[i].ID) < string(out[j].ID)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneVehicle(v vehiclerepo.Vehicle) vehiclerepo.Vehicle {
	out := v
	if v.EntryDate != nil {
		d := *v.EntryDate
		out.EntryDate = &d
	}
	if v.ExpiryDate != nil {
		d := *v.ExpiryDate
		out.ExpiryDate = &d
	}
	return out
}
