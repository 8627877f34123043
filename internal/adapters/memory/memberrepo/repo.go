package memberrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
)

// Repo is an in-memory implementation of memberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID     map[domain.MemberID]memberrepo.Member
	idByNumb map[string]domain.MemberID
}

func NewRepo() *Repo {
	return &Repo{
		byID:     make(map[domain.MemberID]memberrepo.Member),
		idByNumb: make(map[string]domain.MemberID),
	}
}

func (r *Repo) Create(ctx context.Context, m memberrepo.Member) error {
	_ = ctx
	if m.ID == "" {
		return memberrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return memberrepo.ErrAlreadyExists
	}
	if m.MemberNumber != "" {
		if _, ok := r.idByNumb[m.MemberNumber]; ok {
			return memberrepo.ErrMemberNumberTaken
		}
		r.idByNumb[m.MemberNumber] = m.ID
	}
	r.byID[m.ID] = cloneMember(m)
	return nil
}

func (r *Repo) Update(ctx context.Context, m memberrepo.Member) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[m.ID]
	if !ok {
		return memberrepo.ErrNotFound
	}
	if m.MemberNumber != existing.MemberNumber {
		if m.MemberNumber != "" {
			if owner, ok := r.idByNumb[m.MemberNumber]; ok && owner != m.ID {
				return memberrepo.ErrMemberNumberTaken
			}
			r.idByNumb[m.MemberNumber] = m.ID
		}
		if existing.MemberNumber != "" {
			delete(r.idByNumb, existing.MemberNumber)
		}
	}
	r.byID[m.ID] = cloneMember(m)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return memberrepo.ErrNotFound
	}
	if existing.MemberNumber != "" {
		delete(r.idByNumb, existing.MemberNumber)
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *Repo) GetByMemberNumber(ctx context.Context, number string) (memberrepo.Member, error) {
	_ = ctx
	if number == "" {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByNumb[number]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(r.byID[id]), nil
}

func (r *Repo) List(ctx context.Context, q memberrepo.ListQuery) ([]memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]memberrepo.Member, 0, len(r.byID))
	for _, m := range r.byID {
		switch {
		case q.MemberNumber != "":
			if m.MemberNumber != q.MemberNumber {
				continue
			}
		case needle != "":
			if !matchesSearch(m, needle) {
				continue
			}
		}
		out = append(out, cloneMember(m))
	}
	memberrepo.SortByMemberNumber(out)
	return out, nil
}

func (r *Repo) ListSuburbs(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, m := range r.byID {
		s := strings.TrimSpace(m.Suburb)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out, nil
}

func matchesSearch(m memberrepo.Member, needle string) bool {
	if strings.Contains(strings.ToLower(m.Name), needle) {
		return true
	}
	for _, e := range []*string{m.Email1, m.Email2} {
		if e != nil && strings.Contains(strings.ToLower(*e), needle) {
			return true
		}
	}
	return false
}

func cloneMember(m memberrepo.Member) memberrepo.Member {
	out := m
	out.Phone1 = cloneStringPtr(m.Phone1)
	out.Phone2 = cloneStringPtr(m.Phone2)
	out.Email1 = cloneStringPtr(m.Email1)
	out.Email2 = cloneStringPtr(m.Email2)
	out.Comments = cloneStringPtr(m.Comments)
	if m.FamilyMembers != nil {
		out.FamilyMembers = append([]string(nil), m.FamilyMembers...)
	}
	if m.DatePaid != nil {
		v := *m.DatePaid
		out.DatePaid = &v
	}
	if m.ExpiryDate != nil {
		v := *m.ExpiryDate
		out.ExpiryDate = &v
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
