package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}
	q := r.URL.Query()
	ms, err := s.Members.List(r.Context(), members.ListFilter{
		MemberNumber: q.Get("member_number"),
		Search:       q.Get("search"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": membersFromDomain(ms)})
}

func (s *Server) ListSuburbs(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}
	subs, err := s.Members.ListSuburbs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if subs == nil {
		subs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suburbs": subs})
}

func (s *Server) GetMember(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}
	m, err := s.Members.Get(r.Context(), domain.MemberID(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": memberFromDomain(m)})
}

func (s *Server) CreateMember(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body memberCreateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := s.Members.Create(r.Context(), p, body.toInput())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"member": memberFromDomain(m)})
}

func (s *Server) UpdateMember(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body memberPatchRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := s.Members.Update(r.Context(), p, domain.MemberID(chi.URLParam(r, "id")), body.toInput())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": memberFromDomain(m)})
}

// DeleteMember removes the member and every vehicle it owns.
func (s *Server) DeleteMember(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	if err := s.Members.Delete(r.Context(), p, domain.MemberID(chi.URLParam(r, "id"))); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RenewMember(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body renewalRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := s.Members.Renew(r.Context(), p, domain.MemberID(chi.URLParam(r, "id")), body.Years)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": memberFromDomain(m)})
}
