package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

func (s *Server) ListOptions(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}
	var typ *domain.OptionType
	if v := r.URL.Query().Get("type"); v != "" {
		t := domain.OptionType(v)
		typ = &t
	}
	os, err := s.Options.List(r.Context(), typ)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]optionJSON, 0, len(os))
	for _, o := range os {
		out = append(out, optionFromDomain(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": out})
}

func (s *Server) CreateOption(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body optionCreateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	o, err := s.Options.Create(r.Context(), p, domain.OptionType(body.Type), body.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"option": optionFromDomain(o)})
}

func (s *Server) DeleteOption(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	if err := s.Options.Delete(r.Context(), p, domain.OptionID(chi.URLParam(r, "id"))); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
