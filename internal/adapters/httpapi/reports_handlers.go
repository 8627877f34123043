package httpapi

import (
	"net/http"
	"strings"

	"github.com/steelcity-drags/roster-api/internal/app/exports"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	stats, err := s.Reports.Dashboard(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MemberReport lists members with their has-vehicle flag. filter defaults to "all".
func (s *Server) MemberReport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	rows, ft, err := s.Reports.MemberReport(r.Context(), p, r.URL.Query().Get("filter"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]reportRowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, reportRowJSON{Member: memberFromDomain(row.Member), HasVehicle: row.HasVehicle})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filter_type": string(ft),
		"count":       len(out),
		"members":     out,
	})
}

func (s *Server) ExportMemberReport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	f, err := s.Exports.ExportReport(r.Context(), p, r.URL.Query().Get("filter"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeCSV(w, f)
}

// ContactList takes type (email|sms) and an optional interest.
func (s *Server) ContactList(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	cl, err := s.Reports.ContactList(r.Context(), p, q.Get("type"), q.Get("interest"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

// ExportMembers accepts an optional JSON body of filters; an empty body exports everyone.
func (s *Server) ExportMembers(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body exportMembersRequest
	if !decodeOptionalJSON(w, r, &body) {
		return
	}
	f := exports.MemberFilters{ReceiveEmails: body.ReceiveEmails, ReceiveSMS: body.ReceiveSMS}
	if body.Interest != nil && strings.TrimSpace(*body.Interest) != "" && *body.Interest != "all" {
		i := domain.Interest(strings.TrimSpace(*body.Interest))
		f.Interest = &i
	}
	file, err := s.Exports.ExportMembers(r.Context(), p, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeCSV(w, file)
}
