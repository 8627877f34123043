package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

// ListVehicles supports member_id, registration, include_archived and archived_only filters.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}
	q := r.URL.Query()
	f := vehicles.ListFilter{
		MemberID:     domain.MemberID(q.Get("member_id")),
		Registration: q.Get("registration"),
	}
	details := map[string]any{}
	if b, err := queryBool(r, "include_archived"); err != nil {
		details["include_archived"] = "must be a boolean"
	} else if b != nil {
		f.IncludeArchived = *b
	}
	if b, err := queryBool(r, "archived_only"); err != nil {
		details["archived_only"] = "must be a boolean"
	} else if b != nil {
		f.ArchivedOnly = *b
	}
	if len(details) > 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid query parameters", details)
		return
	}

	vs, err := s.Vehicles.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehiclesFromDomain(vs)})
}

func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}
	v, err := s.Vehicles.Get(r.Context(), domain.VehicleID(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle": vehicleFromDomain(v)})
}

func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body vehicleCreateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	v, err := s.Vehicles.Create(r.Context(), p, body.toInput())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"vehicle": vehicleFromDomain(v)})
}

func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body vehiclePatchRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	v, err := s.Vehicles.Update(r.Context(), p, domain.VehicleID(chi.URLParam(r, "id")), body.toInput())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle": vehicleFromDomain(v)})
}

// ArchiveVehicle is the soft delete behind DELETE /vehicles/{id}.
func (s *Server) ArchiveVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	v, err := s.Vehicles.Archive(r.Context(), p, domain.VehicleID(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle": vehicleFromDomain(v)})
}

func (s *Server) RestoreVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	v, err := s.Vehicles.Restore(r.Context(), p, domain.VehicleID(chi.URLParam(r, "id")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle": vehicleFromDomain(v)})
}

func (s *Server) PermanentlyDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	if err := s.Vehicles.PermanentDelete(r.Context(), p, domain.VehicleID(chi.URLParam(r, "id"))); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RenewVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	var body renewalRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	v, err := s.Vehicles.Renew(r.Context(), p, domain.VehicleID(chi.URLParam(r, "id")), body.Years)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle": vehicleFromDomain(v)})
}
