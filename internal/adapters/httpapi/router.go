package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/platform/metrics"
)

type RouterOptions struct {
	// AuthMiddleware authenticates every route except /healthz and /metrics.
	AuthMiddleware func(http.Handler) http.Handler
	// Metrics, when set, times requests and serves /metrics.
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(NewRequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	if opts.AuthMiddleware != nil {
		r.Use(opts.AuthMiddleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/members", func(r chi.Router) {
		r.Get("/", s.ListMembers)
		r.Post("/", s.CreateMember)
		r.Get("/suburbs", s.ListSuburbs)
		r.Post("/export", s.ExportMembers)
		r.Get("/{id}", s.GetMember)
		r.Patch("/{id}", s.UpdateMember)
		r.Delete("/{id}", s.DeleteMember)
		r.Post("/{id}/renewal", s.RenewMember)
	})

	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/", s.ListVehicles)
		r.Post("/", s.CreateVehicle)
		r.Get("/{id}", s.GetVehicle)
		r.Patch("/{id}", s.UpdateVehicle)
		r.Delete("/{id}", s.ArchiveVehicle)
		r.Post("/{id}/restore", s.RestoreVehicle)
		r.Delete("/{id}/permanent", s.PermanentlyDeleteVehicle)
		r.Post("/{id}/renewal", s.RenewVehicle)
	})

	r.Route("/vehicle-options", func(r chi.Router) {
		r.Get("/", s.ListOptions)
		r.Post("/", s.CreateOption)
		r.Delete("/{id}", s.DeleteOption)
	})

	r.Post("/imports/{kind}", s.ImportCSV)
	r.Get("/stats/dashboard", s.Dashboard)
	r.Get("/reports/members", s.MemberReport)
	r.Get("/reports/members/export", s.ExportMemberReport)
	r.Get("/contact-lists", s.ContactList)

	return r
}
