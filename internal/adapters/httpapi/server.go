package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/app/exports"
	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/options"
	"github.com/steelcity-drags/roster-api/internal/app/reports"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
	clockport "github.com/steelcity-drags/roster-api/internal/ports/out/clock"
	"github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
)

const maxJSONBody = 1 << 20

// Services are the use cases the HTTP adapter delegates to.
type Services struct {
	Members  *members.Service
	Vehicles *vehicles.Service
	Options  *options.Service
	Imports  *imports.Service
	Reports  *reports.Service
	Exports  *exports.Service
}

// Server holds the handlers for every roster endpoint.
type Server struct {
	Services

	Idem  idempotency.Store
	Clock clockport.Clock
	Log   *zap.Logger

	// IdemTTL bounds how long a stored import response is replayed. Zero keeps records forever.
	IdemTTL time.Duration
}

func NewServer(svcs Services, idem idempotency.Store, clk clockport.Clock, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Services: svcs, Idem: idem, Clock: clk, Log: log}
}

// principal returns the authenticated caller, writing a 401 when there is none.
func (s *Server) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
	}
	return p, ok
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeAppError(w, r, s.Log, err)
}

// decodeJSON reads a single JSON object into dst, writing a 422 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

// decodeOptionalJSON decodes a body that may be absent. An empty body leaves dst unchanged,
// whatever the declared Content-Length.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if r.Body == nil {
		r.Body = http.NoBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) && optional {
		return true
	}
	msg := "invalid request body"
	if errors.Is(err, io.EOF) {
		msg = "missing request body"
	}
	writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg, map[string]any{"body": err.Error()})
	return false
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func writeCSV(w http.ResponseWriter, f exports.File) {
	w.Header().Set("Content-Type", exports.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Filename+`"`)
	w.Header().Set("X-Row-Count", strconv.Itoa(f.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Content)
}
