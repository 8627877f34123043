package imports

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

// FamilySeparator splits the family_members cell.
const FamilySeparator = ";"

var (
	memberRequired  = []string{"name", "address", "suburb", "postcode", "state"}
	vehicleRequired = []string{"log_book_number", "registration", "make", "model", "body_style"}
)

// header maps normalized column names to their index. Unknown columns are kept but never read.
type header map[string]int

func normalizeColumn(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

func readHeader(r *csv.Reader) (header, error) {
	rec, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, schemaError("csv file has no header row", nil)
		}
		return nil, schemaError("csv header could not be parsed", nil)
	}
	h := make(header, len(rec))
	for i, col := range rec {
		name := normalizeColumn(col)
		if name == "" {
			continue
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h, nil
}

func (h header) has(col string) bool {
	_, ok := h[col]
	return ok
}

func (h header) missing(cols []string) []string {
	out := make([]string, 0)
	for _, c := range cols {
		if !h.has(c) {
			out = append(out, c)
		}
	}
	return out
}

func schemaError(msg string, missing []string) error {
	details := map[string]any{}
	if len(missing) > 0 {
		details["missing_columns"] = missing
	}
	return apperr.Validation(msg, details)
}

// row reads typed values out of one record and collects field errors.
type row struct {
	h   header
	rec []string
	fe  apperr.FieldErrors
}

func newRow(h header, rec []string) *row {
	return &row{h: h, rec: rec, fe: apperr.FieldErrors{}}
}

func (r *row) str(col string) string {
	i, ok := r.h[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) optional(col string) *string {
	return domain.TrimToNil(r.str(col))
}

func (r *row) boolean(col string, def bool) bool {
	v := strings.ToLower(r.str(col))
	switch v {
	case "":
		return def
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	r.fe.Add(col, "must be one of true, false, yes, no")
	return def
}

func (r *row) date(col string) *time.Time {
	v := r.str(col)
	if v == "" {
		return nil
	}
	t, err := domain.ParseDate(v)
	if err != nil {
		r.fe.Add(col, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

// count reads a non-negative whole number. A blank or missing cell is 0.
func (r *row) count(col string) int {
	v := r.str(col)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		r.fe.Add(col, "must be a non-negative whole number")
		return 0
	}
	return n
}

func (r *row) list(col string) []string {
	v := r.str(col)
	if v == "" {
		return nil
	}
	return domain.NormalizeNameList(strings.Split(v, FamilySeparator))
}

func (r *row) require(cols ...string) {
	for _, c := range cols {
		if r.str(c) == "" {
			r.fe.Add(c, "is required")
		}
	}
}

// rowError converts collected or returned field errors into a RowError.
func rowError(n int, fe apperr.FieldErrors) RowError {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return RowError{Row: n, Fields: fields, Reason: strings.Join(parts, "; ")}
}

// fromAppErr turns an app-layer rejection into field errors for the row.
func fromAppErr(err *apperr.Error, fallbackField string) apperr.FieldErrors {
	fe := apperr.FieldErrors{}
	for k, v := range err.Details {
		if s, ok := v.(string); ok {
			fe.Add(k, s)
		}
	}
	if len(fe) == 0 {
		fe.Add(fallbackField, err.Message)
	}
	return fe
}
