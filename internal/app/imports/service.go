// Package imports ingests member and vehicle CSV files row by row.
//
// Rows are validated and written independently and in file order: a failing row is recorded
// and skipped, and never blocks later rows. A row is either written in full or not at all.
package imports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/app/authz"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

type MemberStore interface {
	Upsert(ctx context.Context, actor domain.Principal, in members.MemberInput) (domain.Member, members.Outcome, error)
	Get(ctx context.Context, id domain.MemberID) (domain.Member, error)
	FindByNumber(ctx context.Context, number string) (domain.Member, bool, error)
}

type VehicleStore interface {
	Create(ctx context.Context, actor domain.Principal, in vehicles.VehicleInput) (domain.Vehicle, error)
}

type Service struct {
	members  MemberStore
	vehicles VehicleStore
	rec      Recorder
	log      *zap.Logger
}

func NewService(members MemberStore, vehicles VehicleStore, rec Recorder, log *zap.Logger) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{members: members, vehicles: vehicles, rec: rec, log: log}
}

// Import reads a CSV file of the given kind and upserts every valid row.
//
// A missing required column aborts before any row is processed. Storage failures abort the
// remaining rows; rows already written stay written.
func (s *Service) Import(ctx context.Context, actor domain.Principal, kind Kind, src io.Reader) (Result, error) {
	op := authz.OpImportMembers
	if kind == KindVehicle {
		op = authz.OpImportVehicles
	}
	if kind != KindMember && kind != KindVehicle {
		return Result{}, apperr.Validation("invalid import kind", map[string]any{"kind": "must be member or vehicle"})
	}
	if err := authz.Require(actor.Role, op); err != nil {
		return Result{}, err
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	h, err := readHeader(r)
	if err != nil {
		return Result{}, err
	}
	if err := checkSchema(kind, h); err != nil {
		return Result{}, err
	}

	started := time.Now()
	res := Result{Kind: kind, FailedRows: make([]RowError, 0)}
	for n := 1; ; n++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return res, fmt.Errorf("read csv: %w", err)
			}
			res.FailedRows = append(res.FailedRows, RowError{Row: n, Reason: "malformed csv row: " + pe.Err.Error()})
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var (
			rowErr  *RowError
			created bool
		)
		switch kind {
		case KindMember:
			rowErr, created, err = s.importMember(ctx, actor, n, newRow(h, rec))
		case KindVehicle:
			rowErr, err = s.importVehicle(ctx, actor, n, newRow(h, rec))
			created = true
		}
		if err != nil {
			s.finish(&res, started)
			return res, fmt.Errorf("import row %d: %w", n, err)
		}
		if rowErr != nil {
			res.FailedRows = append(res.FailedRows, *rowErr)
			continue
		}
		res.ImportedCount++
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	s.finish(&res, started)
	return res, nil
}

func (s *Service) finish(res *Result, started time.Time) {
	s.rec.ObserveImport(res.Kind, res.ImportedCount, len(res.FailedRows))
	s.log.Info("csv import finished",
		zap.String("kind", string(res.Kind)),
		zap.Int("imported", res.ImportedCount),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("failed", len(res.FailedRows)),
		zap.Duration("elapsed", time.Since(started)),
	)
}

func checkSchema(kind Kind, h header) error {
	switch kind {
	case KindMember:
		if missing := h.missing(memberRequired); len(missing) > 0 {
			return schemaError("member csv is missing required columns", missing)
		}
	case KindVehicle:
		missing := h.missing(vehicleRequired)
		if !h.has("member_id") && !h.has("member_number") {
			missing = append(missing, "member_id")
		}
		if len(missing) > 0 {
			return schemaError("vehicle csv is missing required columns", missing)
		}
	}
	return nil
}

// importMember returns a row error for rejected rows, or a non-nil error for storage failures.
func (s *Service) importMember(ctx context.Context, actor domain.Principal, n int, r *row) (*RowError, bool, error) {
	in := members.MemberInput{
		MemberNumber:   r.str("member_number"),
		Name:           r.str("name"),
		Address:        r.str("address"),
		Suburb:         r.str("suburb"),
		Postcode:       r.str("postcode"),
		State:          r.str("state"),
		Phone1:         r.optional("phone1"),
		Phone2:         r.optional("phone2"),
		Email1:         r.optional("email1"),
		Email2:         r.optional("email2"),
		LifeMember:     r.boolean("life_member", false),
		Financial:      r.boolean("financial", false),
		MembershipType: domain.MembershipType(r.str("membership_type")),
		FamilyMembers:  r.list("family_members"),
		Interest:       domain.Interest(r.str("interest")),
		DatePaid:       r.date("date_paid"),
		ExpiryDate:     r.date("expiry_date"),
		Comments:       r.optional("comments"),
		ReceiveEmails:  r.boolean("receive_emails", true),
		ReceiveSMS:     r.boolean("receive_sms", true),
	}
	r.require(memberRequired...)
	if len(r.fe) > 0 {
		re := rowError(n, r.fe)
		return &re, false, nil
	}

	_, outcome, err := s.members.Upsert(ctx, actor, in)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			re := rowError(n, fromAppErr(ae, "member_number"))
			return &re, false, nil
		}
		return nil, false, err
	}
	return nil, outcome == members.OutcomeCreated, nil
}

func (s *Service) importVehicle(ctx context.Context, actor domain.Principal, n int, r *row) (*RowError, error) {
	in := vehicles.VehicleInput{
		LogBookNumber: r.str("log_book_number"),
		Registration:  r.str("registration"),
		Make:          r.str("make"),
		Model:         r.str("model"),
		BodyStyle:     r.str("body_style"),
		Year:          r.count("year"),
		EntryDate:     r.date("entry_date"),
		ExpiryDate:    r.date("expiry_date"),
		Status:        r.str("status"),
		Reason:        r.str("reason"),
	}
	r.require("log_book_number", "registration", "make", "model", "body_style")

	owner, err := s.resolveOwner(ctx, r)
	if err != nil {
		return nil, err
	}
	in.MemberID = owner
	if len(r.fe) > 0 {
		re := rowError(n, r.fe)
		return &re, nil
	}

	if _, err := s.vehicles.Create(ctx, actor, in); err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			re := rowError(n, fromAppErr(ae, "member_id"))
			return &re, nil
		}
		return nil, err
	}
	return nil, nil
}

// resolveOwner finds the owning member by member_id, falling back to member_number when the id
// is blank. Unresolved references are recorded as field errors on the row.
func (s *Service) resolveOwner(ctx context.Context, r *row) (domain.MemberID, error) {
	if id := r.str("member_id"); id != "" {
		m, err := s.members.Get(ctx, domain.MemberID(id))
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				r.fe.Add("member_id", "does not reference an existing member")
				return "", nil
			}
			return "", err
		}
		return m.ID, nil
	}
	if number := r.str("member_number"); number != "" {
		m, ok, err := s.members.FindByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !ok {
			r.fe.Add("member_number", "does not reference an existing member")
			return "", nil
		}
		return m.ID, nil
	}
	r.fe.Add("member_id", "is required")
	return "", nil
}
