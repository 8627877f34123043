package vehiclerepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/steelcity-drags/roster-api/internal/adapters/postgres"
	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

// Repo is a Postgres implementation of vehiclerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const vehicleColumns = `
	id,
	member_id,
	log_book_number,
	registration,
	make,
	model,
	body_style,
	year,
	entry_date,
	expiry_date,
	status,
	reason,
	archived,
	created_at,
	updated_at
`

func (r *Repo) Create(ctx context.Context, v vehiclerepo.Vehicle) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(v.ID))
	if err != nil {
		return fmt.Errorf("invalid vehicle id: %w", err)
	}
	owner, err := uuid.Parse(string(v.MemberID))
	if err != nil {
		return vehiclerepo.ErrOwnerNotFound
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		id,
		owner,
		v.LogBookNumber,
		v.Registration,
		v.Make,
		v.Model,
		v.BodyStyle,
		v.Year,
		v.EntryDate,
		v.ExpiryDate,
		v.Status,
		v.Reason,
		v.Archived,
		v.CreatedAt.UTC(),
		v.UpdatedAt.UTC(),
	)
	return translateWriteErr(err)
}

func (r *Repo) Update(ctx context.Context, v vehiclerepo.Vehicle) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(v.ID))
	if err != nil {
		return vehiclerepo.ErrNotFound
	}
	owner, err := uuid.Parse(string(v.MemberID))
	if err != nil {
		return vehiclerepo.ErrOwnerNotFound
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE vehicles
		SET member_id = $2,
		    log_book_number = $3,
		    registration = $4,
		    make = $5,
		    model = $6,
		    body_style = $7,
		    year = $8,
		    entry_date = $9,
		    expiry_date = $10,
		    status = $11,
		    reason = $12,
		    archived = $13,
		    updated_at = $14
		WHERE id = $1
	`,
		id,
		owner,
		v.LogBookNumber,
		v.Registration,
		v.Make,
		v.Model,
		v.BodyStyle,
		v.Year,
		v.EntryDate,
		v.ExpiryDate,
		v.Status,
		v.Reason,
		v.Archived,
		v.UpdatedAt.UTC(),
	)
	if err != nil {
		return translateWriteErr(err)
	}
	if ct.RowsAffected() == 0 {
		return vehiclerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.VehicleID) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return vehiclerepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return vehiclerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteByMember(ctx context.Context, memberID domain.MemberID) (int, error) {
	if r.pool == nil {
		return 0, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(memberID))
	if err != nil {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE member_id = $1`, uid)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.VehicleID) (vehiclerepo.Vehicle, error) {
	if r.pool == nil {
		return vehiclerepo.Vehicle{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return vehiclerepo.Vehicle{}, vehiclerepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, uid)
	return scanVehicle(row)
}

func (r *Repo) List(ctx context.Context, f vehiclerepo.Filter) ([]vehiclerepo.Vehicle, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}

	conds := make([]string, 0, 3)
	args := make([]any, 0, 2)
	switch {
	case f.ArchivedOnly:
		conds = append(conds, "archived = true")
	case !f.IncludeArchived:
		conds = append(conds, "archived = false")
	}
	if f.MemberID != "" {
		uid, err := uuid.Parse(string(f.MemberID))
		if err != nil {
			return []vehiclerepo.Vehicle{}, nil
		}
		args = append(args, uid)
		conds = append(conds, fmt.Sprintf("member_id = $%d", len(args)))
	}
	if reg := strings.TrimSpace(f.Registration); reg != "" {
		args = append(args, strings.ToLower(reg))
		conds = append(conds, fmt.Sprintf("lower(btrim(registration)) = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		`+where+`
		ORDER BY created_at ASC, id::text ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vehiclerepo.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// --- helpers ---

func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := postgres.AsPgError(err); ok {
		switch pe.Code {
		case postgres.UniqueViolationCode:
			return vehiclerepo.ErrAlreadyExists
		case postgres.ForeignKeyViolationCode:
			return vehiclerepo.ErrOwnerNotFound
		}
	}
	return err
}

func scanVehicle(row pgx.Row) (vehiclerepo.Vehicle, error) {
	var (
		id        uuid.UUID
		memberID  uuid.UUID
		v         vehiclerepo.Vehicle
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&memberID,
		&v.LogBookNumber,
		&v.Registration,
		&v.Make,
		&v.Model,
		&v.BodyStyle,
		&v.Year,
		&v.EntryDate,
		&v.ExpiryDate,
		&v.Status,
		&v.Reason,
		&v.Archived,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vehiclerepo.Vehicle{}, vehiclerepo.ErrNotFound
		}
		return vehiclerepo.Vehicle{}, err
	}
	v.ID = domain.VehicleID(id.String())
	v.MemberID = domain.MemberID(memberID.String())
	v.EntryDate = utcDate(v.EntryDate)
	v.ExpiryDate = utcDate(v.ExpiryDate)
	v.CreatedAt = createdAt.UTC()
	v.UpdatedAt = updatedAt.UTC()
	return v, nil
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
