package optionrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/steelcity-drags/roster-api/internal/adapters/postgres"
	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
)

// Repo is a Postgres implementation of optionrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, o optionrepo.Option) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(o.ID))
	if err != nil {
		return fmt.Errorf("invalid option id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO vehicle_options (id, type, value, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, string(o.Type), o.Value, o.CreatedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return optionrepo.ErrDuplicateValue
		}
		return err
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.OptionID) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return optionrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM vehicle_options WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return optionrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OptionID) (optionrepo.Option, error) {
	if r.pool == nil {
		return optionrepo.Option{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return optionrepo.Option{}, optionrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, type, value, created_at
		FROM vehicle_options
		WHERE id = $1
	`, uid)
	return scanOption(row)
}

func (r *Repo) List(ctx context.Context, typ *domain.OptionType) ([]optionrepo.Option, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	var (
		rows pgx.Rows
		err  error
	)
	if typ != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT id, type, value, created_at
			FROM vehicle_options
			WHERE type = $1
			ORDER BY type ASC, created_at ASC, id::text ASC
		`, string(*typ))
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, type, value, created_at
			FROM vehicle_options
			ORDER BY type ASC, created_at ASC, id::text ASC
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]optionrepo.Option, 0)
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOption(row pgx.Row) (optionrepo.Option, error) {
	var (
		id        uuid.UUID
		typ       string
		value     string
		createdAt time.Time
	)
	if err := row.Scan(&id, &typ, &value, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return optionrepo.Option{}, optionrepo.ErrNotFound
		}
		return optionrepo.Option{}, err
	}
	return optionrepo.Option{
		ID:        domain.OptionID(id.String()),
		Type:      domain.OptionType(typ),
		Value:     value,
		CreatedAt: createdAt.UTC(),
	}, nil
}
