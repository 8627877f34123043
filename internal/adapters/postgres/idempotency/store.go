package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/steelcity-drags/roster-api/internal/adapters/postgres"
	"github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
)

const (
	selectRecordSQL = `
		SELECT body_hash, status_code, content_type, body, created_at
		FROM import_idempotency
		WHERE idempotency_key = $1 AND subject = $2 AND route = $3`

	upsertRecordSQL = `
		INSERT INTO import_idempotency
			(idempotency_key, subject, route, body_hash, status_code, content_type, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (idempotency_key, subject, route) DO UPDATE SET
			body_hash    = EXCLUDED.body_hash,
			status_code  = EXCLUDED.status_code,
			content_type = EXCLUDED.content_type,
			body         = EXCLUDED.body,
			created_at   = EXCLUDED.created_at`

	pruneSQL = `DELETE FROM import_idempotency WHERE created_at < $1`
)

// Store keeps import responses in the import_idempotency table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, postgres.ErrNilPool
	}
	var rec idempotency.Record
	err := s.pool.QueryRow(ctx, selectRecordSQL, string(fp.Key), string(fp.Subject), fp.Route).
		Scan(&rec.BodyHash, &rec.StatusCode, &rec.ContentType, &rec.Body, &rec.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return idempotency.Record{}, false, nil
	case err != nil:
		return idempotency.Record{}, false, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.pool == nil {
		return postgres.ErrNilPool
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Body == nil {
		rec.Body = []byte{}
	}
	_, err := s.pool.Exec(ctx, upsertRecordSQL,
		string(fp.Key), string(fp.Subject), fp.Route,
		rec.BodyHash, rec.StatusCode, rec.ContentType, rec.Body, rec.CreatedAt.UTC(),
	)
	return err
}

func (s *Store) Prune(ctx context.Context, before time.Time) (int, error) {
	if s.pool == nil {
		return 0, postgres.ErrNilPool
	}
	tag, err := s.pool.Exec(ctx, pruneSQL, before.UTC())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
