// Package idempotency defines storage for replayable import responses keyed by the
// Idempotency-Key header.
package idempotency

import (
	"context"
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

// Key is the caller-provided Idempotency-Key header value.
type Key string

// Fingerprint scopes a key to one caller and one resolved route ("POST /imports/member").
type Fingerprint struct {
	Key     Key
	Subject domain.SubjectID
	Route   string
}

// Record is a stored import response. BodyHash is the sha256 of the uploaded CSV; a retry
// under the same fingerprint with a different hash is a key reuse.
type Record struct {
	BodyHash    string
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Expired reports whether the record is older than ttl at now. A zero ttl never expires.
func (r Record) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && !r.CreatedAt.IsZero() && now.Sub(r.CreatedAt) >= ttl
}

// Store persists import responses so that retried uploads are not applied twice.
//
// Put replaces any record already held for the fingerprint. Prune removes records created
// before the cutoff and returns how many were removed.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	Prune(ctx context.Context, before time.Time) (int, error)
}
