package idempotency

import (
	"testing"

	"github.com/steelcity-drags/roster-api/internal/adapters/contracttest"
	"github.com/steelcity-drags/roster-api/internal/adapters/postgres/testutil"
	idempotencyport "github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(pool), nil
	})
}
