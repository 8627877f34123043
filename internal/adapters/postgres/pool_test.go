package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPoolOptions_Defaults(t *testing.T) {
	t.Parallel()

	got := PoolOptions{}.withDefaults()
	if got.MaxConns != 10 || got.MinConns != 2 || got.MaxConnLifetime != time.Hour {
		t.Fatalf("withDefaults()=%+v", got)
	}

	clamped := PoolOptions{MaxConns: 1, MinConns: 5}.withDefaults()
	if clamped.MinConns != 1 {
		t.Fatalf("MinConns=%d, want clamped to 1", clamped.MinConns)
	}
}

func TestNewPool_RejectsEmptyDSN(t *testing.T) {
	t.Parallel()

	if _, err := NewPool(context.Background(), "", PoolOptions{}); err == nil {
		t.Fatalf("NewPool(\"\") err=nil, want error")
	}
}

func TestAsPgError_Unwraps(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolationCode})
	pe, ok := AsPgError(wrapped)
	if !ok || pe.Code != UniqueViolationCode {
		t.Fatalf("AsPgError()=%v,%v", pe, ok)
	}
	if _, ok := AsPgError(errors.New("plain")); ok {
		t.Fatalf("AsPgError(plain) ok=true")
	}
}
