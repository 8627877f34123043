// Package bootstrap wires storage adapters and use cases for the api and rosterctl binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/adapters/httpapi"
	memidempotency "github.com/steelcity-drags/roster-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/memberrepo"
	memoptionrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/optionrepo"
	memvehiclerepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/vehiclerepo"
	"github.com/steelcity-drags/roster-api/internal/adapters/postgres"
	pgidempotency "github.com/steelcity-drags/roster-api/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/postgres/memberrepo"
	pgoptionrepo "github.com/steelcity-drags/roster-api/internal/adapters/postgres/optionrepo"
	pgvehiclerepo "github.com/steelcity-drags/roster-api/internal/adapters/postgres/vehiclerepo"
	"github.com/steelcity-drags/roster-api/internal/app/exports"
	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/app/members"
	"github.com/steelcity-drags/roster-api/internal/app/options"
	"github.com/steelcity-drags/roster-api/internal/app/reports"
	"github.com/steelcity-drags/roster-api/internal/app/vehicles"
	"github.com/steelcity-drags/roster-api/internal/platform/config"
	clockport "github.com/steelcity-drags/roster-api/internal/ports/out/clock"
	idempotencyport "github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
	memberrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
	optionrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
	vehiclerepoport "github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

// Stores are the persistence adapters selected by STORAGE_BACKEND.
type Stores struct {
	Members  memberrepoport.Repository
	Vehicles vehiclerepoport.Repository
	Options  optionrepoport.Repository
	Idem     idempotencyport.Store

	// Pool is nil for the memory backend.
	Pool *pgxpool.Pool
}

// OpenStores connects the configured backend. With migrate set, the Postgres schema is applied first.
func OpenStores(ctx context.Context, cfg config.ServerConfig, migrate bool) (*Stores, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		return &Stores{
			Members:  pgmemberrepo.NewRepo(pool),
			Vehicles: pgvehiclerepo.NewRepo(pool),
			Options:  pgoptionrepo.NewRepo(pool),
			Idem:     pgidempotency.NewStore(pool),
			Pool:     pool,
		}, nil
	default:
		return &Stores{
			Members:  memmemberrepo.NewRepo(),
			Vehicles: memvehiclerepo.NewRepo(),
			Options:  memoptionrepo.NewRepo(),
			Idem:     memidempotency.NewStore(),
		}, nil
	}
}

func (s *Stores) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// NewServices builds every use case over st, applying the renewal anchors from policy.
func NewServices(st *Stores, policy *config.Policy, clk clockport.Clock, rec imports.Recorder, log *zap.Logger) httpapi.Services {
	memberSvc := members.NewService(st.Members, st.Vehicles, clk, log.Named("members"))
	memberSvc.Renewal = policy.MembershipRenewal()
	vehicleSvc := vehicles.NewService(st.Vehicles, st.Members, clk, log.Named("vehicles"))
	vehicleSvc.Renewal = policy.VehicleRenewal()

	return httpapi.Services{
		Members:  memberSvc,
		Vehicles: vehicleSvc,
		Options:  options.NewService(st.Options, clk, log.Named("options")),
		Imports:  imports.NewService(memberSvc, vehicleSvc, rec, log.Named("imports")),
		Reports:  reports.NewService(memberSvc, vehicleSvc),
		Exports:  exports.NewService(memberSvc, vehicleSvc, clk),
	}
}
