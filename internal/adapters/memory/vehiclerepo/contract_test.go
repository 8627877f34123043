package vehiclerepo

import (
	"testing"

	"github.com/steelcity-drags/roster-api/internal/adapters/contracttest"
	memmemberrepo "github.com/steelcity-drags/roster-api/internal/adapters/memory/memberrepo"
	memberrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
	vehiclerepoport "github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

func TestContract_VehicleRepo(t *testing.T) {
	contracttest.RunVehicleRepo(t,
		func(t *testing.T) (memberrepoport.Repository, func()) {
			t.Helper()
			return memmemberrepo.NewRepo(), nil
		},
		func(t *testing.T) (vehiclerepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}
