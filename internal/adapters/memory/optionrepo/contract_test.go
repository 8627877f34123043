package optionrepo

import (
	"testing"

	"github.com/steelcity-drags/roster-api/internal/adapters/contracttest"
	optionrepoport "github.com/steelcity-drags/roster-api/internal/ports/out/optionrepo"
)

func TestContract_OptionRepo(t *testing.T) {
	contracttest.RunOptionRepo(t, func(t *testing.T) (optionrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
