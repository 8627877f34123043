// Package authz holds the role policy checked at the service boundary.
package authz

import (
	"github.com/steelcity-drags/roster-api/internal/app/apperr"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

type Operation string

const (
	OpMemberCreate Operation = "member.create"
	OpMemberUpdate Operation = "member.update"
	OpMemberDelete Operation = "member.delete"
	OpMemberRenew  Operation = "member.renew"

	OpVehicleCreate          Operation = "vehicle.create"
	OpVehicleUpdate          Operation = "vehicle.update"
	OpVehicleArchive         Operation = "vehicle.archive"
	OpVehicleRenew           Operation = "vehicle.renew"
	OpVehicleRestore         Operation = "vehicle.restore"
	OpVehiclePermanentDelete Operation = "vehicle.permanent_delete"

	OpOptionCreate Operation = "option.create"
	OpOptionDelete Operation = "option.delete"

	OpImportMembers  Operation = "import.members"
	OpImportVehicles Operation = "import.vehicles"

	OpExportMembers Operation = "export.members"
	OpViewReports   Operation = "reports.view"
)

var (
	everyone     = []domain.Role{domain.RoleAdmin, domain.RoleFullEditor, domain.RoleMemberEditor}
	fullEditors  = []domain.Role{domain.RoleAdmin, domain.RoleFullEditor}
	adminsOnly   = []domain.Role{domain.RoleAdmin}
	policyByOpID = map[Operation][]domain.Role{
		OpMemberCreate: everyone,
		OpMemberUpdate: everyone,
		OpMemberRenew:  everyone,
		OpMemberDelete: adminsOnly,

		OpVehicleCreate:          fullEditors,
		OpVehicleUpdate:          fullEditors,
		OpVehicleArchive:         fullEditors,
		OpVehicleRenew:           fullEditors,
		OpVehicleRestore:         adminsOnly,
		OpVehiclePermanentDelete: adminsOnly,

		OpOptionCreate: adminsOnly,
		OpOptionDelete: adminsOnly,

		OpImportMembers:  everyone,
		OpImportVehicles: fullEditors,

		OpExportMembers: everyone,
		OpViewReports:   everyone,
	}
)

// CanPerform reports whether role may perform op. Unknown roles and operations are denied.
func CanPerform(role domain.Role, op Operation) bool {
	for _, r := range policyByOpID[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns a forbidden error when role may not perform op.
func Require(role domain.Role, op Operation) error {
	if !CanPerform(role, op) {
		return apperr.Forbidden(string(op))
	}
	return nil
}
