package vehicles

import (
	"time"

	"github.com/steelcity-drags/roster-api/internal/app/patch"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

// VehicleInput is a complete vehicle record. A blank Status defaults to "Active".
type VehicleInput struct {
	MemberID domain.MemberID

	LogBookNumber string
	Registration  string
	Make          string
	Model         string
	BodyStyle     string
	Year          int

	EntryDate  *time.Time
	ExpiryDate *time.Time

	Status string
	Reason string
}

// UpdateVehicleInput is a partial update. Ownership cannot be changed here.
type UpdateVehicleInput struct {
	LogBookNumber patch.Optional[string]
	Registration  patch.Optional[string]
	Make          patch.Optional[string]
	Model         patch.Optional[string]
	BodyStyle     patch.Optional[string]
	Year          patch.Optional[int]

	EntryDate  patch.Optional[time.Time]
	ExpiryDate patch.Optional[time.Time]

	Status patch.Optional[string]
	Reason patch.Optional[string]
}

type ListFilter struct {
	MemberID        domain.MemberID
	Registration    string
	IncludeArchived bool
	ArchivedOnly    bool
}
