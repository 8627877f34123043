package domain

import "time"

// DefaultVehicleStatus is assigned when a vehicle is created without a status.
const DefaultVehicleStatus = "Active"

// Vehicle is a logbook-registered vehicle owned by exactly one member.
//
// EntryDate and ExpiryDate carry date-only semantics (UTC midnight).
type Vehicle struct {
	ID       VehicleID
	MemberID MemberID

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

	// Archived marks a soft-deleted vehicle. Archived vehicles are hidden from default
	// listings and statistics but can be restored.
	Archived bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the vehicle counts as an active registration.
func (v Vehicle) IsActive() bool {
	return !v.Archived && v.Status == DefaultVehicleStatus
}

type OptionType string

const (
	OptionTypeStatus OptionType = "status"
	OptionTypeReason OptionType = "reason"
)

func (t OptionType) Valid() bool {
	return t == OptionTypeStatus || t == OptionTypeReason
}

// VehicleOption is one entry of the admin-maintained vehicle status/reason vocabulary.
type VehicleOption struct {
	ID        OptionID
	Type      OptionType
	Value     string
	CreatedAt time.Time
}
