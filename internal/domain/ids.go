package domain

// SubjectID is the authenticated subject extracted from bearer-token claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the token issuer.
type SubjectID string

// MemberID is an internal identifier for a member record.
type MemberID string

// VehicleID is an internal identifier for a vehicle record.
type VehicleID string

// OptionID is an internal identifier for a vehicle option (status/reason vocabulary entry).
type OptionID string
