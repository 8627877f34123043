package vehiclerepo

import (
	"context"
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

// Vehicle is the persistence shape used by the vehicle repository.
// It is not an HTTP DTO.
type Vehicle struct {
	ID       domain.VehicleID
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

	Archived bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows List results. Zero values impose no constraint, except that archived
// vehicles are excluded unless IncludeArchived is set.
type Filter struct {
	MemberID domain.MemberID
	// Registration matches exactly, ignoring case and surrounding whitespace.
	Registration    string
	IncludeArchived bool
	// ArchivedOnly restricts results to archived vehicles (implies IncludeArchived).
	ArchivedOnly bool
}

// Repository provides access to persisted vehicles.
//
// Result ordering expectations:
//   - List returns vehicles ordered by CreatedAt ascending, ties broken by ID.
type Repository interface {
	Create(ctx context.Context, v Vehicle) error
	// Update replaces the stored record (last write wins).
	Update(ctx context.Context, v Vehicle) error
	Delete(ctx context.Context, id domain.VehicleID) error
	// DeleteByMember removes every vehicle owned by the member and returns how many were removed.
	DeleteByMember(ctx context.Context, memberID domain.MemberID) (int, error)

	GetByID(ctx context.Context, id domain.VehicleID) (Vehicle, error)
	List(ctx context.Context, f Filter) ([]Vehicle, error)
}
