package vehicles

import (
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/vehiclerepo"
)

func toDomain(v vehiclerepo.Vehicle) domain.Vehicle {
	return domain.Vehicle{
		ID:            v.ID,
		MemberID:      v.MemberID,
		LogBookNumber: v.LogBookNumber,
		Registration:  v.Registration,
		Make:          v.Make,
		Model:         v.Model,
		BodyStyle:     v.BodyStyle,
		Year:          v.Year,
		EntryDate:     cloneTimePtr(v.EntryDate),
		ExpiryDate:    cloneTimePtr(v.ExpiryDate),
		Status:        v.Status,
		Reason:        v.Reason,
		Archived:      v.Archived,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func fromDomain(v domain.Vehicle) VehicleInput {
	return VehicleInput{
		MemberID:      v.MemberID,
		LogBookNumber: v.LogBookNumber,
		Registration:  v.Registration,
		Make:          v.Make,
		Model:         v.Model,
		BodyStyle:     v.BodyStyle,
		Year:          v.Year,
		EntryDate:     cloneTimePtr(v.EntryDate),
		ExpiryDate:    cloneTimePtr(v.ExpiryDate),
		Status:        v.Status,
		Reason:        v.Reason,
	}
}

func toRecord(id domain.VehicleID, in VehicleInput) vehiclerepo.Vehicle {
	return vehiclerepo.Vehicle{
		ID:            id,
		MemberID:      in.MemberID,
		LogBookNumber: in.LogBookNumber,
		Registration:  in.Registration,
		Make:          in.Make,
		Model:         in.Model,
		BodyStyle:     in.BodyStyle,
		Year:          in.Year,
		EntryDate:     in.EntryDate,
		ExpiryDate:    in.ExpiryDate,
		Status:        in.Status,
		Reason:        in.Reason,
	}
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
