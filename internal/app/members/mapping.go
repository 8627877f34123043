package members

import (
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
)

func toDomain(m memberrepo.Member) domain.Member {
	return domain.Member{
		ID:             m.ID,
		MemberNumber:   m.MemberNumber,
		Name:           m.Name,
		Address:        m.Address,
		Suburb:         m.Suburb,
		Postcode:       m.Postcode,
		State:          m.State,
		Phone1:         cloneStringPtr(m.Phone1),
		Phone2:         cloneStringPtr(m.Phone2),
		Email1:         cloneStringPtr(m.Email1),
		Email2:         cloneStringPtr(m.Email2),
		LifeMember:     m.LifeMember,
		Financial:      m.Financial,
		MembershipType: m.MembershipType,
		FamilyMembers:  append([]string(nil), m.FamilyMembers...),
		Interest:       m.Interest,
		DatePaid:       cloneTimePtr(m.DatePaid),
		ExpiryDate:     cloneTimePtr(m.ExpiryDate),
		Comments:       cloneStringPtr(m.Comments),
		ReceiveEmails:  m.ReceiveEmails,
		ReceiveSMS:     m.ReceiveSMS,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func fromDomain(m domain.Member) MemberInput {
	return MemberInput{
		MemberNumber:   m.MemberNumber,
		Name:           m.Name,
		Address:        m.Address,
		Suburb:         m.Suburb,
		Postcode:       m.Postcode,
		State:          m.State,
		Phone1:         cloneStringPtr(m.Phone1),
		Phone2:         cloneStringPtr(m.Phone2),
		Email1:         cloneStringPtr(m.Email1),
		Email2:         cloneStringPtr(m.Email2),
		LifeMember:     m.LifeMember,
		Financial:      m.Financial,
		MembershipType: m.MembershipType,
		FamilyMembers:  append([]string(nil), m.FamilyMembers...),
		Interest:       m.Interest,
		DatePaid:       cloneTimePtr(m.DatePaid),
		ExpiryDate:     cloneTimePtr(m.ExpiryDate),
		Comments:       cloneStringPtr(m.Comments),
		ReceiveEmails:  m.ReceiveEmails,
		ReceiveSMS:     m.ReceiveSMS,
	}
}

// toRecord builds the persistence shape from an already normalized input.
func toRecord(id domain.MemberID, in MemberInput) memberrepo.Member {
	return memberrepo.Member{
		ID:             id,
		MemberNumber:   in.MemberNumber,
		Name:           in.Name,
		Address:        in.Address,
		Suburb:         in.Suburb,
		Postcode:       in.Postcode,
		State:          in.State,
		Phone1:         in.Phone1,
		Phone2:         in.Phone2,
		Email1:         in.Email1,
		Email2:         in.Email2,
		LifeMember:     in.LifeMember,
		Financial:      in.Financial,
		MembershipType: in.MembershipType,
		FamilyMembers:  in.FamilyMembers,
		Interest:       in.Interest,
		DatePaid:       in.DatePaid,
		ExpiryDate:     in.ExpiryDate,
		Comments:       in.Comments,
		ReceiveEmails:  in.ReceiveEmails,
		ReceiveSMS:     in.ReceiveSMS,
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
