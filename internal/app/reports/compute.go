// Package reports derives dashboard statistics, member reports and contact lists from the roster.
// The compute functions are pure; Service only loads the current state and delegates to them.
package reports

import (
	"fmt"
	"strings"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

type FilterType string

const (
	FilterAll                    FilterType = "all"
	FilterUnfinancial            FilterType = "unfinancial"
	FilterWithVehicle            FilterType = "with_vehicle"
	FilterUnfinancialWithVehicle FilterType = "unfinancial_with_vehicle"
)

func ParseFilterType(s string) (FilterType, error) {
	switch f := FilterType(strings.TrimSpace(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUnfinancial, FilterWithVehicle, FilterUnfinancialWithVehicle:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter type %q", s)
}

func (f FilterType) match(financial, hasVehicle bool) bool {
	switch f {
	case FilterUnfinancial:
		return !financial
	case FilterWithVehicle:
		return hasVehicle
	case FilterUnfinancialWithVehicle:
		return !financial && hasVehicle
	}
	return true
}

type ListType string

const (
	ListEmail ListType = "email"
	ListSMS   ListType = "sms"
)

func ParseListType(s string) (ListType, error) {
	switch l := ListType(strings.ToLower(strings.TrimSpace(s))); l {
	case ListEmail, ListSMS:
		return l, nil
	}
	return "", fmt.Errorf("unknown list type %q", s)
}

// ContactSeparator joins contact values into a paste-ready list.
const ContactSeparator = ", "

type SplitCount struct {
	Financial   int `json:"financial"`
	Unfinancial int `json:"unfinancial"`
}

type DashboardStats struct {
	TotalMembers       int        `json:"total_members"`
	FinancialMembers   int        `json:"financial_members"`
	UnfinancialMembers int        `json:"unfinancial_members"`
	LifeMembers        SplitCount `json:"life_members"`
	MembersWithVehicle SplitCount `json:"members_with_vehicle"`

	// TotalVehicles counts non-archived vehicles of any status.
	TotalVehicles  int `json:"total_vehicles"`
	ActiveVehicles int `json:"active_vehicles"`

	ByInterest       map[domain.Interest]int       `json:"by_interest"`
	ByMembershipType map[domain.MembershipType]int `json:"by_membership_type"`
}

// ReportRow is a member annotated with the derived has-vehicle flag.
type ReportRow struct {
	Member     domain.Member
	HasVehicle bool
}

type ContactList struct {
	Contacts string   `json:"contacts"`
	Values   []string `json:"values"`
	Count    int      `json:"count"`
}

// ownersWithVehicle returns the members owning at least one non-archived vehicle, regardless of status.
func ownersWithVehicle(vehicles []domain.Vehicle) map[domain.MemberID]bool {
	out := make(map[domain.MemberID]bool)
	for _, v := range vehicles {
		if !v.Archived {
			out[v.MemberID] = true
		}
	}
	return out
}

// ComputeDashboard summarizes the roster. Archived vehicles are ignored entirely.
func ComputeDashboard(members []domain.Member, vehicles []domain.Vehicle) DashboardStats {
	owners := ownersWithVehicle(vehicles)
	st := DashboardStats{
		TotalMembers:     len(members),
		ByInterest:       make(map[domain.Interest]int, len(domain.Interests)),
		ByMembershipType: make(map[domain.MembershipType]int, len(domain.MembershipTypes)),
	}
	for _, i := range domain.Interests {
		st.ByInterest[i] = 0
	}
	for _, t := range domain.MembershipTypes {
		st.ByMembershipType[t] = 0
	}

	for _, m := range members {
		split := func(c *SplitCount) {
			if m.Financial {
				c.Financial++
			} else {
				c.Unfinancial++
			}
		}
		if m.Financial {
			st.FinancialMembers++
		} else {
			st.UnfinancialMembers++
		}
		if m.LifeMember {
			split(&st.LifeMembers)
		}
		if owners[m.ID] {
			split(&st.MembersWithVehicle)
		}
		st.ByInterest[m.Interest]++
		st.ByMembershipType[m.MembershipType]++
	}

	for _, v := range vehicles {
		if v.Archived {
			continue
		}
		st.TotalVehicles++
		if v.IsActive() {
			st.ActiveVehicles++
		}
	}
	return st
}

// ComputeMemberReport returns the members matching filter, in input order.
func ComputeMemberReport(members []domain.Member, vehicles []domain.Vehicle, filter FilterType) []ReportRow {
	owners := ownersWithVehicle(vehicles)
	out := make([]ReportRow, 0, len(members))
	for _, m := range members {
		has := owners[m.ID]
		if filter.match(m.Financial, has) {
			out = append(out, ReportRow{Member: m, HasVehicle: has})
		}
	}
	return out
}

// ComputeContactList collects the opted-in contact values of members, optionally restricted to
// one interest. Values keep first-seen order; emails are deduplicated ignoring case.
func ComputeContactList(members []domain.Member, list ListType, interest *domain.Interest) ContactList {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, m := range members {
		if interest != nil && m.Interest != *interest {
			continue
		}
		var candidates []string
		switch list {
		case ListEmail:
			if !m.ReceiveEmails {
				continue
			}
			candidates = m.Emails()
		case ListSMS:
			if !m.ReceiveSMS {
				continue
			}
			candidates = m.Phones()
		}
		for _, c := range candidates {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			key := c
			if list == ListEmail {
				key = strings.ToLower(c)
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			values = append(values, c)
		}
	}
	return ContactList{
		Contacts: strings.Join(values, ContactSeparator),
		Values:   values,
		Count:    len(values),
	}
}
