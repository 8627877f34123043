package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/steelcity-drags/roster-api/internal/app/options"
	"github.com/steelcity-drags/roster-api/internal/domain"
)

// Policy holds the club rules that differ between deployments.
type Policy struct {
	// MembershipAnchor is the MM-DD expiry of a membership year.
	MembershipAnchor string `yaml:"membership_anchor"`
	// VehicleAnchor is the MM-DD expiry of a vehicle registration year.
	VehicleAnchor string `yaml:"vehicle_anchor"`
	// LookbackMonths bounds how far back a multi-year renewal may anchor to the previous payment.
	LookbackMonths int `yaml:"lookback_months"`
	// Timezone is the IANA zone whose midnight starts a new day for renewals and export names.
	Timezone string `yaml:"timezone"`

	DefaultStatuses []string `yaml:"default_statuses"`
	DefaultReasons  []string `yaml:"default_reasons"`
}

func DefaultPolicy() *Policy {
	return &Policy{
		MembershipAnchor: "05-31",
		VehicleAnchor:    "06-30",
		LookbackMonths:   6,
		Timezone:         "UTC",
		DefaultStatuses:  append([]string(nil), options.DefaultStatuses...),
		DefaultReasons:   append([]string(nil), options.DefaultReasons...),
	}
}

// LoadPolicy reads a YAML policy file over the defaults. An empty path yields the defaults.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) Validate() error {
	if _, err := domain.ParseMonthDay(p.MembershipAnchor); err != nil {
		return fmt.Errorf("membership_anchor: %w", err)
	}
	if _, err := domain.ParseMonthDay(p.VehicleAnchor); err != nil {
		return fmt.Errorf("vehicle_anchor: %w", err)
	}
	if p.LookbackMonths < 0 {
		return fmt.Errorf("lookback_months must not be negative")
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Location is the policy timezone, falling back to UTC.
func (p *Policy) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (p *Policy) MembershipRenewal() domain.RenewalPolicy {
	return p.renewal(p.MembershipAnchor)
}

func (p *Policy) VehicleRenewal() domain.RenewalPolicy {
	return p.renewal(p.VehicleAnchor)
}

// OptionDefaults returns the values seeded into empty option types.
func (p *Policy) OptionDefaults() map[domain.OptionType][]string {
	return map[domain.OptionType][]string{
		domain.OptionTypeStatus: p.DefaultStatuses,
		domain.OptionTypeReason: p.DefaultReasons,
	}
}

// renewal assumes Validate has passed.
func (p *Policy) renewal(anchor string) domain.RenewalPolicy {
	md, _ := domain.ParseMonthDay(anchor)
	return domain.RenewalPolicy{Anchor: md, LookbackMonths: p.LookbackMonths}
}
