package config

import (
	"fmt"
	"os"
	"time"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

const (
	AuthModeJWT = "jwt"
	AuthModeDev = "dev"
)

// AuthConfig selects how callers are authenticated.
//
// In jwt mode bearer tokens are HS256-signed with Secret and carry the caller's role in a
// `role` claim. In dev mode the subject and role come from X-Debug-* headers with the
// Dev* values as fallbacks.
type AuthConfig struct {
	Mode string

	Secret    string
	Issuer    string
	ClockSkew time.Duration

	DevSubject string
	DevRole    domain.Role
}

func LoadAuthConfigFromEnv() (AuthConfig, error) {
	cfg := AuthConfig{
		Mode:       getenv("AUTH_MODE", AuthModeJWT),
		Issuer:     getenv("JWT_ISSUER", "roster-api"),
		Secret:     os.Getenv("JWT_SECRET"),
		ClockSkew:  30 * time.Second,
		DevSubject: getenv("DEV_SUBJECT", "dev|local"),
		DevRole:    domain.Role(getenv("DEV_ROLE", string(domain.RoleAdmin))),
	}

	switch cfg.Mode {
	case AuthModeDev:
		if !cfg.DevRole.Valid() {
			return AuthConfig{}, fmt.Errorf("DEV_ROLE must be one of admin, full_editor, member_editor (got %q)", cfg.DevRole)
		}
	case AuthModeJWT:
		if cfg.Secret == "" {
			return AuthConfig{}, fmt.Errorf("missing required env var: JWT_SECRET")
		}
	default:
		return AuthConfig{}, fmt.Errorf("AUTH_MODE must be jwt or dev (got %q)", cfg.Mode)
	}

	if v := os.Getenv("JWT_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("JWT_CLOCK_SKEW must be a duration (e.g. 30s): %w", err)
		}
		cfg.ClockSkew = d
	}
	return cfg, nil
}
