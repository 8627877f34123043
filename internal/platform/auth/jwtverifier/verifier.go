// Package jwtverifier issues and verifies the HS256 bearer tokens accepted by the API.
package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/platform/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Claims are the registered claims plus the caller's roster role.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type Verifier struct {
	cfg   config.AuthConfig
	clock Clock
}

func New(cfg config.AuthConfig) *Verifier {
	return NewWithClock(cfg, nil)
}

func NewWithClock(cfg config.AuthConfig, clock Clock) *Verifier {
	if clock == nil {
		clock = realClock{}
	}
	return &Verifier{cfg: cfg, clock: clock}
}

// Verify checks signature, issuer, expiry and role, and returns the authenticated principal.
//
// Every failure is reported as ErrUnauthorized wrapping the underlying cause.
func (v *Verifier) Verify(_ context.Context, token string) (domain.Principal, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(v.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithLeeway(v.cfg.ClockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if c.Subject == "" {
		return domain.Principal{}, fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}
	if !c.Role.Valid() {
		return domain.Principal{}, fmt.Errorf("%w: unknown role %q", ErrUnauthorized, c.Role)
	}
	return domain.Principal{Subject: domain.SubjectID(c.Subject), Role: c.Role}, nil
}

// Mint signs a token for the principal valid for ttl from now.
func (v *Verifier) Mint(p domain.Principal, ttl time.Duration) (string, error) {
	now := v.clock.Now()
	c := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p.Subject),
			Issuer:    v.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(v.cfg.Secret))
}
