package jwtverifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/platform/auth/jwtverifier"
	"github.com/steelcity-drags/roster-api/internal/platform/config"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig() config.AuthConfig {
	return config.AuthConfig{Mode: config.AuthModeJWT, Secret: "test-secret", Issuer: "test-iss"}
}

var editor = domain.Principal{Subject: "member-123", Role: domain.RoleFullEditor}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithClock(testConfig(), clk)

	tok, err := v.Mint(editor, 5*time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	p, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p != editor {
		t.Fatalf("principal mismatch: got %+v", p)
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithClock(testConfig(), clk)

	tok, err := v.Mint(editor, time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	clk.Advance(2 * time.Minute)
	if _, err := v.Verify(context.Background(), tok); !errors.Is(err, jwtverifier.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifier_Verify_ClockSkewTolerated(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	cfg.ClockSkew = time.Minute
	v := jwtverifier.NewWithClock(cfg, clk)

	tok, err := v.Mint(editor, time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	clk.Advance(90 * time.Second)
	if _, err := v.Verify(context.Background(), tok); err != nil {
		t.Fatalf("Verify within skew: %v", err)
	}
}

func TestVerifier_Verify_WrongIssuerOrSecret(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithClock(testConfig(), clk)

	otherIss := testConfig()
	otherIss.Issuer = "someone-else"
	otherSecret := testConfig()
	otherSecret.Secret = "other-secret"

	for name, cfg := range map[string]config.AuthConfig{"issuer": otherIss, "secret": otherSecret} {
		tok, err := jwtverifier.NewWithClock(cfg, clk).Mint(editor, time.Minute)
		if err != nil {
			t.Fatalf("%s: Mint: %v", name, err)
		}
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, jwtverifier.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestVerifier_Verify_UnknownRole(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithClock(testConfig(), clk)

	tok, err := v.Mint(domain.Principal{Subject: "s", Role: "treasurer"}, time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := v.Verify(context.Background(), tok); !errors.Is(err, jwtverifier.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifier_Verify_RejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithClock(testConfig(), clk)

	c := jwtverifier.Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "s",
			Issuer:    "test-iss",
			ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := v.Verify(context.Background(), tok); !errors.Is(err, jwtverifier.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
