package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/steelcity-drags/roster-api/internal/domain"
)

// TokenVerifier authenticates a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Principal, error)
}

func isPublicPath(p string) bool {
	return p == "/healthz" || p == "/metrics"
}

// NewAuthMiddleware enforces Authorization: Bearer <JWT> on every API route.
//
// On success, it stores the authenticated principal in request context.
func NewAuthMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			p, err := v.Verify(r.Context(), raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It takes the caller from X-Debug-Subject and X-Debug-Role, falling back to the defaults.
// An empty defaultSubject forces every request to name a subject. Do NOT use this in
// production deployments.
func NewDevAuthMiddleware(defaultSubject string, defaultRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject (set X-Debug-Subject)", nil)
				return
			}
			role := domain.Role(strings.TrimSpace(r.Header.Get("X-Debug-Role")))
			if role == "" {
				role = defaultRole
			}
			if !role.Valid() {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unknown role", map[string]any{"role": string(role)})
				return
			}

			p := domain.Principal{Subject: domain.SubjectID(sub), Role: role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
