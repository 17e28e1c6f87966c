package httpx

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

// SessionLookup checks verified claims against the current account state and
// returns the claims to act on. Errors wrapping jwtx.ErrSessionRevoked reject
// the token; any other error is a server failure.
type SessionLookup func(ctx context.Context, c jwtx.Claims) (jwtx.Claims, error)

// AuthnMiddleware rejects requests without a valid bearer session token and
// stores the verified claims in the request context. A nil lookup trusts the
// token alone.
func AuthnMiddleware(v jwtx.Verifier, lookup SessionLookup) Middleware {
	return authn(v, lookup, true)
}

// OptionalAuthn verifies a bearer token when one is presented and lets
// anonymous requests through untouched. A presented but invalid token is
// still rejected.
func OptionalAuthn(v jwtx.Verifier, lookup SessionLookup) Middleware {
	return authn(v, lookup, false)
}

func authn(v jwtx.Verifier, lookup SessionLookup, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" && !required {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(header, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				slogx.FromContext(ctx).Warn("session token rejected", "err", err)
				writeBearerError(w, "invalid or expired session token")
				return
			}

			if lookup != nil {
				claims, err = lookup(ctx, claims)
				if errors.Is(err, jwtx.ErrSessionRevoked) {
					slogx.FromContext(ctx).Info("revoked session rejected", "user_id", claims.Subject)
					writeBearerError(w, "session is no longer valid")
					return
				}
				if err != nil {
					slogx.FromContext(ctx).Error("session lookup failed", "err", err)
					WriteError(w, http.StatusInternalServerError, "server_error", "an internal error occurred")
					return
				}
			}

			ctx = slogx.With(contextWithClaims(ctx, claims), "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyRole lets the request through when the session role is one of
// roles. It must run after AuthnMiddleware.
func RequireAnyRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				WriteError(w, http.StatusForbidden, "forbidden", "this action requires the "+strings.Join(roles, " or ")+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 style challenge with a JSON body the mobile client can show.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
