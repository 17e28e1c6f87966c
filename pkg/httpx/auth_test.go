package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "helpdesk-test"

func newSigner(t *testing.T) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	return signer, jwtx.NewVerifierEdDSA(keys, testIssuer)
}

func bearer(t *testing.T, s jwtx.Signer, role string) string {
	t.Helper()
	tok, err := s.Sign(jwtx.NewSessionClaims("user-1", "vera@example.org", role, time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthnMiddleware(t *testing.T) {
	signer, verifier := newSigner(t)

	var seen jwtx.Claims
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
	}), httpx.AuthnMiddleware(verifier, nil))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, signer, "volunteer"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", seen.Subject)
		require.Equal(t, "vera@example.org", seen.Email)
		require.Equal(t, "volunteer", seen.Role)
	})
}

func TestOptionalAuthn(t *testing.T) {
	signer, verifier := newSigner(t)

	var authenticated bool
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authenticated = httpx.ClaimsFromContext(r.Context())
	}), httpx.OptionalAuthn(verifier, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, authenticated)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, signer, "coordinator"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, authenticated)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyRole(t *testing.T) {
	signer, verifier := newSigner(t)
	h := httpx.Chain(okHandler(), httpx.AuthnMiddleware(verifier, nil), httpx.RequireAnyRole("coordinator"))

	tests := []struct {
		role string
		want int
	}{
		{"coordinator", http.StatusOK},
		{"volunteer", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", bearer(t, signer, tt.role))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthnSessionLookup(t *testing.T) {
	signer, verifier := newSigner(t)

	var lookupErr error
	lookup := func(ctx context.Context, c jwtx.Claims) (jwtx.Claims, error) {
		c.Role = "coordinator"
		return c, lookupErr
	}

	var seen jwtx.Claims
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
	}), httpx.AuthnMiddleware(verifier, lookup))

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, signer, "volunteer"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve()
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "coordinator", seen.Role, "looked up claims replace the token's")

	lookupErr = fmt.Errorf("%w: gone", jwtx.ErrSessionRevoked)
	rec = serve()
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

	lookupErr = errors.New("database is locked")
	rec = serve()
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
