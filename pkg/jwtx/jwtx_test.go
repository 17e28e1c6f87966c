package jwtx_test

import (
	"testing"
	"time"

	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "helpdesk"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	require.Equal(t, "k1", signer.KID())

	claims := jwtx.NewSessionClaims("01J0USER", "vera@example.org", "volunteer", 5*time.Minute, exampleIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())
	require.NoError(t, keys.AddSigner(signer))
	require.True(t, keys.IsReady())

	got, err := jwtx.NewVerifierEdDSA(keys, exampleIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01J0USER", got.Subject)
	require.Equal(t, "vera@example.org", got.Email)
	require.Equal(t, "volunteer", got.Role)
	require.Equal(t, exampleIssuer, got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejects(t *testing.T) {
	signer := newSigner(t, "k1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	sign := func(c jwtx.Claims) string {
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		return tok
	}
	now := time.Now()

	t.Run("wrong issuer", func(t *testing.T) {
		tok := sign(jwtx.NewSessionClaims("u", "e@x", "volunteer", time.Minute, exampleIssuer, now))
		_, err := jwtx.NewVerifierEdDSA(keys, "someone-else").Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(jwtx.NewSessionClaims("u", "e@x", "volunteer", time.Minute, exampleIssuer, now.Add(-time.Hour)))
		_, err := jwtx.NewVerifierEdDSA(keys, exampleIssuer).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("missing identity", func(t *testing.T) {
		tok := sign(jwtx.NewSessionClaims("u", "", "volunteer", time.Minute, exampleIssuer, now))
		_, err := jwtx.NewVerifierEdDSA(keys, exampleIssuer).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("unknown key", func(t *testing.T) {
		other := newSigner(t, "k2")
		tok, err := other.Sign(jwtx.NewSessionClaims("u", "e@x", "volunteer", time.Minute, exampleIssuer, now))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keys, exampleIssuer).Verify(tok)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keys, exampleIssuer).Verify("a.b.c")
		require.Error(t, err)
	})
}

func TestNewSignerRejectsBadPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("k", []byte("not pem"))
	require.Error(t, err)
}
