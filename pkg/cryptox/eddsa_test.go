package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	require.IsType(t, ed25519.PrivateKey{}, key)
}

func TestEd25519KeyID(t *testing.T) {
	a, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	b, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	kidA, err := cryptox.Ed25519KeyID(a)
	require.NoError(t, err)
	require.Len(t, kidA, 16)

	again, err := cryptox.Ed25519KeyID(a)
	require.NoError(t, err)
	require.Equal(t, kidA, again)

	kidB, err := cryptox.Ed25519KeyID(b)
	require.NoError(t, err)
	require.NotEqual(t, kidA, kidB)

	_, err = cryptox.Ed25519KeyID([]byte("nope"))
	require.Error(t, err)
}
