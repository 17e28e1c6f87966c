package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
)

// SessionKeys holds the signing key and the key set used to verify sessions.
type SessionKeys struct {
	KeySet   *jwtx.KeySet
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
}

// InitSessionKeys loads the Ed25519 session key from cfg.SigningKeyFile,
// generating it on first start. Without a key file an ephemeral key is
// generated and every session is invalidated by a restart.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*SessionKeys, error) {
	var (
		pemKey []byte
		err    error
	)

	if cfg.SigningKeyFile == "" {
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, err
		}
		logger.Warn("using an ephemeral signing key, sessions will not survive a restart")
	} else {
		pemKey, err = loadOrGenerateKey(cfg.SigningKeyFile)
		if err != nil {
			return nil, err
		}
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	}

	kid, err := cryptox.Ed25519KeyID(pemKey)
	if err != nil {
		return nil, err
	}
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, err
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}

	return &SessionKeys{
		KeySet:   keys,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer),
	}, nil
}

func loadOrGenerateKey(path string) ([]byte, error) {
	pemKey, err := os.ReadFile(path)
	if err == nil {
		return pemKey, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	pemKey, err = cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create signing key dir: %w", err)
	}
	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return nil, fmt.Errorf("write signing key: %w", err)
	}
	return pemKey, nil
}
