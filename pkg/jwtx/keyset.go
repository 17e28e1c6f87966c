package jwtx

import (
	"crypto/ed25519"
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the public keys tokens may be verified against, by kid.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]ed25519.PublicKey)}
}

// AddSigner registers the public half of s.
func (k *KeySet) AddSigner(s Signer) error {
	return k.Add(s.KID(), s.PublicKey())
}

// Add registers pub under kid, replacing any previous key.
func (k *KeySet) Add(kid string, pub ed25519.PublicKey) error {
	if kid == "" || len(pub) != ed25519.PublicKeySize {
		return errors.New("jwtx: invalid Ed25519 public key")
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[kid] = pub
	return nil
}

func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pub, ok := k.keys[kid]; ok {
		return pub, nil
	}
	return nil, ErrNoKey
}

// IsReady reports whether at least one key is loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys) > 0
}
