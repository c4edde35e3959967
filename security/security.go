// Package security provides in-process encryption of ephemeral session
// credentials: stdio subprocess env vars and HTTP bearer tokens held in a
// SessionSpec. Built on golang.org/x/crypto/nacl/secretbox.
package security

import (
	"crypto/rand"
	"io"

	"github.com/agentrt/hostcore/errs"
	"golang.org/x/crypto/nacl/secretbox"
)

// KeySize is the required length of a Box's symmetric key.
const KeySize = 32

// Box encrypts/decrypts short-lived secrets with a process-local key. It
// never persists the key; the key lives only in memory for the Box's
// lifetime.
type Box struct {
	key [KeySize]byte
}

// NewBox generates a fresh random key.
func NewBox() (*Box, error) {
	var key [KeySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, errs.New(errs.ToolExecutionError, "security.NewBox", err)
	}
	return &Box{key: key}, nil
}

// Seal encrypts plaintext, returning nonce-prefixed ciphertext.
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errs.New(errs.ToolExecutionError, "Box.Seal", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

// Open decrypts a Seal-produced ciphertext.
func (b *Box) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < 24 {
		return nil, errs.New(errs.ValidationError, "Box.Open", nil)
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &b.key)
	if !ok {
		return nil, errs.New(errs.ValidationError, "Box.Open", nil)
	}
	return plaintext, nil
}

// Credential is an ephemeral secret (an env var value, a bearer token)
// held encrypted in memory and decrypted only when Reveal is called.
type Credential struct {
	box    *Box
	sealed []byte
}

// SealCredential wraps a plaintext credential for in-memory storage.
func (b *Box) SealCredential(plaintext string) (Credential, error) {
	sealed, err := b.Seal([]byte(plaintext))
	if err != nil {
		return Credential{}, err
	}
	return Credential{box: b, sealed: sealed}, nil
}

// Reveal decrypts the credential for one-time use, e.g. right before
// dialing a transport.
func (c Credential) Reveal() (string, error) {
	plaintext, err := c.box.Open(c.sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
