package certs

import (
	"crypto/ed25519"

	"github.com/dmitrijs2005/sanitizer/internal/cryptox"
)

// Signer signs certificate ids.
type Signer interface {
	Sign(msg []byte) ([]byte, error)
	Verify(msg, sig []byte) bool
	KeyID() string
}

type Ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	id   string
}

func NewEd25519Signer(priv ed25519.PrivateKey) *Ed25519Signer {
	pub := priv.Public().(ed25519.PublicKey)
	return &Ed25519Signer{priv: priv, pub: pub, id: cryptox.KeyID(pub)}
}

func (s *Ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, msg), nil
}

func (s *Ed25519Signer) Verify(msg, sig []byte) bool {
	return ed25519.Verify(s.pub, msg, sig)
}

func (s *Ed25519Signer) KeyID() string { return s.id }

func (s *Ed25519Signer) PublicKey() ed25519.PublicKey { return s.pub }
