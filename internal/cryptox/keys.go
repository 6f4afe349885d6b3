package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"os"
)

var (
	ErrNoPrivateKey  = errors.New("no Ed25519 private key found in PEM")
	ErrNotEd25519Key = errors.New("not an Ed25519 key")
)

// LoadEd25519PrivateKey reads a PKCS#8 "PRIVATE KEY" PEM block from path.
func LoadEd25519PrivateKey(path string) (ed25519.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEd25519PrivateKey(b)
}

// ParseEd25519PrivateKey scans PEM data for the first PKCS#8 private key.
func ParseEd25519PrivateKey(data []byte) (ed25519.PrivateKey, error) {
	for {
		blk, rest := pem.Decode(data)
		if blk == nil {
			break
		}
		if blk.Type == "PRIVATE KEY" {
			k, err := x509.ParsePKCS8PrivateKey(blk.Bytes)
			if err != nil {
				return nil, err
			}
			p, ok := k.(ed25519.PrivateKey)
			if !ok {
				return nil, ErrNotEd25519Key
			}
			return p, nil
		}
		data = rest
	}
	return nil, ErrNoPrivateKey
}

// MarshalEd25519PrivateKey encodes key as a PKCS#8 PEM block.
func MarshalEd25519PrivateKey(key ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// GenerateEd25519 creates a new signing key pair.
func GenerateEd25519() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	return priv, err
}

// KeyID is a short stable identifier of a public key: the first 8 bytes of
// its SHA-256, hex encoded.
func KeyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:8])
}
