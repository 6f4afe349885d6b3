// Package cryptox groups the cryptographic helpers used by the server:
// argon2id credential hashing, SHA-256 content digests and Ed25519 key
// handling for certificate signatures.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16

	hashScheme = "argon2id"
)

var ErrMalformedHash = errors.New("malformed secret hash")

// DeriveKey stretches secret with argon2id using the given salt.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashSecret returns a self-describing "argon2id$<salt>$<key>" string with a
// fresh random salt.
func HashSecret(secret []byte) string {
	salt := common.GenerateRandByteArray(saltLen)
	key := DeriveKey(secret, salt)
	return fmt.Sprintf("%s$%s$%s", hashScheme, hex.EncodeToString(salt), hex.EncodeToString(key))
}

// VerifySecret reports whether secret matches a hash produced by HashSecret.
// The comparison is constant time.
func VerifySecret(encoded string, secret []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashScheme {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false, ErrMalformedHash
	}
	got := DeriveKey(secret, salt)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// ContentHash returns the lowercase hex SHA-256 of b.
func ContentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
