// Package guestpass hashes and verifies the lookup passwords that guest
// purchasers set at checkout.
//
// These are not account passwords: a guest order has no login session, so
// the password is the only secret tying a person to their order. The stored
// form is safe to keep in a plain database column — it is a random salt plus
// an scrypt-derived key, hex-encoded and joined with ":".
//
//	stored, err := guestpass.Hash("secret123")
//	ok := guestpass.Verify("secret123", stored) // true
package guestpass

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. Changing these invalidates nothing that is already
// stored — Verify recomputes with the same parameters the stored form was
// created with only insofar as they stay fixed, so treat them as frozen.
const (
	scryptN   = 32768
	scryptR   = 8
	scryptP   = 1
	saltBytes = 16
	keyBytes  = 64
)

// ErrEmptyPassword is returned by Hash for a password that is empty after
// trimming. Minimum length policy beyond non-empty belongs to the caller.
var ErrEmptyPassword = errors.New("guestpass: empty password")

// Hash derives a salted stored form from a plaintext lookup password.
// Each call generates a fresh random salt, so hashing the same password
// twice yields two different stored strings.
func Hash(plaintext string) (string, error) {
	plaintext = strings.TrimSpace(plaintext)
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, keyBytes)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify reports whether plaintext matches a stored form produced by Hash.
//
// Any malformed stored form — wrong component count, non-hex content, wrong
// key length — verifies as false. Callers cannot distinguish a corrupt
// record from a wrong password, which keeps the API's failure mode uniform.
// The final comparison is constant-time.
func Verify(plaintext, stored string) bool {
	plaintext = strings.TrimSpace(plaintext)
	if plaintext == "" {
		return false
	}

	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	got, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, keyBytes)
	if err != nil {
		return false
	}

	// ConstantTimeCompare requires equal lengths; the length itself is not
	// secret, so checking it first leaks nothing.
	if len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
