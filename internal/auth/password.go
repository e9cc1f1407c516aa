// Package auth implements the password credential utility.
//
// Digests use the format "salt$hex_sha256(salt+plaintext)" with an 8-byte
// random salt, for compatibility with already-stored credentials.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashPassword returns a salted digest of the plaintext password.
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	return saltHex + "$" + digest(saltHex, plaintext), nil
}

// VerifyPassword reports whether plaintext matches the stored digest.
// The comparison is constant-time to avoid timing leaks; a malformed stored
// value never matches.
func VerifyPassword(plaintext, stored string) bool {
	salt, want, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	got := digest(salt, plaintext)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func digest(salt, plaintext string) string {
	sum := sha256.Sum256([]byte(salt + plaintext))
	return hex.EncodeToString(sum[:])
}
