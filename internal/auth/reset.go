package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes is the entropy of a password-reset token before hex encoding.
const resetTokenBytes = 32

// NewResetToken generates a one-time password-reset token. It returns the
// plaintext token, which goes out in the reset email, and its SHA256 hex
// digest, which is what gets persisted. The plaintext never touches the store.
func NewResetToken() (plain, hash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}

	plain = hex.EncodeToString(buf)
	return plain, HashResetToken(plain), nil
}

// HashResetToken returns the SHA256 hex digest of a plaintext reset token.
// Lookup of a presented token goes through this same digest.
func HashResetToken(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}
