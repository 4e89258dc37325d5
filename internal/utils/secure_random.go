package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureRandomString returns lengthInBytes bytes from crypto/rand, hex encoded.
// It backs the never-disclosed placeholder password of externally authenticated
// accounts and the state value of the Google consent redirect; the output is
// 2*lengthInBytes characters, so callers hashing it with bcrypt must stay at or
// below 36 bytes.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("random string length must be positive, got %d", lengthInBytes)
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
