package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecretToken returns an unguessable 64-character hex string.
// Used for booking cancellation tokens.
func GenerateSecretToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
