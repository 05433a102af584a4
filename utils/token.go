package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken returns a random hex token for invitation links.
func GenerateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
