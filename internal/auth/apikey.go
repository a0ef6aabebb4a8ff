package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const (
	apiKeyPrefix = "csk_"
	// KeyPrefixLen is how many leading characters of a key are stored in clear for display
	KeyPrefixLen = 8
)

// GenerateAPIKey returns a new plaintext key together with its display prefix and stored hash
func GenerateAPIKey() (key, prefix, hash string) {
	a, b := uuid.New(), uuid.New()
	key = apiKeyPrefix + hex.EncodeToString(a[:]) + hex.EncodeToString(b[:])
	return key, key[:KeyPrefixLen], HashAPIKey(key)
}

// HashAPIKey returns the hex SHA-256 of key, the form keys are stored and looked up in
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])
}
