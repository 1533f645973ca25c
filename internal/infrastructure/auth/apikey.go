package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// APIKeyPrefix marks keys issued by this service.
const APIKeyPrefix = "tsk"

const apiKeyEntropyBytes = 32

// GenerateAPIKey returns a new plain key and the digest to store.
// Key format: tsk_<base64url(32 random bytes)>
func GenerateAPIKey() (plainKey string, keyHash string, err error) {
	buf := make([]byte, apiKeyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate api key: %w", err)
	}
	plainKey = fmt.Sprintf("%s_%s", APIKeyPrefix, base64.RawURLEncoding.EncodeToString(buf))
	return plainKey, HashAPIKey(plainKey), nil
}

// HashAPIKey is the SHA-256 hex digest stored in users.api_key_hash.
// Keys are high-entropy, so a fast digest is enough for lookup.
func HashAPIKey(plainKey string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(plainKey)))
	return hex.EncodeToString(sum[:])
}
