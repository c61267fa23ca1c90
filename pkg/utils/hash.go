package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SumSHA256 returns the SHA-256 checksum of the provided data.
func SumSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Fingerprint returns a short, log-safe identifier for a secret.
// Empty input yields an empty fingerprint.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := SumSHA256([]byte(secret))
	return hex.EncodeToString(sum[:4])
}
