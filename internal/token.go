package internal

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateToken generates a random token suitable for cryptographic work,
// e.g. an oauth state nonce. The returned string is base64-url-encoded.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
