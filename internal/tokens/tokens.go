// Package tokens manages session token authentication: serializing an
// authenticated user into a signed session cookie and restoring the user on
// subsequent requests.
package tokens

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	// the kind of token; leaves room for token kinds other than sessions
	sessionKind = "user_session"

	kindClaim = "kind"
)

// NewSessionToken constructs a signed session token whose subject is the
// user's ID.
func NewSessionToken(key jwk.Key, userID string, expiry time.Time) ([]byte, error) {
	token, err := jwt.NewBuilder().
		Subject(userID).
		Claim(kindClaim, sessionKind).
		IssuedAt(time.Now()).
		Expiration(expiry).
		Build()
	if err != nil {
		return nil, err
	}
	return jwt.Sign(token, jwt.WithKey(jwa.HS256, key))
}

// parseSessionToken verifies the signature and expiry of a session token and
// returns the user ID it was minted for.
func parseSessionToken(key jwk.Key, token string) (string, error) {
	parsed, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256, key), jwt.WithValidate(true))
	if err != nil {
		return "", err
	}
	kind, ok := parsed.Get(kindClaim)
	if !ok || kind != sessionKind {
		return "", fmt.Errorf("unexpected token kind: %v", kind)
	}
	return parsed.Subject(), nil
}
