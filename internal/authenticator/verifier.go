package authenticator

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

type (
	// CredentialVerifier checks a submitted password against the stored
	// credential of a local user.
	CredentialVerifier interface {
		Verify(submitted, stored string) bool
	}

	// PlaintextVerifier compares the submitted password directly against the
	// stored one, preserving the behaviour of the legacy system, which stores
	// passwords in the clear. NOT suitable for production use: swap in
	// BcryptVerifier and store salted hashes instead.
	PlaintextVerifier struct{}

	// BcryptVerifier treats the stored credential as a bcrypt hash.
	BcryptVerifier struct{}
)

func (PlaintextVerifier) Verify(submitted, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}

func (BcryptVerifier) Verify(submitted, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
}
