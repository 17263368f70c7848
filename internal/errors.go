package internal

import (
	"errors"
	"fmt"
)

// Generic errors
var (
	// ErrResourceNotFound is returned when a receiving a 404.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceAlreadyExists is returned when attempting to create a resource
	// that already exists.
	ErrResourceAlreadyExists = errors.New("resource already exists")
)

// Authentication errors
var (
	// ErrInvalidCredentials is returned when a local login attempt fails,
	// deliberately not distinguishing an unknown user from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProviderUnavailable is returned when a remote identity provider is
	// unreachable or returns a malformed response.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// MissingParameterError occurs when the caller has failed to provide a
// required parameter
type MissingParameterError struct {
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required parameter missing: %s", e.Parameter)
}
