// Package user manages the canonical identity record that every
// authentication strategy resolves to.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/idgate/idgate/internal"
)

var ErrNoAuthenticatedUser = errors.New("no authenticated user found in context")

type (
	// User is the canonical identity record used application-wide. Identities
	// from every provider are normalized into this one shape.
	User struct {
		// ID is an opaque stable identifier, unique per identity provider
		// namespace. Local users use their username as their ID.
		ID          string
		Username    string
		DisplayName string
		Emails      []Email
		// Password is set only for locally-registered users; nil for
		// provider-federated users.
		Password *string

		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Email struct {
		Value string
	}

	// UserSpec identifies a user either by ID or by username.
	UserSpec struct {
		UserID   *string
		Username *string
	}

	NewUserOption func(*User)
)

func NewUser(id string, opts ...NewUserOption) *User {
	user := &User{
		ID:        id,
		Username:  id,
		CreatedAt: internal.CurrentTimestamp(),
		UpdatedAt: internal.CurrentTimestamp(),
	}
	for _, fn := range opts {
		fn(user)
	}
	return user
}

func WithUsername(username string) NewUserOption {
	return func(user *User) {
		user.Username = username
	}
}

func WithDisplayName(name string) NewUserOption {
	return func(user *User) {
		user.DisplayName = name
	}
}

func WithEmails(emails []Email) NewUserOption {
	return func(user *User) {
		user.Emails = emails
	}
}

func WithPassword(password string) NewUserOption {
	return func(user *User) {
		user.Password = &password
	}
}

// NewLocalUser constructs a locally-registered user, which uses its username
// as its stable identifier.
func NewLocalUser(username, password string, opts ...NewUserOption) *User {
	opts = append([]NewUserOption{WithPassword(password)}, opts...)
	return NewUser(username, opts...)
}

// EmailValues returns the plain email addresses of the user.
func (u *User) EmailValues() []string {
	values := make([]string, len(u.Emails))
	for i, email := range u.Emails {
		values[i] = email.Value
	}
	return values
}

func (u *User) String() string { return u.Username }

type userCtxKey struct{}

// NewContext attaches an authenticated user to a context.
func NewContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// FromContext retrieves the authenticated user attached to the context, if
// any.
func FromContext(ctx context.Context) (*User, error) {
	user, ok := ctx.Value(userCtxKey{}).(*User)
	if !ok {
		return nil, ErrNoAuthenticatedUser
	}
	return user, nil
}
