package tokens

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/user"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

type (
	// UserResolver resolves a user ID stored in a session back to a user, via
	// the identity store.
	UserResolver func(ctx context.Context, userID string) (*user.User, error)

	Service struct {
		logr.Logger

		key        jwk.Key
		getUser    UserResolver
		middleware mux.MiddlewareFunc
		web        *webHandlers
	}

	Options struct {
		logr.Logger

		// Secret for signing session tokens.
		Secret []byte
		// GetUser resolves a session's user ID to a user.
		GetUser UserResolver
		// ProtectedPrefixes are path prefixes that require an authenticated
		// session; unauthenticated requests are sent to the login page.
		ProtectedPrefixes []string
	}
)

func NewService(opts Options) (*Service, error) {
	key, err := jwk.FromRaw(opts.Secret)
	if err != nil {
		return nil, err
	}
	svc := Service{
		Logger:  opts.Logger,
		key:     key,
		getUser: opts.GetUser,
	}
	svc.web = &webHandlers{svc: &svc}
	svc.middleware = newMiddleware(middlewareOptions{
		Logger:            opts.Logger,
		key:               key,
		getUser:           opts.GetUser,
		protectedPrefixes: opts.ProtectedPrefixes,
	})
	return &svc, nil
}

func (a *Service) AddHandlers(r *mux.Router) {
	a.web.addHandlers(r)
}

// Middleware returns middleware for restoring the session user.
func (a *Service) Middleware() mux.MiddlewareFunc { return a.middleware }
