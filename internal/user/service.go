package user

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/sql"
)

type (
	Service struct {
		logr.Logger

		db  *pgdb
		web *webHandlers
	}

	Options struct {
		logr.Logger

		*sql.DB
		Renderer html.Renderer
	}
)

func NewService(opts Options) *Service {
	svc := Service{
		Logger: opts.Logger,
		db:     &pgdb{opts.DB},
	}
	svc.web = &webHandlers{
		svc:      &svc,
		renderer: opts.Renderer,
	}
	return &svc
}

func (a *Service) AddHandlers(r *mux.Router) {
	a.web.addHandlers(r)
}

// GetUser retrieves the user matching the spec.
func (a *Service) GetUser(ctx context.Context, spec UserSpec) (*User, error) {
	subject, err := a.db.getUser(ctx, spec)
	if err != nil {
		a.V(9).Info("retrieving user", "spec", spec)
		return nil, err
	}
	a.V(9).Info("retrieved user", "username", subject.Username)
	return subject, nil
}

// CreateUserIfNeeded persists the user unless a user with the same ID already
// exists; the stored record is returned either way. Authenticators call this
// after normalizing a provider identity, so a returning user keeps the
// attributes they signed up with.
func (a *Service) CreateUserIfNeeded(ctx context.Context, user *User) (*User, error) {
	stored, err := a.db.createUserIfNeeded(ctx, user)
	if err != nil {
		a.Error(err, "creating user", "username", user.Username)
		return nil, err
	}
	a.V(1).Info("created user if needed", "username", stored.Username)
	return stored, nil
}

// CreateLocalUser registers a user with locally stored credentials.
func (a *Service) CreateLocalUser(ctx context.Context, username, password string, opts ...NewUserOption) (*User, error) {
	user := NewLocalUser(username, password, opts...)
	if err := a.db.createUser(ctx, user); err != nil {
		a.Error(err, "creating local user", "username", username)
		return nil, err
	}
	a.V(0).Info("created local user", "username", username)
	return user, nil
}
