// Package daemon configures and starts the idgated daemon and its services.
package daemon

import (
	"context"
	"fmt"
	"net"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/authenticator"
	"github.com/idgate/idgate/internal/http"
	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/http/html/paths"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/sql"
	"github.com/idgate/idgate/internal/tokens"
	"github.com/idgate/idgate/internal/user"
	"golang.org/x/sync/errgroup"
)

type Daemon struct {
	Config
	logr.Logger

	*sql.DB

	Users          *user.Service
	Tokens         *tokens.Service
	Authenticators *authenticator.Service
	System         *internal.HostnameService

	// ListenAddress is the listening address of the daemon's http server,
	// e.g. localhost:3003
	ListenAddress *net.TCPAddr

	handlers []internal.Handlers
}

// New builds a new daemon and establishes a connection to the database and
// migrates it to the latest schema. Close() should be called to close this
// connection.
func New(ctx context.Context, logger logr.Logger, cfg Config) (*Daemon, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	hostnameService := internal.NewHostnameService(cfg.Host)

	db, err := sql.New(ctx, logger, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	renderer, err := html.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("setting up web page renderer: %w", err)
	}

	userService := user.NewService(user.Options{
		Logger:   logger,
		DB:       db,
		Renderer: renderer,
	})

	tokensService, err := tokens.NewService(tokens.Options{
		Logger: logger,
		Secret: cfg.Secret,
		GetUser: func(ctx context.Context, userID string) (*user.User, error) {
			return userService.GetUser(ctx, user.UserSpec{UserID: &userID})
		},
		ProtectedPrefixes: []string{paths.Profile()},
	})
	if err != nil {
		return nil, fmt.Errorf("setting up session middleware: %w", err)
	}

	authenticatorService, err := authenticator.NewAuthenticatorService(ctx, authenticator.Options{
		Logger:             logger,
		HostnameService:    hostnameService,
		SessionsService:    tokensService,
		Users:              userService,
		Renderer:           renderer,
		GithubClientID:     cfg.GithubClientID,
		GithubClientSecret: cfg.GithubClientSecret,
		Keycloak:           cfg.Keycloak,
		OIDCConfigs:        cfg.OIDC,
	})
	if err != nil {
		return nil, err
	}

	return &Daemon{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Users:          userService,
		Tokens:         tokensService,
		Authenticators: authenticatorService,
		System:         hostnameService,
		handlers: []internal.Handlers{
			userService,
			tokensService,
			authenticatorService,
		},
	}, nil
}

// Start the idgated daemon and block until ctx is cancelled or an error is
// returned. The started channel is closed once the daemon has started.
func (d *Daemon) Start(ctx context.Context, started chan struct{}) error {
	// Cancel context the first time a func started with g.Go() fails
	g, ctx := errgroup.WithContext(ctx)

	// close all db connections upon exit
	defer d.DB.Close()

	server, err := http.NewServer(d.Logger, http.ServerConfig{
		SSL:                  d.SSL,
		CertFile:             d.CertFile,
		KeyFile:              d.KeyFile,
		EnableRequestLogging: d.EnableRequestLogging,
		Middleware:           []mux.MiddlewareFunc{d.Tokens.Middleware()},
		Handlers:             d.handlers,
	})
	if err != nil {
		return fmt.Errorf("setting up http server: %w", err)
	}
	ln, err := net.Listen("tcp", d.Address)
	if err != nil {
		return err
	}
	d.ListenAddress = ln.Addr().(*net.TCPAddr)

	defer ln.Close()

	// Unless the user has set a hostname, set the hostname to the listening
	// address of the http server.
	if d.Host == "" {
		d.System.SetHostname(internal.NormalizeAddress(d.ListenAddress))
	}
	d.V(0).Info("set system hostname", "hostname", d.System.Hostname())

	g.Go(func() error {
		if err := server.Start(ctx, ln); err != nil {
			return fmt.Errorf("http server terminated: %w", err)
		}
		return nil
	})

	// Inform the caller the daemon has started
	close(started)

	return g.Wait()
}
