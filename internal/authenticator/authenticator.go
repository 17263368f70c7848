// Package authenticator is responsible for handling the authentication of
// users, either with locally stored credentials or with a third party
// identity provider.
package authenticator

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/decode"
	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/tokens"
	"github.com/idgate/idgate/internal/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var loginsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "idgate",
	Name:      "logins_total",
	Help:      "Total successful logins by authenticator.",
}, []string{"authenticator"})

type (
	// authenticator logs a user onto the system via a redirect-based
	// handshake with an identity provider: the request handler redirects the
	// user agent to the provider, and the response handler completes the
	// handshake when the provider calls back.
	authenticator interface {
		// String is the name identifying the authenticator, e.g. "github"
		String() string
		// RequestPath is the path of the endpoint triggering authentication
		RequestPath() string
		// CallbackPath is the path of the endpoint the provider calls back
		CallbackPath() string
		RequestHandler(w http.ResponseWriter, r *http.Request)
		ResponseHandler(w http.ResponseWriter, r *http.Request)
	}

	// IdentityStore is the subset of the user service the authenticators
	// consume: resolving users and idempotently persisting federated
	// identities.
	IdentityStore interface {
		GetUser(ctx context.Context, spec user.UserSpec) (*user.User, error)
		CreateUserIfNeeded(ctx context.Context, u *user.User) (*user.User, error)
	}

	Options struct {
		logr.Logger

		HostnameService *internal.HostnameService
		SessionsService *tokens.Service
		Users           IdentityStore
		Renderer        html.Renderer
		Verifier        CredentialVerifier

		GithubClientID     string
		GithubClientSecret string
		Keycloak           KeycloakConfig
		OIDCConfigs        []OIDCConfig
	}

	Service struct {
		logr.Logger

		renderer       html.Renderer
		local          *localAuthenticator
		authenticators []authenticator
	}
)

// NewAuthenticatorService constructs the authenticator service, registering
// an authenticator per configured identity provider. A provider that fails to
// register, e.g. because its OIDC discovery endpoint is unreachable, is
// skipped so that the remaining providers and the local strategy keep
// functioning.
func NewAuthenticatorService(ctx context.Context, opts Options) (*Service, error) {
	svc := Service{
		Logger:   opts.Logger,
		renderer: opts.Renderer,
	}
	verifier := opts.Verifier
	if verifier == nil {
		verifier = &PlaintextVerifier{}
	}
	svc.local = &localAuthenticator{
		Logger:   opts.Logger,
		users:    opts.Users,
		sessions: opts.SessionsService,
		verifier: verifier,
	}

	if opts.GithubClientID != "" || opts.GithubClientSecret != "" {
		github, err := newGithubAuthenticator(githubConfig{
			hostname:     opts.HostnameService,
			clientID:     opts.GithubClientID,
			clientSecret: opts.GithubClientSecret,
		})
		if err != nil {
			return nil, err
		}
		svc.registerOAuthAuthenticator(github, opts)
	} else {
		opts.V(1).Info("github login disabled: no client credentials given")
	}

	if opts.Keycloak.Host != "" {
		keycloak, err := newKeycloakAuthenticator(opts.Keycloak, opts.HostnameService)
		if err != nil {
			return nil, err
		}
		svc.registerOAuthAuthenticator(keycloak, opts)
	} else {
		opts.V(1).Info("keycloak login disabled: no host given")
	}

	for _, cfg := range opts.OIDCConfigs {
		oidc, err := newOIDCAuthenticator(ctx, oidcAuthenticatorOptions{
			config:   cfg,
			hostname: opts.HostnameService,
		})
		if err != nil {
			// a variant whose discovery fails must not prevent the other
			// strategies from registering
			opts.Error(err, "skipping oidc authenticator", "name", cfg.Name)
			continue
		}
		svc.registerOAuthAuthenticator(oidc, opts)
	}

	return &svc, nil
}

func (a *Service) registerOAuthAuthenticator(handler profileHandler, opts Options) {
	a.authenticators = append(a.authenticators, &oauthAuthenticator{
		Logger:         opts.Logger,
		sessions:       opts.SessionsService,
		users:          opts.Users,
		profileHandler: handler,
	})
	a.V(0).Info("registered authenticator", "name", handler.String())
}

// RegisteredNames lists the names of the registered redirect-based
// authenticators.
func (a *Service) RegisteredNames() []string {
	names := make([]string, len(a.authenticators))
	for i, authenticator := range a.authenticators {
		names[i] = authenticator.String()
	}
	return names
}

func (a *Service) AddHandlers(r *mux.Router) {
	r.HandleFunc("/login", a.loginHandler).Methods("GET")
	r.HandleFunc("/login", a.local.ResponseHandler).Methods("POST")
	for _, authenticator := range a.authenticators {
		r.HandleFunc(authenticator.RequestPath(), authenticator.RequestHandler).Methods("GET")
		r.HandleFunc(authenticator.CallbackPath(), authenticator.ResponseHandler).Methods("GET")
	}
	// any remaining provider path refers to a provider that is not
	// configured; report that rather than a bare 404.
	r.HandleFunc("/login/{provider}", a.notConfigured).Methods("GET")
	r.PathPrefix("/login/{provider}/").HandlerFunc(a.notConfigured).Methods("GET")
}

type loginProvider struct {
	Name        string
	RequestPath string
}

type loginPage struct {
	html.SitePage
	Providers []loginProvider
}

// loginHandler renders the login page, listing a login button per registered
// authenticator alongside the local login form.
func (a *Service) loginHandler(w http.ResponseWriter, r *http.Request) {
	providers := make([]loginProvider, len(a.authenticators))
	for i, authenticator := range a.authenticators {
		providers[i] = loginProvider{
			Name:        authenticator.String(),
			RequestPath: authenticator.RequestPath(),
		}
	}
	a.renderer.Render("login.tmpl", w, r, loginPage{
		SitePage:  html.NewSitePage(r, w, "login"),
		Providers: providers,
	})
}

func (a *Service) notConfigured(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Provider string `schema:"provider"`
	}
	if err := decode.Route(&params, r); err != nil {
		html.Error(r, w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	html.Error(r, w, "provider not configured: "+params.Provider, http.StatusNotFound)
}
