package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/decode"
	"golang.org/x/oauth2"
)

const (
	oauthCookieName = "oauth-state"

	// deadline for exchanging an authorization code with the provider
	exchangeTimeout = 10 * time.Second
)

var ErrOAuthCredentialsIncomplete = errors.New("must specify both client ID and client secret")

type (
	// OAuthClient performs the client role in an oauth handshake, requesting
	// authorization from the user to access their account details on a
	// particular identity provider.
	OAuthClient struct {
		// hostname of the gateway, for constructing the callback URL the
		// provider redirects back to
		hostname *internal.HostnameService
		// name identifying the provider, e.g. "github"
		name string
		// path of the provider's callback endpoint; defaults to
		// /login/<name>/callback
		callbackPath string

		config *oauth2.Config
		// httpClient overrides the default http client used for the code
		// exchange; nil for the default.
		httpClient *http.Client
	}

	// OAuthClientConfig is configuration for constructing an OAuth client
	OAuthClientConfig struct {
		Hostname     *internal.HostnameService
		Name         string
		CallbackPath string
		Endpoint     oauth2.Endpoint
		ClientID     string
		ClientSecret string
		Scopes       []string
		HTTPClient   *http.Client
	}
)

func newOAuthClient(cfg OAuthClientConfig) (*OAuthClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrOAuthCredentialsIncomplete
	}
	client := OAuthClient{
		hostname:     cfg.Hostname,
		name:         cfg.Name,
		callbackPath: cfg.CallbackPath,
		httpClient:   cfg.HTTPClient,
		config: &oauth2.Config{
			Endpoint:     cfg.Endpoint,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
		},
	}
	if client.callbackPath == "" {
		client.callbackPath = path.Join("/login", cfg.Name, "callback")
	}
	return &client, nil
}

// String provides a human-readable identifier for the oauth client, using the
// name of its underlying provider
func (a *OAuthClient) String() string { return a.name }

func (a *OAuthClient) RequestPath() string {
	return path.Join("/login", a.name)
}

func (a *OAuthClient) CallbackPath() string {
	return a.callbackPath
}

// RequestHandler initiates the oauth flow, redirecting the user to the
// provider's authorization endpoint.
func (a *OAuthClient) RequestHandler(w http.ResponseWriter, r *http.Request) {
	state, err := internal.GenerateToken()
	if err != nil {
		http.Error(w, "unable to generate state token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   60, // 60 seconds
		HttpOnly: true,
		Secure:   true, // HTTPS only
	})

	redirectURL := a.oauthConfig().AuthCodeURL(state)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// callback completes the second leg of the oauth flow, handling the
// provider's response and exchanging its auth code for a token.
func (a *OAuthClient) callback(r *http.Request) (*oauth2.Token, error) {
	// Parse query string
	var resp struct {
		AuthCode         string `schema:"code"`
		State            string
		Error            string
		ErrorDescription string `schema:"error_description"`
		ErrorURI         string `schema:"error_uri"`
	}
	if err := decode.Query(&resp, r.URL.Query()); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s: %s\n\nSee %s", resp.Error, resp.ErrorDescription, resp.ErrorURI)
	}

	// Validate state
	cookie, err := r.Cookie(oauthCookieName)
	if err != nil {
		return nil, fmt.Errorf("missing state cookie (the cookie expires after 60 seconds)")
	}
	if resp.State != cookie.Value || resp.State == "" {
		return nil, fmt.Errorf("state mismatch between cookie and callback response")
	}

	// Exchange code for an access token. The exchange contacts the remote
	// provider, so it gets a deadline.
	ctx, cancel := context.WithTimeout(r.Context(), exchangeTimeout)
	defer cancel()
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	token, err := a.oauthConfig().Exchange(ctx, resp.AuthCode)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging authorization code: %v", internal.ErrProviderUnavailable, err)
	}
	return token, nil
}

// oauthConfig generates an oauth2 config for the client - note this is done
// at run-time because the gateway hostname may only be determined at
// run-time.
func (a *OAuthClient) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		Endpoint:     a.config.Endpoint,
		ClientID:     a.config.ClientID,
		ClientSecret: a.config.ClientSecret,
		RedirectURL:  a.hostname.URL(a.CallbackPath()),
		Scopes:       a.config.Scopes,
	}
}
