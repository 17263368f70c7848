package authenticator

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/user"
	"golang.org/x/oauth2"
)

// deadline for discovering a provider's endpoints at startup
const discoveryTimeout = 10 * time.Second

var (
	ErrMissingOIDCName      = errors.New("missing oidc name")
	ErrMissingOIDCIssuerURL = errors.New("missing oidc issuer-url")
)

type (
	// OIDCConfig is the configuration for one OIDC identity provider. An
	// arbitrary number of providers can be configured, differing only in
	// their configuration; each registers an authenticator under its name.
	OIDCConfig struct {
		// Name of the provider, used in its login and callback paths.
		Name string
		// IssuerURL is the provider's issuer, from which its endpoints are
		// discovered.
		IssuerURL    string
		ClientID     string
		ClientSecret string
		// Scopes to request; defaults to just "openid".
		Scopes []string
		// CallbackPath overrides the default callback path /login/<name>/cb.
		CallbackPath string
		// SkipTLSVerification skips verification of the provider's TLS
		// certificate. For testing purposes only.
		SkipTLSVerification bool
	}

	// oidcAuthenticator authenticates a user via an OIDC handshake, verifying
	// the ID token before fetching their profile from the provider's userinfo
	// endpoint.
	oidcAuthenticator struct {
		*OAuthClient

		provider *oidc.Provider
		verifier *oidc.IDTokenVerifier
		// client overrides the default http client used to contact the
		// provider; nil for the default.
		client *http.Client
	}

	oidcAuthenticatorOptions struct {
		config   OIDCConfig
		hostname *internal.HostnameService
	}
)

// newOIDCAuthenticator constructs an authenticator from an OIDC config,
// discovering the provider's endpoints. Discovery contacts the issuer and is
// performed once, at construction.
func newOIDCAuthenticator(ctx context.Context, opts oidcAuthenticatorOptions) (*oidcAuthenticator, error) {
	cfg := opts.config
	if cfg.Name == "" {
		return nil, ErrMissingOIDCName
	}
	if cfg.IssuerURL == "" {
		return nil, ErrMissingOIDCIssuerURL
	}

	var client *http.Client
	if cfg.SkipTLSVerification {
		client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()
	if client != nil {
		ctx = oidc.ClientContext(ctx, client)
	}
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: discovering oidc provider %s: %v", internal.ErrProviderUnavailable, cfg.Name, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID}
	}
	callbackPath := cfg.CallbackPath
	if callbackPath == "" {
		callbackPath = path.Join("/login", cfg.Name, "cb")
	}

	oauthClient, err := newOAuthClient(OAuthClientConfig{
		Hostname:     opts.hostname,
		Name:         cfg.Name,
		CallbackPath: callbackPath,
		Endpoint:     provider.Endpoint(),
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       scopes,
		HTTPClient:   client,
	})
	if err != nil {
		return nil, err
	}
	return &oidcAuthenticator{
		OAuthClient: oauthClient,
		provider:    provider,
		verifier:    provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		client:      client,
	}, nil
}

func (a *oidcAuthenticator) user(ctx context.Context, token *oauth2.Token) (*user.User, error) {
	// Extract and verify the ID token accompanying the access token before
	// trusting anything else the provider says.
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: response missing id_token", internal.ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()
	if a.client != nil {
		ctx = oidc.ClientContext(ctx, a.client)
	}

	if _, err := a.verifier.Verify(ctx, rawIDToken); err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}

	info, err := a.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching userinfo: %v", internal.ErrProviderUnavailable, err)
	}
	var userinfo OIDCUserinfo
	if err := info.Claims(&userinfo); err != nil {
		return nil, fmt.Errorf("%w: decoding userinfo: %v", internal.ErrProviderUnavailable, err)
	}
	return NewUserFromOIDCUserinfo(a.String(), userinfo)
}
