package authenticator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/user"
	"golang.org/x/oauth2"
)

type (
	// KeycloakConfig is the configuration for a keycloak realm acting as an
	// identity provider. The openid-connect endpoints are derived from the
	// host and realm.
	KeycloakConfig struct {
		// Host is the base URL of the keycloak server, including scheme.
		Host string
		// Realm is the name of the keycloak realm.
		Realm        string
		ClientID     string
		ClientSecret string
	}

	// keycloakAuthenticator authenticates a user via a keycloak OAuth
	// handshake, using the resulting access token to fetch their profile from
	// the realm's userinfo endpoint.
	keycloakAuthenticator struct {
		*OAuthClient

		userinfoURL string
	}
)

// endpointURL derives the URL of one of the realm's openid-connect protocol
// endpoints.
func (cfg KeycloakConfig) endpointURL(name string) string {
	return fmt.Sprintf("%s/auth/realms/%s/protocol/openid-connect/%s",
		strings.TrimSuffix(cfg.Host, "/"), cfg.Realm, name)
}

func newKeycloakAuthenticator(cfg KeycloakConfig, hostname *internal.HostnameService) (*keycloakAuthenticator, error) {
	client, err := newOAuthClient(OAuthClientConfig{
		Hostname: hostname,
		Name:     "keycloak",
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.endpointURL("auth"),
			TokenURL: cfg.endpointURL("token"),
		},
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"openid"},
	})
	if err != nil {
		return nil, err
	}
	return &keycloakAuthenticator{
		OAuthClient: client,
		userinfoURL: cfg.endpointURL("userinfo"),
	}, nil
}

func (a *keycloakAuthenticator) user(ctx context.Context, token *oauth2.Token) (*user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(a.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching keycloak userinfo: %v", internal.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: keycloak userinfo returned %s", internal.ErrProviderUnavailable, resp.Status)
	}

	var claims struct {
		Sub               string `json:"sub"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
		Email             string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: decoding keycloak userinfo: %v", internal.ErrProviderUnavailable, err)
	}

	return NewUserFromKeycloakProfile(KeycloakProfile{
		KeycloakID: claims.Sub,
		Username:   claims.PreferredUsername,
		FullName:   claims.Name,
		Email:      claims.Email,
	})
}
