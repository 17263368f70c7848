package authenticator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthenticatorService(t *testing.T) {
	hostname := internal.NewHostnameService("gateway.example")

	t.Run("no providers configured", func(t *testing.T) {
		svc, err := NewAuthenticatorService(context.Background(), Options{
			Logger:          logr.Discard(),
			HostnameService: hostname,
		})
		require.NoError(t, err)

		// local login always works, even with no federated providers
		assert.NotNil(t, svc.local)
		assert.Empty(t, svc.RegisteredNames())
	})

	t.Run("github", func(t *testing.T) {
		svc, err := NewAuthenticatorService(context.Background(), Options{
			Logger:             logr.Discard(),
			HostnameService:    hostname,
			GithubClientID:     "id-123",
			GithubClientSecret: "secret-123",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"github"}, svc.RegisteredNames())
	})

	t.Run("github credentials incomplete", func(t *testing.T) {
		_, err := NewAuthenticatorService(context.Background(), Options{
			Logger:          logr.Discard(),
			HostnameService: hostname,
			GithubClientID:  "id-123",
		})
		assert.ErrorIs(t, err, ErrOAuthCredentialsIncomplete)
	})

	t.Run("keycloak", func(t *testing.T) {
		svc, err := NewAuthenticatorService(context.Background(), Options{
			Logger:          logr.Discard(),
			HostnameService: hostname,
			Keycloak: KeycloakConfig{
				Host:         "https://keycloak.example",
				Realm:        "master",
				ClientID:     "id-123",
				ClientSecret: "secret-123",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"keycloak"}, svc.RegisteredNames())
	})

	t.Run("unconfigured provider gets a 404", func(t *testing.T) {
		svc, err := NewAuthenticatorService(context.Background(), Options{
			Logger:          logr.Discard(),
			HostnameService: hostname,
		})
		require.NoError(t, err)

		router := mux.NewRouter()
		svc.AddHandlers(router)

		r := httptest.NewRequest("GET", "/login/twitter", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "provider not configured: twitter")
	})

	t.Run("unreachable oidc issuer is skipped", func(t *testing.T) {
		svc, err := NewAuthenticatorService(context.Background(), Options{
			Logger:             logr.Discard(),
			HostnameService:    hostname,
			GithubClientID:     "id-123",
			GithubClientSecret: "secret-123",
			OIDCConfigs: []OIDCConfig{
				{
					Name:         "unikname-cas",
					IssuerURL:    "https://127.0.0.1:1/nothing-here",
					ClientID:     "id-123",
					ClientSecret: "secret-123",
				},
			},
		})
		require.NoError(t, err)

		// the broken variant must not take down the other strategies
		assert.Equal(t, []string{"github"}, svc.RegisteredNames())
	})
}
