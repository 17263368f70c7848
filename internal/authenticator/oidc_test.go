package authenticator

import (
	"context"
	"testing"

	"github.com/idgate/idgate/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewOIDCAuthenticator(t *testing.T) {
	issuer, _ := NewOIDCIssuer(t, "cas-123", "bobby@cas", "id-123", "unikname-cas")

	authenticator, err := newOIDCAuthenticator(context.Background(), oidcAuthenticatorOptions{
		hostname: internal.NewHostnameService("gateway.example"),
		config: OIDCConfig{
			Name:                "unikname-cas",
			IssuerURL:           issuer,
			ClientID:            "id-123",
			ClientSecret:        "secret-123",
			SkipTLSVerification: true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "unikname-cas", authenticator.String())
	assert.Equal(t, "/login/unikname-cas", authenticator.RequestPath())
	assert.Equal(t, "/login/unikname-cas/cb", authenticator.CallbackPath())

	t.Run("missing name", func(t *testing.T) {
		_, err := newOIDCAuthenticator(context.Background(), oidcAuthenticatorOptions{
			config: OIDCConfig{IssuerURL: issuer},
		})
		assert.ErrorIs(t, err, ErrMissingOIDCName)
	})

	t.Run("missing issuer", func(t *testing.T) {
		_, err := newOIDCAuthenticator(context.Background(), oidcAuthenticatorOptions{
			config: OIDCConfig{Name: "unikname-cas"},
		})
		assert.ErrorIs(t, err, ErrMissingOIDCIssuerURL)
	})
}

func TestOIDCAuthenticator_user(t *testing.T) {
	issuer, key := NewOIDCIssuer(t, "cas-123", "bobby@cas", "id-123", "unikname-cas")

	authenticator, err := newOIDCAuthenticator(context.Background(), oidcAuthenticatorOptions{
		hostname: internal.NewHostnameService("gateway.example"),
		config: OIDCConfig{
			Name:                "unikname-cas",
			IssuerURL:           issuer,
			ClientID:            "id-123",
			ClientSecret:        "secret-123",
			SkipTLSVerification: true,
		},
	})
	require.NoError(t, err)

	t.Run("verified token yields normalized user", func(t *testing.T) {
		token := fakeOAuthToken(t, "bobby@cas", "id-123", issuer, key)
		got, err := authenticator.user(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "cas-123", got.ID)
		assert.Equal(t, "bobby@cas", got.Username)
	})

	t.Run("response missing id token", func(t *testing.T) {
		_, err := authenticator.user(context.Background(), (&oauth2.Token{}).WithExtra(map[string]any{}))
		assert.ErrorIs(t, err, internal.ErrProviderUnavailable)
	})
}
