package authenticator

import (
	"testing"

	"github.com/idgate/idgate/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserFromGithubProfile(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		got, err := NewUserFromGithubProfile(GithubProfile{
			ID:          "123",
			Username:    "bobby",
			DisplayName: "Bobby Tables",
			Emails:      []user.Email{{Value: "bobby@example.com"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "123", got.ID)
		assert.Equal(t, "bobby", got.Username)
		assert.Equal(t, "Bobby Tables", got.DisplayName)
		assert.Equal(t, []string{"bobby@example.com"}, got.EmailValues())
		assert.Nil(t, got.Password)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NewUserFromGithubProfile(GithubProfile{Username: "bobby"})
		var norm *NormalizationError
		require.ErrorAs(t, err, &norm)
		assert.Equal(t, "github", norm.Provider)
	})
}

func TestNewUserFromKeycloakProfile(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		got, err := NewUserFromKeycloakProfile(KeycloakProfile{
			KeycloakID: "kc-123",
			Username:   "bobby",
			FullName:   "Bobby Tables",
			Email:      "bobby@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "kc-123", got.ID)
		assert.Equal(t, "bobby", got.Username)
		assert.Equal(t, "Bobby Tables", got.DisplayName)
		assert.Equal(t, []string{"bobby@example.com"}, got.EmailValues())
	})

	t.Run("no email", func(t *testing.T) {
		got, err := NewUserFromKeycloakProfile(KeycloakProfile{
			KeycloakID: "kc-123",
			Username:   "bobby",
		})
		require.NoError(t, err)
		assert.Empty(t, got.Emails)
	})

	t.Run("missing keycloak id", func(t *testing.T) {
		_, err := NewUserFromKeycloakProfile(KeycloakProfile{Username: "bobby"})
		var norm *NormalizationError
		require.ErrorAs(t, err, &norm)
		assert.Equal(t, "keycloak", norm.Provider)
	})
}

func TestNewUserFromOIDCUserinfo(t *testing.T) {
	t.Run("full userinfo", func(t *testing.T) {
		got, err := NewUserFromOIDCUserinfo("unikname-cas", OIDCUserinfo{
			ID:  "cas-123",
			Sub: "bobby@cas",
		})
		require.NoError(t, err)
		assert.Equal(t, "cas-123", got.ID)
		assert.Equal(t, "bobby@cas", got.Username)
		assert.Empty(t, got.DisplayName)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NewUserFromOIDCUserinfo("unikname-cas", OIDCUserinfo{Sub: "bobby@cas"})
		var norm *NormalizationError
		require.ErrorAs(t, err, &norm)
		assert.Equal(t, "unikname-cas", norm.Provider)
	})
}
