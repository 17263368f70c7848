package authenticator

import (
	"fmt"

	"github.com/idgate/idgate/internal/user"
)

// NormalizationError is returned when a provider profile is missing a field
// required to normalize it into the canonical user shape.
type NormalizationError struct {
	Provider string
	Field    string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s profile is missing required field %q", e.Provider, e.Field)
}

type (
	// GithubProfile is the raw profile shape received from github.
	GithubProfile struct {
		ID          string
		Username    string
		DisplayName string
		Emails      []user.Email
	}

	// KeycloakProfile is the raw profile shape received from keycloak.
	KeycloakProfile struct {
		KeycloakID string
		Username   string
		FullName   string
		Email      string
	}

	// OIDCUserinfo is the raw userinfo shape received from an OIDC provider.
	OIDCUserinfo struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	}
)

// NewUserFromGithubProfile normalizes a github profile into a user.
func NewUserFromGithubProfile(profile GithubProfile) (*user.User, error) {
	if profile.ID == "" {
		return nil, &NormalizationError{Provider: "github", Field: "id"}
	}
	return user.NewUser(profile.ID,
		user.WithUsername(profile.Username),
		user.WithDisplayName(profile.DisplayName),
		user.WithEmails(profile.Emails),
	), nil
}

// NewUserFromKeycloakProfile normalizes a keycloak profile into a user.
func NewUserFromKeycloakProfile(profile KeycloakProfile) (*user.User, error) {
	if profile.KeycloakID == "" {
		return nil, &NormalizationError{Provider: "keycloak", Field: "keycloakId"}
	}
	var emails []user.Email
	if profile.Email != "" {
		emails = []user.Email{{Value: profile.Email}}
	}
	return user.NewUser(profile.KeycloakID,
		user.WithUsername(profile.Username),
		user.WithDisplayName(profile.FullName),
		user.WithEmails(emails),
	), nil
}

// NewUserFromOIDCUserinfo normalizes an OIDC userinfo response into a user.
// The normalization is identical for every OIDC variant; variants differ only
// in the configuration used to obtain the userinfo.
func NewUserFromOIDCUserinfo(provider string, userinfo OIDCUserinfo) (*user.User, error) {
	if userinfo.ID == "" {
		return nil, &NormalizationError{Provider: provider, Field: "id"}
	}
	return user.NewUser(userinfo.ID,
		user.WithUsername(userinfo.Sub),
	), nil
}
