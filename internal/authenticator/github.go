package authenticator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/go-github/v65/github"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/user"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

// deadline for fetching a profile from a provider
const profileTimeout = 10 * time.Second

type (
	githubConfig struct {
		hostname     *internal.HostnameService
		clientID     string
		clientSecret string
	}

	// githubAuthenticator authenticates a user via a github OAuth handshake,
	// using the resulting access token to fetch their github profile.
	githubAuthenticator struct {
		*OAuthClient
	}
)

func newGithubAuthenticator(cfg githubConfig) (*githubAuthenticator, error) {
	client, err := newOAuthClient(OAuthClientConfig{
		Hostname:     cfg.hostname,
		Name:         "github",
		Endpoint:     githuboauth.Endpoint,
		ClientID:     cfg.clientID,
		ClientSecret: cfg.clientSecret,
		Scopes:       []string{"user:email"},
	})
	if err != nil {
		return nil, err
	}
	return &githubAuthenticator{OAuthClient: client}, nil
}

func (a *githubAuthenticator) user(ctx context.Context, token *oauth2.Token) (*user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	client := github.NewClient(oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)))
	guser, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: fetching github profile: %v", internal.ErrProviderUnavailable, err)
	}

	profile := GithubProfile{
		Username:    guser.GetLogin(),
		DisplayName: guser.GetName(),
	}
	if guser.ID != nil {
		profile.ID = strconv.FormatInt(guser.GetID(), 10)
	}
	if email := guser.GetEmail(); email != "" {
		profile.Emails = []user.Email{{Value: email}}
	}
	return NewUserFromGithubProfile(profile)
}
