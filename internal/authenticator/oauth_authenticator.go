package authenticator

import (
	"context"
	"errors"
	"net/http"

	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/http/html/paths"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/tokens"
	"github.com/idgate/idgate/internal/user"
	"golang.org/x/oauth2"
)

type (
	// profileHandler is the provider-specific part of a redirect-based
	// authenticator: it carries out the oauth handshake and turns the
	// resulting token into a normalized user.
	profileHandler interface {
		String() string
		RequestPath() string
		CallbackPath() string
		RequestHandler(w http.ResponseWriter, r *http.Request)
		callback(r *http.Request) (*oauth2.Token, error)
		// user fetches the authenticated user's profile from the provider and
		// normalizes it into the canonical user shape.
		user(ctx context.Context, token *oauth2.Token) (*user.User, error)
	}

	// oauthAuthenticator logs people onto the system using an OAuth handshake
	// with an identity provider before synchronising their user account from
	// the provider's profile.
	oauthAuthenticator struct {
		logr.Logger

		sessions *tokens.Service
		users    IdentityStore

		profileHandler
	}
)

// ResponseHandler handles the provider's callback: exchanging the auth code
// for a token, normalizing the provider profile into a user, persisting the
// user, and starting a session.
func (a *oauthAuthenticator) ResponseHandler(w http.ResponseWriter, r *http.Request) {
	// Handle oauth response; if there is an error, return user to login page
	// along with flash error.
	token, err := a.callback(r)
	if err != nil {
		html.FlashError(w, err.Error())
		http.Redirect(w, r, paths.Login(), http.StatusFound)
		return
	}

	// Each callback produces its own locally-scoped user; nothing is shared
	// between concurrent authentication flows.
	authenticated, err := a.user(r.Context(), token)
	if err != nil {
		var norm *NormalizationError
		if errors.As(err, &norm) {
			// a malformed profile is an authentication failure, not a server
			// fault; log it for operators
			a.Error(err, "normalizing provider profile", "authenticator", a.String())
			html.FlashError(w, err.Error())
			http.Redirect(w, r, paths.Login(), http.StatusFound)
			return
		}
		html.Error(r, w, err.Error(), http.StatusInternalServerError)
		return
	}

	stored, err := a.users.CreateUserIfNeeded(r.Context(), authenticated)
	if err != nil {
		html.Error(r, w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := a.sessions.StartSession(w, r, stored.ID); err != nil {
		html.Error(r, w, err.Error(), http.StatusInternalServerError)
		return
	}

	loginsMetric.WithLabelValues(a.String()).Inc()
	a.V(1).Info("logged in", "authenticator", a.String(), "username", stored.Username)
}
