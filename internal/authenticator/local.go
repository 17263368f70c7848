package authenticator

import (
	"context"
	"net/http"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/decode"
	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/http/html/paths"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/tokens"
	"github.com/idgate/idgate/internal/user"
)

// localAuthenticator authenticates users against locally stored credentials.
type localAuthenticator struct {
	logr.Logger

	users    IdentityStore
	sessions *tokens.Service
	verifier CredentialVerifier
}

// authenticate checks the given credentials against the stored local user.
// The error is internal.ErrInvalidCredentials for both an unknown user and a
// wrong password, so that responses do not allow user enumeration.
func (a *localAuthenticator) authenticate(ctx context.Context, username, password string) (*user.User, error) {
	subject, err := a.users.GetUser(ctx, user.UserSpec{Username: &username})
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if subject.Password == nil || !a.verifier.Verify(password, *subject.Password) {
		return nil, internal.ErrInvalidCredentials
	}
	return subject, nil
}

// ResponseHandler handles the submitted local login form.
func (a *localAuthenticator) ResponseHandler(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `schema:"username,required"`
		Password string `schema:"password,required"`
	}
	if err := decode.Form(&creds, r); err != nil {
		html.Error(r, w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	subject, err := a.authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		html.FlashError(w, err.Error())
		http.Redirect(w, r, paths.Login(), http.StatusFound)
		return
	}

	if err := a.sessions.StartSession(w, r, subject.ID); err != nil {
		html.Error(r, w, err.Error(), http.StatusInternalServerError)
		return
	}

	loginsMetric.WithLabelValues("local").Inc()
	a.V(1).Info("logged in", "authenticator", "local", "username", subject.Username)
}
