package tokens

import (
	"net/http"
	"time"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/html"
)

const (
	// session cookie stores the session token
	SessionCookie        = "session"
	defaultSessionExpiry = 24 * time.Hour
)

// StartSession establishes a session for the user with the given ID, setting
// a session cookie on the response and returning the user to the page they
// originally requested.
func (a *Service) StartSession(w http.ResponseWriter, r *http.Request, userID string) error {
	expiry := internal.CurrentTimestamp().Add(defaultSessionExpiry)
	token, err := NewSessionToken(a.key, userID, expiry)
	if err != nil {
		return err
	}
	// Set cookie to expire at same time as token
	html.SetCookie(w, SessionCookie, string(token), &expiry)
	html.ReturnUserOriginalPage(w, r)

	a.V(2).Info("started session", "user_id", userID)

	return nil
}

// EndSession destroys the session by expiring the session cookie.
func (a *Service) EndSession(w http.ResponseWriter) {
	html.SetCookie(w, SessionCookie, "", &time.Time{})
}
