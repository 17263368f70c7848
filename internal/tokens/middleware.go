package tokens

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/html"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/user"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

type middlewareOptions struct {
	logr.Logger

	key               jwk.Key
	getUser           UserResolver
	protectedPrefixes []string
}

// newMiddleware constructs middleware that restores the session user from the
// session cookie and attaches them to the request context. Requests to
// protected paths without a valid session are sent to the login page. A
// session whose user no longer exists is treated as logged out and the cookie
// is cleared.
func newMiddleware(opts middlewareOptions) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				subject, err := opts.restore(r, cookie.Value)
				if err != nil {
					// invalid, expired or stale session; clear the cookie so
					// the client stops sending it
					html.SetCookie(w, SessionCookie, "", &time.Time{})
					html.FlashWarning(w, "your session has ended; please log in again")
					opts.V(2).Info("cleared session", "reason", err.Error())
				} else {
					r = r.WithContext(user.NewContext(r.Context(), subject))
				}
			}

			if opts.isProtected(r.URL.Path) {
				if _, err := user.FromContext(r.Context()); err != nil {
					html.SendUserToLoginPage(w, r)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (o *middlewareOptions) restore(r *http.Request, token string) (*user.User, error) {
	userID, err := parseSessionToken(o.key, token)
	if err != nil {
		return nil, err
	}
	subject, err := o.getUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, internal.ErrResourceNotFound) {
			return nil, errors.New("session user no longer exists")
		}
		return nil, err
	}
	return subject, nil
}

func (o *middlewareOptions) isProtected(path string) bool {
	for _, prefix := range o.protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
