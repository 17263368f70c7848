// Package html contains code relating specifically to the web UI.
package html

import (
	"net/http"
	"time"

	"github.com/idgate/idgate/internal/http/html/paths"
)

const (
	pathCookie = "path"
)

// SetCookie sets a cookie on the http response. A nil expiry sets no expiry,
// and an empty expiry sets the cookie to expire immediately.
func SetCookie(w http.ResponseWriter, name, value string, expiry *time.Time) {
	cookie := http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if expiry != nil {
		if (*expiry).IsZero() {
			// Purge cookie from browser.
			cookie.MaxAge = -1
		} else {
			// Round up to nearest second.
			cookie.Expires = time.Unix(expiry.Unix()+1, 0)
		}
	}

	http.SetCookie(w, &cookie)
}

// SendUserToLoginPage sends user to the login prompt page, saving the original
// page they tried to access so it can return them there after login.
func SendUserToLoginPage(w http.ResponseWriter, r *http.Request) {
	SetCookie(w, pathCookie, r.URL.String(), nil)
	http.Redirect(w, r, paths.Login(), http.StatusFound)
}

// ReturnUserOriginalPage returns a user to the original page they tried to
// access before they were redirected to the login page.
func ReturnUserOriginalPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(pathCookie); err == nil {
		SetCookie(w, pathCookie, "", &time.Time{})
		http.Redirect(w, r, cookie.Value, http.StatusFound)
	} else {
		http.Redirect(w, r, paths.Home(), http.StatusFound)
	}
}
