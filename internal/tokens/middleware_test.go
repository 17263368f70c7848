package tokens

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/html/paths"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, getUser UserResolver) *Service {
	svc, err := NewService(Options{
		Logger:            logr.Discard(),
		Secret:            []byte("abcdef123456789088888888888888888"),
		GetUser:           getUser,
		ProtectedPrefixes: []string{paths.Profile()},
	})
	require.NoError(t, err)
	return svc
}

func TestMiddleware(t *testing.T) {
	bobby := user.NewUser("user-123", user.WithUsername("bobby"))
	svc := newTestService(t, func(ctx context.Context, userID string) (*user.User, error) {
		if userID == bobby.ID {
			return bobby, nil
		}
		return nil, internal.ErrResourceNotFound
	})

	sessionCookie := func(t *testing.T, userID string) *http.Cookie {
		token, err := NewSessionToken(svc.key, userID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		return &http.Cookie{Name: SessionCookie, Value: string(token)}
	}

	t.Run("restores session user", func(t *testing.T) {
		var got *user.User
		handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = user.FromContext(r.Context())
		}))

		r := httptest.NewRequest("GET", "/profile", nil)
		r.AddCookie(sessionCookie(t, bobby.ID))
		handler.ServeHTTP(httptest.NewRecorder(), r)

		assert.Same(t, bobby, got)
	})

	t.Run("stale session is cleared", func(t *testing.T) {
		var nextCalled bool
		handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			_, err := user.FromContext(r.Context())
			assert.Error(t, err)
		}))

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(sessionCookie(t, "deleted-user"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		// a session for a user that no longer exists is treated as logged
		// out, not a fault: the cookie is purged and the user is warned
		assert.True(t, nextCalled)
		var purged, warned bool
		for _, cookie := range w.Result().Cookies() {
			switch cookie.Name {
			case SessionCookie:
				purged = cookie.MaxAge == -1
			case "flash":
				warned = cookie.Value != ""
			}
		}
		assert.True(t, purged, "expected session cookie to be purged")
		assert.True(t, warned, "expected flash warning to be set")
	})

	t.Run("protected path without session redirects to login", func(t *testing.T) {
		handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be reached")
		}))

		r := httptest.NewRequest("GET", "/profile", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, paths.Login(), w.Header().Get("Location"))
	})

	t.Run("unprotected path without session is let through", func(t *testing.T) {
		var nextCalled bool
		handler := svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		}))

		r := httptest.NewRequest("GET", "/", nil)
		handler.ServeHTTP(httptest.NewRecorder(), r)

		assert.True(t, nextCalled)
	})
}

func TestStartSession_returnsUserToOriginalPage(t *testing.T) {
	svc := newTestService(t, nil)

	r := httptest.NewRequest("GET", "/login/github/callback", nil)
	r.AddCookie(&http.Cookie{Name: "path", Value: "/profile"})
	w := httptest.NewRecorder()
	require.NoError(t, svc.StartSession(w, r, "user-123"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))
}
