package authenticator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/http/html/paths"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/tokens"
	"github.com/idgate/idgate/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLocalAuthenticator_authenticate(t *testing.T) {
	store := newFakeIdentityStore(
		user.NewLocalUser("bobby", "hunter2"),
		user.NewUser("999", user.WithUsername("federated-frank")),
	)
	authenticator := &localAuthenticator{
		Logger:   logr.Discard(),
		users:    store,
		verifier: &PlaintextVerifier{},
	}

	t.Run("valid credentials", func(t *testing.T) {
		got, err := authenticator.authenticate(context.Background(), "bobby", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "bobby", got.ID)
	})

	// the same error for every failure, so that responses do not reveal which
	// usernames exist
	t.Run("wrong password", func(t *testing.T) {
		_, err := authenticator.authenticate(context.Background(), "bobby", "hunter3")
		assert.ErrorIs(t, err, internal.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := authenticator.authenticate(context.Background(), "nobody", "hunter2")
		assert.ErrorIs(t, err, internal.ErrInvalidCredentials)
	})

	t.Run("federated user has no password", func(t *testing.T) {
		_, err := authenticator.authenticate(context.Background(), "federated-frank", "hunter2")
		assert.ErrorIs(t, err, internal.ErrInvalidCredentials)
	})
}

func TestLocalAuthenticator_ResponseHandler(t *testing.T) {
	store := newFakeIdentityStore(user.NewLocalUser("bobby", "hunter2"))
	authenticator := &localAuthenticator{
		Logger:   logr.Discard(),
		users:    store,
		sessions: newTestSessionsService(t, store),
		verifier: &PlaintextVerifier{},
	}

	t.Run("successful login starts session", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/login", strings.NewReader("username=bobby&password=hunter2"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		authenticator.ResponseHandler(w, r)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, paths.Home(), w.Header().Get("Location"))
		var foundSession bool
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == tokens.SessionCookie {
				foundSession = cookie.Value != ""
			}
		}
		assert.True(t, foundSession, "expected session cookie to be set")
	})

	t.Run("invalid credentials return user to login page", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/login", strings.NewReader("username=bobby&password=wrong"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		authenticator.ResponseHandler(w, r)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, paths.Login(), w.Header().Get("Location"))
		assertFlashError(t, w)
	})
}

func TestVerifiers(t *testing.T) {
	plaintext := PlaintextVerifier{}
	assert.True(t, plaintext.Verify("hunter2", "hunter2"))
	assert.False(t, plaintext.Verify("hunter2", "hunter3"))

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	bcrypted := BcryptVerifier{}
	assert.True(t, bcrypted.Verify("hunter2", string(hash)))
	assert.False(t, bcrypted.Verify("hunter3", string(hash)))
}
