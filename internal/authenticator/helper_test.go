package authenticator

import (
	"context"
	"crypto/rsa"
	"net/http"
	"testing"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/logr"
	"github.com/idgate/idgate/internal/tokens"
	"github.com/idgate/idgate/internal/user"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type (
	// fakeIdentityStore is an in-memory identity store.
	fakeIdentityStore struct {
		users map[string]*user.User // keyed by user id
	}

	// fakeProfileHandler stubs out the provider-specific part of a
	// redirect-based authenticator.
	fakeProfileHandler struct {
		name        string
		token       *oauth2.Token
		callbackErr error
		profile     *user.User
		profileErr  error
	}
)

func newFakeIdentityStore(users ...*user.User) *fakeIdentityStore {
	store := fakeIdentityStore{users: make(map[string]*user.User)}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return &store
}

func (f *fakeIdentityStore) GetUser(ctx context.Context, spec user.UserSpec) (*user.User, error) {
	if spec.UserID != nil {
		if u, ok := f.users[*spec.UserID]; ok {
			return u, nil
		}
		return nil, internal.ErrResourceNotFound
	}
	if spec.Username != nil {
		for _, u := range f.users {
			if u.Username == *spec.Username {
				return u, nil
			}
		}
	}
	return nil, internal.ErrResourceNotFound
}

func (f *fakeIdentityStore) CreateUserIfNeeded(ctx context.Context, u *user.User) (*user.User, error) {
	if existing, ok := f.users[u.ID]; ok {
		return existing, nil
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeProfileHandler) String() string       { return f.name }
func (f *fakeProfileHandler) RequestPath() string  { return "/login/" + f.name }
func (f *fakeProfileHandler) CallbackPath() string { return "/login/" + f.name + "/callback" }

func (f *fakeProfileHandler) RequestHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://provider.example/authorize", http.StatusFound)
}

func (f *fakeProfileHandler) callback(r *http.Request) (*oauth2.Token, error) {
	return f.token, f.callbackErr
}

func (f *fakeProfileHandler) user(ctx context.Context, token *oauth2.Token) (*user.User, error) {
	return f.profile, f.profileErr
}

// fakeOAuthToken returns an oauth2 token carrying an ID token signed with the
// given key.
func fakeOAuthToken(t *testing.T, sub, aud, issuer string, key *rsa.PrivateKey) *oauth2.Token {
	token := &oauth2.Token{AccessToken: "stub_token", TokenType: "Bearer"}
	return token.WithExtra(map[string]any{
		"id_token": fakeIDToken(t, sub, aud, issuer, key),
	})
}

// newTestSessionsService constructs a real sessions service backed by the
// given store, for authenticators to start sessions against.
func newTestSessionsService(t *testing.T, store *fakeIdentityStore) *tokens.Service {
	svc, err := tokens.NewService(tokens.Options{
		Logger: logr.Discard(),
		Secret: []byte("abcdef123456789088888888888888888"),
		GetUser: func(ctx context.Context, userID string) (*user.User, error) {
			return store.GetUser(ctx, user.UserSpec{UserID: &userID})
		},
	})
	require.NoError(t, err)
	return svc
}
