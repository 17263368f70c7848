package tokens

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) jwk.Key {
	key, err := jwk.FromRaw([]byte("abcdef123456789088888888888888888"))
	require.NoError(t, err)
	return key
}

func TestSessionToken(t *testing.T) {
	key := newTestKey(t)

	t.Run("round trip", func(t *testing.T) {
		token, err := NewSessionToken(key, "user-123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		userID, err := parseSessionToken(key, string(token))
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := NewSessionToken(key, "user-123", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = parseSessionToken(key, string(token))
		assert.Error(t, err)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		otherKey, err := jwk.FromRaw([]byte("00000000000000000000000000000000"))
		require.NoError(t, err)
		token, err := NewSessionToken(otherKey, "user-123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = parseSessionToken(key, string(token))
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := parseSessionToken(key, "not-a-token")
		assert.Error(t, err)
	})
}
