package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("federated user", func(t *testing.T) {
		u := NewUser("123",
			WithUsername("bobby"),
			WithDisplayName("Bobby Tables"),
			WithEmails([]Email{{Value: "bobby@example.com"}}),
		)
		assert.Equal(t, "123", u.ID)
		assert.Equal(t, "bobby", u.Username)
		assert.Equal(t, "Bobby Tables", u.DisplayName)
		assert.Equal(t, []string{"bobby@example.com"}, u.EmailValues())
		assert.Nil(t, u.Password)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("local user id is its username", func(t *testing.T) {
		u := NewLocalUser("bobby", "hunter2")
		assert.Equal(t, "bobby", u.ID)
		assert.Equal(t, "bobby", u.Username)
		require.NotNil(t, u.Password)
		assert.Equal(t, "hunter2", *u.Password)
	})
}

func TestUserContext(t *testing.T) {
	u := NewUser("123")
	ctx := NewContext(context.Background(), u)

	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, u, got)

	_, err = FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoAuthenticatedUser)
}
