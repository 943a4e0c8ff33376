package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates a valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("Ana", "ana@example.com", "$2a$10$hash")
		require.NoError(t, err)

		assert.Equal(t, "Ana", user.Name)
		assert.False(t, user.IsAdmin)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("", "ana@example.com", "hash")
		assert.ErrorIs(t, err, ErrUserNameEmpty)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("Ana", "not-an-email", "hash")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("long enough"))
}
