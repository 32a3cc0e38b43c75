package authgate_test

import (
	"fmt"
	"testing"

	authgate "github.com/goliatone/go-authgate"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		fe := authgate.NewFieldErrors()
		assert.True(t, fe.Empty())
		assert.False(t, fe.Conflict)
	})

	t.Run("records format errors per field", func(t *testing.T) {
		fe := authgate.NewFieldErrors().
			Set("email", authgate.MsgInvalidEmail).
			Set("username", authgate.MsgInvalidUsername)

		assert.False(t, fe.Empty())
		assert.False(t, fe.Conflict)
		assert.Equal(t, authgate.MsgInvalidEmail, fe.Fields["email"])
		assert.Equal(t, authgate.MsgInvalidUsername, fe.Fields["username"])
	})

	t.Run("conflict flag survives later format errors", func(t *testing.T) {
		fe := authgate.NewFieldErrors().
			SetConflict("email", authgate.MsgEmailTaken).
			Set("username", authgate.MsgInvalidUsername)

		assert.True(t, fe.Conflict)
	})

	t.Run("error string lists fields in stable order", func(t *testing.T) {
		fe := authgate.NewFieldErrors().
			Set("username", authgate.MsgInvalidUsername).
			Set("email", authgate.MsgInvalidEmail)

		assert.Equal(t, "email: Invalid Email; username: Invalid Username", fe.Error())
	})

	t.Run("AsFieldErrors unwraps", func(t *testing.T) {
		fe := authgate.NewFieldErrors().Set("email", authgate.MsgInvalidEmail)

		wrapped := fmt.Errorf("register: %w", fe)

		got, ok := authgate.AsFieldErrors(wrapped)
		require.True(t, ok)
		assert.Equal(t, fe, got)

		_, ok = authgate.AsFieldErrors(fmt.Errorf("plain error"))
		assert.False(t, ok)
	})
}

func TestTokenErrorHelpers(t *testing.T) {
	t.Run("expired detection", func(t *testing.T) {
		assert.True(t, authgate.IsTokenExpiredError(authgate.ErrTokenExpired))
		assert.True(t, authgate.IsTokenExpiredError(fmt.Errorf("wrap: %w", authgate.ErrTokenExpired)))
		assert.False(t, authgate.IsTokenExpiredError(authgate.ErrTokenMalformed))
		assert.False(t, authgate.IsTokenExpiredError(nil))
	})

	t.Run("malformed detection", func(t *testing.T) {
		assert.True(t, authgate.IsMalformedError(authgate.ErrTokenMalformed))
		assert.True(t, authgate.IsMalformedError(fmt.Errorf("missing or malformed JWT")))
		assert.False(t, authgate.IsMalformedError(authgate.ErrTokenExpired))
		assert.False(t, authgate.IsMalformedError(nil))
	})

	t.Run("token errors carry auth category", func(t *testing.T) {
		for _, err := range []*goerrors.Error{
			authgate.ErrTokenMalformed,
			authgate.ErrTokenExpired,
			authgate.ErrTokenRevoked,
			authgate.ErrInvalidCredentials,
		} {
			assert.Equal(t, goerrors.CategoryAuth, err.Category)
			assert.Equal(t, goerrors.CodeUnauthorized, err.Code)
		}
	})
}
