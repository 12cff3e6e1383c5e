package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	HashCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("u-1", " Asha ", " Asha@Example.COM ", "reef42", RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "reef42", user.PasswordHash)
	assert.True(t, user.CheckPassword("reef42"))
	assert.False(t, user.CheckPassword("reef43"))
	assert.False(t, user.IsAdmin())
	assert.Equal(t, Actor{ID: "u-1", Role: RoleUser}, user.Actor())
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("u", "", "a@b.c", "pass", RoleUser)
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = NewUser("u", "n", "nope", "pass", RoleUser)
	require.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewUser("u", "n", "a@b.c", "abc", RoleUser)
	require.ErrorIs(t, err, ErrWeakPassword)
	_, err = NewUser("u", "n", "a@b.c", " ", RoleUser)
	require.ErrorIs(t, err, ErrEmptyPassword)
	_, err = NewUser("u", "n", "a@b.c", "pass", Role("root"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetPassword_RejectsInputBcryptWouldTruncate(t *testing.T) {
	user := &User{}
	require.ErrorIs(t, user.SetPassword(strings.Repeat("p", 80)), ErrPasswordTooLong)
	assert.Empty(t, user.PasswordHash)

	require.NoError(t, user.SetPassword(strings.Repeat("p", MaxPasswordBytes)))
	assert.True(t, user.CheckPassword(strings.Repeat("p", MaxPasswordBytes)))
	assert.False(t, user.CheckPassword(strings.Repeat("p", MaxPasswordBytes-1)))
}
