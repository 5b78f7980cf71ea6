package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	verifier := NewVerifier("secret-key")

	token, err := verifier.Issue("user-1", "admin@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestVerifier_Expired(t *testing.T) {
	verifier := NewVerifier("secret-key")

	token, err := verifier.Issue("user-1", "a@example.com", RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_WrongSecret(t *testing.T) {
	token, err := NewVerifier("secret-a").Issue("user-1", "a@example.com", RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_Malformed(t *testing.T) {
	verifier := NewVerifier("secret-key")

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestVerifier_Decode(t *testing.T) {
	verifier := NewVerifier("secret-key")

	token, err := verifier.Issue("user-1", "a@example.com", RoleUser, time.Hour)
	require.NoError(t, err)

	// Decode reads claims without verifying, even with the wrong secret
	claims := NewVerifier("other").Decode(token)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)

	assert.Nil(t, verifier.Decode("garbage"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleModerator.Valid())
	assert.False(t, Role("superuser").Valid())
}
