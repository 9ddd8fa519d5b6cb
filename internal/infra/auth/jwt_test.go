package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.Generate(3, "sales")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "sales", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate(3, "sales")
	assert.NoError(t, err)

	_, err = NewTokenManager("secret-b").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret")

	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}
