package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	id := Identity{ID: uuid.New(), Role: RoleDoctor}

	token, err := tm.Mint(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Mint(Identity{ID: uuid.New(), Role: RoleUser})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Mint(Identity{ID: uuid.New(), Role: RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Mint(Identity{ID: uuid.New(), Role: Role("superuser")})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
