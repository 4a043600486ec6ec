package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarpado/zarpado-api/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.JWTSecret = "test-secret"
	t.Cleanup(func() { config.JWTSecret = "" })

	token, err := GenerateToken("64b2f0c8a1d2e3f4a5b6c7d8")
	require.NoError(t, err)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b2f0c8a1d2e3f4a5b6c7d8", userID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	config.JWTSecret = "test-secret"
	t.Cleanup(func() { config.JWTSecret = "" })

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	config.JWTSecret = ""
	_, err := GenerateToken("u1")
	assert.Error(t, err)
}
