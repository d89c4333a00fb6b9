package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yard-tracking-backend/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "yardd-test",
		TokenTTL:  time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testAuthConfig()

	token, expiresAt, err := GenerateAccessToken(cfg, strconv.FormatInt(42, 10), "Operator")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := VerifyAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "Operator", claims.Name)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	token, _, err := GenerateAccessToken(cfg, "1", "Operator")
	require.NoError(t, err)

	other := cfg
	other.JWTSecret = "another-secret"
	_, err = VerifyAccessToken(other, token)
	assert.Error(t, err)
}

func TestGenerateRequiresSubjectAndSecret(t *testing.T) {
	cfg := testAuthConfig()

	_, _, err := GenerateAccessToken(cfg, "", "Operator")
	assert.Error(t, err)

	cfg.JWTSecret = ""
	_, _, err = GenerateAccessToken(cfg, "1", "Operator")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, VerifyPassword("hunter2hunter2", hash))
	assert.False(t, VerifyPassword("wrong", hash))

	_, err = HashPassword("")
	assert.Error(t, err)
}
