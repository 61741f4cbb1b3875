package jwtutil

import (
	"testing"
	"time"

	"rental-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "test-signing-key",
		ExpirationTime: time.Hour,
	})

	token, err := GenerateToken("manager@example.com", 42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", claims.Email)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenWrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "test-signing-key",
		ExpirationTime: time.Hour,
	})

	token, err := GenerateToken("manager@example.com", 42, "admin")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{
		SigningKey:     "other-key",
		ExpirationTime: time.Hour,
	})

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "test-signing-key",
		ExpirationTime: -time.Minute,
	})

	token, err := GenerateToken("manager@example.com", 42, "admin")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "test-signing-key",
		ExpirationTime: time.Hour,
	})

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}
