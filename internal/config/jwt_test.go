package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{JWTSecret: "test-secret-key"})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{JWTSecret: "s", JWTExpirationHours: 48})
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{})
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{JWTSecret: "s", JWTExpirationHours: -1})
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "at least 1 hour")
}
