package config

import (
	"fmt"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds a JWT configuration from the auth section.
// The secret is required; expiration defaults to 24 hours when unset.
func NewJWTConfig(auth AuthConfig) (*JWTConfig, error) {
	expirationHours := auth.JWTExpirationHours
	if expirationHours == 0 {
		expirationHours = 24
	}

	config := &JWTConfig{
		Secret:          auth.JWTSecret,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
