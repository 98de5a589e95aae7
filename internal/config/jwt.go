package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultSessionTokenIssuer is the issuer claim of session tokens.
const DefaultSessionTokenIssuer = "skillbridge"

// SessionTokenConfig holds configuration for signing and validating session
// tokens.
type SessionTokenConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewSessionTokenConfig creates a session token configuration from
// environment variables. It reads SESSION_TOKEN_SECRET (required),
// SESSION_TOKEN_ISSUER (default: skillbridge) and
// SESSION_TOKEN_EXPIRATION_HOURS (default: 24).
func NewSessionTokenConfig() (*SessionTokenConfig, error) {
	secret := os.Getenv("SESSION_TOKEN_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_TOKEN_SECRET is required but not set")
	}

	issuer := os.Getenv("SESSION_TOKEN_ISSUER")
	if issuer == "" {
		issuer = DefaultSessionTokenIssuer
	}

	expirationStr := os.Getenv("SESSION_TOKEN_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24" // default
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TOKEN_EXPIRATION_HOURS: %v", err)
	}

	config := &SessionTokenConfig{
		Secret:          secret,
		Issuer:          issuer,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *SessionTokenConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("SESSION_TOKEN_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("SESSION_TOKEN_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
