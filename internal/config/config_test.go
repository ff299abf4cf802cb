package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, 720, cfg.Auth.TokenTTLHours)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Redis.Enabled)
}

func TestValidate_RequiresJWTSecret(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	// No secret configured by default
	if cfg.Auth.JWTSecret == "" {
		assert.Error(t, cfg.Validate())
	}

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestTokenTTL_Conversion(t *testing.T) {
	cfg := AuthConfig{TokenTTLHours: 720}
	assert.Equal(t, "720h0m0s", cfg.TokenTTL().String())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "auth", SSLMode: "disable",
	}
	assert.Equal(t, "host=db user=u password=p dbname=auth port=5432 sslmode=disable", cfg.DSN())
}
