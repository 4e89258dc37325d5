package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/movie_review_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "false")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRY_DURATION", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("BCRYPT_COST", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JWTExpiryDuration)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.True(t, cfg.LinkExternalByEmail)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cr3t-from-env-that-is-long-enough")
	t.Setenv("JWT_EXPIRY_DURATION", "2h")
	t.Setenv("GOOGLE_CLIENT_ID", "client-123.apps.googleusercontent.com")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://movies.example.com ,")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("EXTERNAL_LOGIN_LINK_BY_EMAIL", "false")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cr3t-from-env-that-is-long-enough", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "client-123.apps.googleusercontent.com", cfg.GoogleClientID)
	assert.Equal(t, []string{"http://localhost:5173", "https://movies.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.False(t, cfg.LinkExternalByEmail)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "tomorrow")
	t.Setenv("BCRYPT_COST", "99")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := config.LoadConfig()

	assert.ErrorIs(t, err, config.ErrInsecureSecret)
}
