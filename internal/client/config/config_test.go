package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/movie_review_app/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv removes keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "MOVIE_REVIEW_API_URL", "MOVIE_REVIEW_HTTP_TIMEOUT", "MOVIE_REVIEW_TOKEN_FILE", "MOVIE_REVIEW_DEBUG")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "token", filepath.Base(cfg.TokenFile))
	assert.Equal(t, "movie-review", filepath.Base(filepath.Dir(cfg.TokenFile)))
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "tok")
	t.Setenv("MOVIE_REVIEW_API_URL", "https://api.movies.example.com")
	t.Setenv("MOVIE_REVIEW_TOKEN_FILE", tokenFile)
	t.Setenv("MOVIE_REVIEW_HTTP_TIMEOUT", "3s")
	t.Setenv("MOVIE_REVIEW_DEBUG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.movies.example.com", cfg.APIURL)
	assert.Equal(t, tokenFile, cfg.TokenFile)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("MOVIE_REVIEW_HTTP_TIMEOUT", "soon")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("MOVIE_REVIEW_HTTP_TIMEOUT", "-1s")
	_, err = config.Load()
	assert.Error(t, err)
}
