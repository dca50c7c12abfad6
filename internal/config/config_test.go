package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"BIND", "DATABASE_URL", "SEED_FILE", "SITE_URL", "SECRET_KEY", "NONCE_TTL", "LANGUAGE", "ENABLE_SWAGGER"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Bind)
	assert.Equal(t, 24*time.Hour, cfg.NonceTTL)
	assert.Equal(t, language.AmericanEnglish, cfg.Lang)
	assert.True(t, cfg.DevSecret)
	assert.Equal(t, DevSecretKey, cfg.SecretKey)
	assert.False(t, cfg.EnableSwagger)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SITE_URL", "https://club.example/")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("NONCE_TTL", "2h")
	t.Setenv("LANGUAGE", "de_DE:de")
	t.Setenv("ENABLE_SWAGGER", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://club.example", cfg.SiteURL)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.False(t, cfg.DevSecret)
	assert.Equal(t, 2*time.Hour, cfg.NonceTTL)
	assert.Equal(t, "de-DE", cfg.Lang.String())
	assert.True(t, cfg.EnableSwagger)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("NONCE_TTL", "-1h")
	_, err := Load()
	assert.Error(t, err)

	for _, ttl := range []string{"0s", "1ns", "1s"} {
		t.Setenv("NONCE_TTL", ttl)
		_, err = Load()
		assert.Error(t, err, ttl)
	}

	t.Setenv("NONCE_TTL", "1h")
	t.Setenv("LANGUAGE", "!!")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("LANGUAGE", "en")
	t.Setenv("NONCE_TTL", "soon")
	_, err = Load()
	assert.Error(t, err)
}
