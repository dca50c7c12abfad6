package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/config"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

func testConfig() config.Config {
	return config.Config{
		SiteURL:   "https://club.example",
		SecretKey: "site-secret",
		NonceTTL:  time.Hour,
		Lang:      language.AmericanEnglish,
	}
}

func TestOpenStoreFromSeedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
settings:
  org_name: Acme
members:
  - id: 5
    display_name: Jane Doe
    login: jdoe
`), 0o600))
	cfg := testConfig()
	cfg.SeedFile = p
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, closeFn, err := OpenStore(context.Background(), cfg, log)
	require.NoError(t, err)
	defer closeFn()

	kv, err := store.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", kv[models.KeyOrgName])
	m, err := store.User(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", m.LoginHandle)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStoreBadSeed(t *testing.T) {
	cfg := testConfig()
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, closeFn, err := OpenStore(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestKeysAreIndependent(t *testing.T) {
	keys, err := NewKeys(testConfig())
	require.NoError(t, err)

	nonce := keys.Nonces.Create(3)
	assert.True(t, keys.Nonces.Verify(nonce, 3))

	// nonce не проходит как токен проверки
	_, err = keys.Tokens.Verify(nonce)
	assert.ErrorIs(t, err, apperr.ErrTokenInvalid)

	other := testConfig()
	other.SecretKey = "another-secret"
	otherKeys, err := NewKeys(other)
	require.NoError(t, err)
	tok, err := keys.Tokens.Mint(3, "M-3")
	require.NoError(t, err)
	_, err = otherKeys.Tokens.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestNewKeysRejectsEmptySecret(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey = ""
	_, err := NewKeys(cfg)
	assert.Error(t, err)
}
