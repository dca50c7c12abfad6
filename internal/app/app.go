// Package app собирает сервис из конфигурации: хранилище, ключи, сборщики пропусков.
// Используется сервером и офлайн-утилитой mint-pass.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbncursed/vkr/wallet-service/internal/config"
	"github.com/vbncursed/vkr/wallet-service/internal/credentials"
	"github.com/vbncursed/vkr/wallet-service/internal/crypto"
	"github.com/vbncursed/vkr/wallet-service/internal/gwallet"
	"github.com/vbncursed/vkr/wallet-service/internal/imaging"
	"github.com/vbncursed/vkr/wallet-service/internal/metrics"
	"github.com/vbncursed/vkr/wallet-service/internal/pkpass"
	"github.com/vbncursed/vkr/wallet-service/internal/repo"
	"github.com/vbncursed/vkr/wallet-service/internal/service"
)

// Store — все порты коллабораторов разом; реализуют repo.Store и repo.Memory
type Store interface {
	service.SettingsStore
	service.Directory
	credentials.AttachmentStore
	Ping(ctx context.Context) error
}

var (
	_ Store = (*repo.Store)(nil)
	_ Store = (*repo.Memory)(nil)
)

// OpenStore выбирает хранилище: Postgres при DATABASE_URL, иначе seed-файл в памяти.
// С Postgres seed-файл, если задан, применяется поверх базы. closeFn всегда не nil.
func OpenStore(ctx context.Context, cfg config.Config, log *slog.Logger) (Store, func(), error) {
	noop := func() {}
	if cfg.DatabaseURL == "" {
		seed := &repo.Seed{}
		if cfg.SeedFile != "" {
			var err error
			if seed, err = repo.LoadSeed(cfg.SeedFile); err != nil {
				return nil, noop, err
			}
		} else {
			log.Warn("neither DATABASE_URL nor SEED_FILE set, starting with empty settings")
		}
		return repo.NewMemory(seed), noop, nil
	}

	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, noop, fmt.Errorf("db: %w", err)
	}
	if err := repo.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, noop, fmt.Errorf("migrate: %w", err)
	}
	store := repo.NewStore(pool)
	if cfg.SeedFile != "" {
		seed, err := repo.LoadSeed(cfg.SeedFile)
		if err == nil {
			err = store.ApplySeed(ctx, seed)
		}
		if err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("seed: %w", err)
		}
		log.Info("seed applied", "file", cfg.SeedFile)
	}
	return store, pool.Close, nil
}

// Keys — производные ключи токена проверки и nonce
type Keys struct {
	Tokens *crypto.TokenCodec
	Nonces *crypto.Nonces
}

func NewKeys(cfg config.Config) (Keys, error) {
	tokenKey, err := crypto.DeriveKey(cfg.SecretKey, crypto.PurposeVerificationToken)
	if err != nil {
		return Keys{}, fmt.Errorf("token key: %w", err)
	}
	nonceKey, err := crypto.DeriveKey(cfg.SecretKey, crypto.PurposeMemberNonce)
	if err != nil {
		return Keys{}, fmt.Errorf("nonce key: %w", err)
	}
	return Keys{
		Tokens: crypto.NewTokenCodec(tokenKey),
		Nonces: crypto.NewNonces(nonceKey, cfg.NonceTTL),
	}, nil
}

// NewService связывает хранилище, ключи и оба сборщика. m может быть nil.
func NewService(cfg config.Config, store Store, keys Keys, m *metrics.Metrics, log *slog.Logger) *service.Service {
	resolver := credentials.NewResolver(store)
	return service.New(service.Deps{
		Settings: store,
		Users:    store,
		Tokens:   keys.Tokens,
		Nonces:   keys.Nonces,
		Apple:    pkpass.NewBuilder(resolver, imaging.NewConverter(cfg.TempDir), cfg.AssetsDir, log),
		Google:   gwallet.NewBuilder(resolver, cfg.Lang, log),
		Metrics:  m,
		Logger:   log,
		SiteURL:  cfg.SiteURL,
	})
}
