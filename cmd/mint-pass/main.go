// mint-pass выпускает пропуск без HTTP: читает seed-файл, пишет .pkpass
// или печатает ссылку сохранения Google Wallet.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/vbncursed/vkr/wallet-service/internal/app"
	"github.com/vbncursed/vkr/wallet-service/internal/config"
	"github.com/vbncursed/vkr/wallet-service/internal/logger"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	var (
		userID   int64
		platform string
		outDir   string
		lang     string
	)
	pflag.StringVarP(&cfg.SeedFile, "seed", "s", cfg.SeedFile, "YAML seed file (settings, attachments, members)")
	pflag.Int64VarP(&userID, "user", "u", 0, "member id")
	pflag.StringVarP(&platform, "platform", "p", string(models.PlatformApple), "apple | google")
	pflag.StringVarP(&outDir, "out", "o", ".", "directory for the .pkpass file")
	pflag.StringVar(&cfg.SiteURL, "site-url", cfg.SiteURL, "public site URL used in the verification link")
	pflag.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "directory with bundled icon.png and logo.png")
	pflag.StringVar(&lang, "lang", cfg.Language, "language tag for Google Wallet strings")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	pflag.Parse()

	log := logger.New(os.Stderr, cfg.LogLevel)
	fail := func(msg string, err error) {
		log.Error(msg, "err", err)
		os.Exit(1)
	}

	if cfg.SeedFile == "" || userID <= 0 {
		pflag.Usage()
		os.Exit(2)
	}
	if cfg.Lang, err = config.ParseLanguage(lang); err != nil {
		fail("lang", err)
	}
	if cfg.DevSecret {
		log.Warn("SECRET_KEY is not set, the verification token uses the development secret")
	}
	// mint-pass работает только с seed-файлом
	cfg.DatabaseURL = ""

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		fail("seed", err)
	}
	defer closeStore()

	keys, err := app.NewKeys(cfg)
	if err != nil {
		fail("keys", err)
	}
	svc := app.NewService(cfg, store, keys, nil, log)

	art, err := svc.Issue(ctx, models.Platform(platform), userID, keys.Nonces.Create(userID))
	if err != nil {
		fail("issue", err)
	}

	if art.RedirectURL != "" {
		fmt.Println(art.RedirectURL)
		return
	}
	out := filepath.Join(outDir, art.Filename)
	if err := os.WriteFile(out, art.Archive, 0o644); err != nil {
		fail("write", err)
	}
	log.Info("pass written", "file", out, "serial", art.SerialNumber)
}
