// @title         wallet-service API
// @version       1.0
// @description   Сервис выпуска членских пропусков Apple Wallet и Google Wallet.
// @BasePath      /
// @schemes       http
// @host          localhost:8081
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/vbncursed/vkr/wallet-service/docs"
	"github.com/vbncursed/vkr/wallet-service/internal/app"
	"github.com/vbncursed/vkr/wallet-service/internal/config"
	ih "github.com/vbncursed/vkr/wallet-service/internal/http"
	"github.com/vbncursed/vkr/wallet-service/internal/logger"
	"github.com/vbncursed/vkr/wallet-service/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, "info").Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.LogLevel)
	if cfg.DevSecret {
		log.Warn("SECRET_KEY is not set, using the development secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	keys, err := app.NewKeys(cfg)
	if err != nil {
		log.Error("keys", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := app.NewService(cfg, store, keys, metrics.New(reg), log)

	e := ih.Router(ih.Deps{
		Service:       svc,
		Store:         store,
		Gatherer:      reg,
		Logger:        log,
		EnableSwagger: cfg.EnableSwagger,
	})

	srv := &http.Server{
		Addr:              cfg.Bind,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("wallet-service listening", "addr", cfg.Bind, "site_url", cfg.SiteURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http", "err", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
