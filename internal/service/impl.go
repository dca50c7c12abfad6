package service

import (
	"context"
	"time"

	"github.com/vbncursed/vkr/wallet-service/internal/gwallet"
	"github.com/vbncursed/vkr/wallet-service/internal/pkpass"
)

// RealClock — продовая реализация Clock
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// PassBuilder — сборщик .pkpass (pkpass.Builder)
type PassBuilder interface {
	Build(ctx context.Context, req pkpass.Request) (*pkpass.Pass, error)
}

// SaveURLBuilder — сборщик ссылки Google Wallet (gwallet.Builder)
type SaveURLBuilder interface {
	SaveURL(ctx context.Context, req gwallet.Request) (string, error)
}

var (
	_ PassBuilder    = (*pkpass.Builder)(nil)
	_ SaveURLBuilder = (*gwallet.Builder)(nil)
)
