package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// DevSecretKey подставляется, когда SECRET_KEY не задан; годится только для локального запуска
const DevSecretKey = "wallet-service-development-secret"

// MinNonceTTL — nonce режется на тики по NONCE_TTL/2, меньшие значения бессмысленны
const MinNonceTTL = 2 * time.Second

type Config struct {
	Bind          string        `env:"BIND"           envDefault:":8081"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	SeedFile      string        `env:"SEED_FILE"`
	SiteURL       string        `env:"SITE_URL"       envDefault:"http://localhost:8081"`
	SecretKey     string        `env:"SECRET_KEY"`
	NonceTTL      time.Duration `env:"NONCE_TTL"      envDefault:"24h"`
	AssetsDir     string        `env:"ASSETS_DIR"     envDefault:"assets"`
	TempDir       string        `env:"TEMP_DIR"`
	Language      string        `env:"LANGUAGE"       envDefault:"en-US"`
	EnableSwagger bool          `env:"ENABLE_SWAGGER" envDefault:"false"`
	LogLevel      string        `env:"LOG_LEVEL"      envDefault:"info"`

	// DevSecret — SECRET_KEY не задан, используется DevSecretKey
	DevSecret bool
	// Lang — разобранный Language
	Lang language.Tag
}

// Load читает окружение и проверяет значения
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.NonceTTL < MinNonceTTL {
		return fmt.Errorf("NONCE_TTL must be at least %s", MinNonceTTL)
	}
	tag, err := ParseLanguage(c.Language)
	if err != nil {
		return fmt.Errorf("LANGUAGE: %w", err)
	}
	c.Lang = tag
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	if c.SecretKey == "" {
		c.SecretKey = DevSecretKey
		c.DevSecret = true
	}
	return nil
}

// ParseLanguage принимает BCP 47 ("de-DE") и POSIX-форму ("de_DE.UTF-8", "de_DE:de")
func ParseLanguage(s string) (language.Tag, error) {
	s, _, _ = strings.Cut(s, ":")
	s, _, _ = strings.Cut(s, ".")
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return language.AmericanEnglish, nil
	}
	return language.Parse(s)
}
