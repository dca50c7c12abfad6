package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/crypto"
	"github.com/vbncursed/vkr/wallet-service/internal/gwallet"
	"github.com/vbncursed/vkr/wallet-service/internal/metrics"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
	"github.com/vbncursed/vkr/wallet-service/internal/pkpass"
	"github.com/vbncursed/vkr/wallet-service/internal/util"
)

var tracer = otel.Tracer("github.com/vbncursed/vkr/wallet-service/internal/service")

// Deps — зависимости Service. Hooks, Clock и Logger необязательны.
type Deps struct {
	Settings SettingsStore
	Users    Directory
	Tokens   *crypto.TokenCodec
	Nonces   *crypto.Nonces
	Apple    PassBuilder
	Google   SaveURLBuilder
	Hooks    Hooks
	Clock    Clock
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	// SiteURL — внешний адрес сервиса, из него строятся ссылки проверки и выпуска
	SiteURL string
}

// Service реализует use case'ы выпуска и проверки
type Service struct {
	settings SettingsStore
	users    Directory
	tokens   *crypto.TokenCodec
	nonces   *crypto.Nonces
	apple    PassBuilder
	google   SaveURLBuilder
	hooks    Hooks
	clock    Clock
	metrics  *metrics.Metrics
	log      *slog.Logger
	siteURL  string
}

func New(d Deps) *Service {
	s := &Service{
		settings: d.Settings,
		users:    d.Users,
		tokens:   d.Tokens,
		nonces:   d.Nonces,
		apple:    d.Apple,
		google:   d.Google,
		hooks:    d.Hooks,
		clock:    d.Clock,
		metrics:  d.Metrics,
		log:      d.Logger,
		siteURL:  strings.TrimRight(d.SiteURL, "/"),
	}
	if s.hooks == nil {
		s.hooks = DefaultHooks{}
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Artifact — результат выпуска: архив для Apple либо ссылка для Google
type Artifact struct {
	Platform     models.Platform
	SerialNumber string
	Archive      []byte
	Filename     string
	RedirectURL  string
}

// VerificationView — то, что видит проверяющий после сканирования QR
type VerificationView struct {
	UserID    int64
	Name      string
	MemberID  string
	Status    models.VerificationStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// WalletLinks — ссылки «добавить в кошелёк» с nonce участника
type WalletLinks struct {
	UserID int64
	Apple  string
	Google string
}

func (s *Service) IssueApple(ctx context.Context, userID int64, nonce string) (*Artifact, error) {
	return s.Issue(ctx, models.PlatformApple, userID, nonce)
}

func (s *Service) IssueGoogle(ctx context.Context, userID int64, nonce string) (*Artifact, error) {
	return s.Issue(ctx, models.PlatformGoogle, userID, nonce)
}

// Issue — основной сценарий выпуска: nonce, настройки, профиль, хуки, токен, сборка
func (s *Service) Issue(ctx context.Context, platform models.Platform, userID int64, nonce string) (*Artifact, error) {
	ctx, span := tracer.Start(ctx, "wallet.issue", trace.WithAttributes(
		attribute.String("wallet.platform", string(platform)),
		attribute.Int64("wallet.user_id", userID),
	))
	defer span.End()

	art, err := s.issue(ctx, platform, userID, nonce)
	if err != nil {
		kind := string(apperr.KindOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		s.metrics.IncFailure(string(platform), kind)
		s.log.WarnContext(ctx, "issue failed", "platform", platform, "user_id", userID, "kind", kind, "err", err)
		return nil, err
	}
	s.metrics.IncIssued(string(platform))
	return art, nil
}

func (s *Service) issue(ctx context.Context, platform models.Platform, userID int64, nonce string) (*Artifact, error) {
	if platform != models.PlatformApple && platform != models.PlatformGoogle {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}
	if !s.nonces.Verify(nonce, userID) {
		return nil, &apperr.Error{Kind: apperr.NonceInvalid, Field: "nonce"}
	}

	kv, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	cfg := models.ParseSettings(kv)

	member, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := s.hooks.MemberName(member.DisplayName, member)
	memberID := s.hooks.MemberID(member.LoginHandle, member)

	token, err := s.tokens.Mint(userID, memberID)
	if err != nil {
		return nil, err
	}
	barcode := s.hooks.BarcodeMessage(s.VerifyURL(token), userID, memberID)
	placeholder := s.hooks.Placeholder(cfg.PlaceholderText)
	issuedAt := s.clock.Now()

	s.log.InfoContext(ctx, "issuing pass", "platform", platform, "user_id", userID, "holder", util.HolderHintFromName(name))
	start := time.Now()
	defer func() { s.metrics.ObserveBuild(string(platform), time.Since(start)) }()

	if platform == models.PlatformApple {
		pass, err := s.apple.Build(ctx, pkpass.Request{
			Issuer:         cfg,
			Member:         member,
			MemberName:     name,
			MemberID:       memberID,
			BarcodeMessage: barcode,
			Placeholder:    placeholder,
			IssuedAt:       issuedAt,
		})
		if err != nil {
			return nil, err
		}
		return &Artifact{
			Platform:     platform,
			SerialNumber: pass.SerialNumber,
			Archive:      pass.Archive,
			Filename:     fmt.Sprintf("member-%d.pkpass", userID),
		}, nil
	}

	saveURL, err := s.google.SaveURL(ctx, gwallet.Request{
		Issuer:      cfg,
		Member:      member,
		MemberName:  name,
		MemberID:    memberID,
		VerifyURL:   barcode,
		Placeholder: placeholder,
		SiteURL:     s.siteURL,
		IssuedAt:    issuedAt,
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{Platform: platform, RedirectURL: saveURL}, nil
}

// Verify проверяет токен из QR и заново получает профиль для отображения.
// View возвращается всегда, его Status отражает исход и при ошибке.
func (s *Service) Verify(ctx context.Context, token string) (*VerificationView, error) {
	ctx, span := tracer.Start(ctx, "wallet.verify")
	defer span.End()

	view, err := s.verify(ctx, token)
	s.metrics.IncVerification(string(view.Status))
	span.SetAttributes(attribute.String("wallet.status", string(view.Status)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperr.KindOf(err)))
		s.log.InfoContext(ctx, "verification rejected", "status", view.Status, "kind", apperr.KindOf(err), "err", err)
		return view, err
	}
	return view, nil
}

func (s *Service) verify(ctx context.Context, token string) (*VerificationView, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		status := models.StatusInvalid
		if errors.Is(err, apperr.ErrTokenExpired) {
			status = models.StatusExpired
		}
		return &VerificationView{Status: status}, err
	}

	view := &VerificationView{
		UserID:   claims.UID,
		MemberID: claims.MID,
		Status:   models.StatusInvalid,
	}
	if claims.IssuedAt != nil {
		view.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		view.ExpiresAt = claims.ExpiresAt.Time
	}

	member, err := s.users.User(ctx, claims.UID)
	if err != nil {
		return view, err
	}
	view.Name = s.hooks.MemberName(member.DisplayName, member)
	view.Status = models.StatusValid
	return view, nil
}

// Links выдаёт ссылки выпуска для обеих платформ с новым nonce участника
func (s *Service) Links(ctx context.Context, userID int64) (*WalletLinks, error) {
	if _, err := s.users.User(ctx, userID); err != nil {
		return nil, err
	}
	q := url.Values{"nonce": {s.nonces.Create(userID)}}.Encode()
	id := strconv.FormatInt(userID, 10)
	return &WalletLinks{
		UserID: userID,
		Apple:  s.siteURL + "/wallet/apple/" + id + "?" + q,
		Google: s.siteURL + "/wallet/google/" + id + "?" + q,
	}, nil
}

// VerifyURL — адрес страницы проверки с токеном
func (s *Service) VerifyURL(token string) string {
	return s.siteURL + "/wallet/verify?" + url.Values{"token": {token}}.Encode()
}
