package pkpass

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/credentials"
	"github.com/vbncursed/vkr/wallet-service/internal/crypto"
	"github.com/vbncursed/vkr/wallet-service/internal/imaging"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// Builder собирает .pkpass: pass.json, изображения, manifest.json, signature.
// Без состояния между вызовами, безопасен для конкурентного использования.
type Builder struct {
	resolver  *credentials.Resolver
	images    *imaging.Converter
	assetsDir string
	log       *slog.Logger
}

func NewBuilder(resolver *credentials.Resolver, images *imaging.Converter, assetsDir string, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{resolver: resolver, images: images, assetsDir: assetsDir, log: log}
}

// Request — данные одного выпуска
type Request struct {
	Issuer         models.IssuerConfiguration
	Member         models.MemberIdentity
	MemberName     string
	MemberID       string
	BarcodeMessage string
	Placeholder    string
	IssuedAt       time.Time
}

// Pass — готовый архив
type Pass struct {
	SerialNumber string
	Archive      []byte
	Manifest     Manifest
}

// Build выполняет проверку, сборку, хэширование, подпись и упаковку.
// При любой ошибке частичный архив не возвращается.
func (b *Builder) Build(ctx context.Context, req Request) (*Pass, error) {
	cfg := req.Issuer
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if req.IssuedAt.IsZero() {
		req.IssuedAt = time.Now()
	}

	p12, err := b.resolver.ReadFile(ctx, cfg.Credentials.SigningCert, models.KeyP12Path)
	if err != nil {
		return nil, err
	}

	doc := Compose(ComposeInput{
		Issuer:         cfg,
		Member:         req.Member,
		MemberName:     req.MemberName,
		MemberID:       req.MemberID,
		BarcodeMessage: req.BarcodeMessage,
		Placeholder:    req.Placeholder,
		IssuedAt:       req.IssuedAt,
	})
	passJSON, err := Serialize(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize pass.json: %w", err)
	}

	assets, err := b.collectAssets(ctx, cfg)
	if err != nil {
		return nil, err
	}
	files := append([]File{{Name: FilePass, Data: passJSON}}, assets...)

	manifest := NewManifest(files)
	manifestJSON, err := manifest.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize manifest: %w", err)
	}

	signature, err := b.sign(ctx, cfg, p12, manifestJSON)
	if err != nil {
		return nil, err
	}

	archive, err := Pack(files, manifestJSON, signature)
	if err != nil {
		return nil, err
	}
	return &Pass{SerialNumber: doc.SerialNumber, Archive: archive, Manifest: manifest}, nil
}

// sign подписывает manifest.json; WWDR добавляется в цепочку, если настроен
func (b *Builder) sign(ctx context.Context, cfg models.IssuerConfiguration, p12, manifest []byte) ([]byte, error) {
	id, err := crypto.LoadSigningIdentity(p12, cfg.Credentials.SigningCertPassword)
	if err != nil {
		return nil, err
	}
	if ref := cfg.Credentials.IntermediateCert; !ref.IsZero() {
		wwdr, err := b.resolver.ReadFile(ctx, ref, models.KeyWWDRPath)
		if err != nil {
			return nil, err
		}
		if err := id.AddIntermediate(wwdr); err != nil {
			return nil, err
		}
	}
	return id.SignDetached(manifest)
}

func validate(cfg models.IssuerConfiguration) error {
	switch {
	case cfg.TeamIdentifier == "":
		return apperr.Incomplete(models.KeyTeamID)
	case cfg.PassTypeIdentifier == "":
		return apperr.Incomplete(models.KeyPassTypeID)
	case cfg.OrganizationName == "":
		return apperr.Incomplete(models.KeyOrgName)
	case cfg.Credentials.SigningCert.IsZero():
		return apperr.Incomplete(models.KeyP12Path)
	case cfg.Credentials.SigningCertPassword == "":
		return apperr.Incomplete(models.KeyP12Password)
	}
	return nil
}
