package gwallet

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/language"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/credentials"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// SaveURLPrefix — хостинг-эндпоинт сохранения пропуска
const SaveURLPrefix = "https://pay.google.com/gp/v/save/"

const (
	audience       = "google"
	tokenType      = "savetowallet"
	defaultHexBack = "#000000"
)

// Builder собирает и подписывает JWT сохранения. Без состояния между вызовами.
type Builder struct {
	resolver *credentials.Resolver
	lang     language.Tag
	log      *slog.Logger
}

func NewBuilder(resolver *credentials.Resolver, lang language.Tag, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{resolver: resolver, lang: lang, log: log}
}

// Request — данные одного выпуска
type Request struct {
	Issuer     models.IssuerConfiguration
	Member     models.MemberIdentity
	MemberName string
	MemberID   string
	VerifyURL  string
	// Placeholder подставляется вместо пустых имени и номера
	Placeholder string
	SiteURL     string
	IssuedAt    time.Time
}

// ClassID — id класса из настроек или "{issuer}.member_class"
func ClassID(cfg models.IssuerConfiguration) string {
	if cfg.ClassID != "" {
		return cfg.ClassID
	}
	return cfg.IssuerID + ".member_class"
}

// ObjectID уникален для участника в пределах эмитента
func ObjectID(issuerID string, userID int64) string {
	return fmt.Sprintf("%s.user_%d", issuerID, userID)
}

// SaveURL возвращает https://pay.google.com/gp/v/save/{jwt}
func (b *Builder) SaveURL(ctx context.Context, req Request) (string, error) {
	cfg := req.Issuer
	if cfg.IssuerID == "" {
		return "", apperr.Incomplete(models.KeyIssuerID)
	}
	raw, err := b.resolver.ReadFile(ctx, cfg.Credentials.ServiceAccountJSON, models.KeySAJSONPath)
	if err != nil {
		return "", err
	}
	sa, err := ParseServiceAccount(raw)
	if err != nil {
		return "", err
	}
	key, err := sa.SigningKey()
	if err != nil {
		return "", err
	}

	if req.IssuedAt.IsZero() {
		req.IssuedAt = time.Now()
	}
	claims := jwt.MapClaims{
		"iss":     sa.ClientEmail,
		"aud":     audience,
		"typ":     tokenType,
		"iat":     req.IssuedAt.Unix(),
		"payload": b.payload(req),
	}
	if req.SiteURL != "" {
		claims["origins"] = []string{req.SiteURL}
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if sa.PrivateKeyID != "" {
		tok.Header["kid"] = sa.PrivateKeyID
	}
	signed, err := tok.SignedString(key)
	if err != nil {
		return "", apperr.New(apperr.SigningFailed, err)
	}
	b.log.Debug("google save token signed", "object_id", ObjectID(cfg.IssuerID, req.Member.ID), "kid", sa.PrivateKeyID)
	return SaveURLPrefix + signed, nil
}

func (b *Builder) payload(req Request) map[string]any {
	cfg := req.Issuer
	classID := ClassID(cfg)
	ph := req.Placeholder

	issuerName := cfg.SiteName
	if issuerName == "" {
		issuerName = cfg.OrganizationName
	}

	class := map[string]any{
		"id":                 classID,
		"issuerName":         issuerName,
		"hexBackgroundColor": HexColor(cfg.BackgroundColor),
		"cardTitle":          b.localized(cfg.Description),
	}
	if cfg.LogoURI != "" {
		class["logo"] = map[string]any{"sourceUri": map[string]string{"uri": cfg.LogoURI}}
	}

	memberID := req.MemberID
	if memberID == "" {
		memberID = ph
	}
	name := req.MemberName
	if name == "" {
		name = ph
	}
	modules := []map[string]string{{"id": "member_id", "header": "Member ID", "body": memberID}}
	if v := req.Member.Attributes.Get(models.AttrMemberNumber, ""); v != "" {
		modules = append(modules, map[string]string{"id": "member_number", "header": "Member No.", "body": v})
	}
	if v := req.Member.Attributes.Get(models.AttrExpiryDate, ""); v != "" {
		modules = append(modules, map[string]string{"id": "expires", "header": "Expires", "body": v})
	}

	object := map[string]any{
		"id":              ObjectID(cfg.IssuerID, req.Member.ID),
		"classId":         classID,
		"state":           "ACTIVE",
		"header":          b.localized(cfg.Description),
		"subheader":       b.localized(name),
		"textModulesData": modules,
		"barcode": map[string]string{
			"type":          "QR_CODE",
			"value":         req.VerifyURL,
			"alternateText": memberID,
		},
	}

	return map[string]any{
		"genericClasses": []any{class},
		"genericObjects": []any{object},
	}
}

func (b *Builder) localized(value string) map[string]any {
	return map[string]any{
		"defaultValue": map[string]string{"language": b.lang.String(), "value": value},
	}
}

var rgbRe = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)

// HexColor приводит "rgb(r,g,b)" или "#RRGGBB" к виду #RRGGBB; остальное даёт чёрный
func HexColor(c string) string {
	c = strings.TrimSpace(c)
	if m := rgbRe.FindStringSubmatch(c); m != nil {
		var out [3]int
		for i := range out {
			v, _ := strconv.Atoi(m[i+1])
			out[i] = min(v, 255)
		}
		return fmt.Sprintf("#%02X%02X%02X", out[0], out[1], out[2])
	}
	if len(c) == 7 && c[0] == '#' {
		if _, err := strconv.ParseUint(c[1:], 16, 32); err == nil {
			return strings.ToUpper(c)
		}
	}
	return defaultHexBack
}
