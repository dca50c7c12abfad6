package models

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Ключи плоской записи настроек
const (
	KeyOrgName         = "org_name"
	KeyTeamID          = "team_id"
	KeyPassTypeID      = "pass_type_id"
	KeyIssuerID        = "issuer_id"
	KeyClassID         = "class_id"
	KeyPlaceholderText = "placeholder_text"
	KeyDescription     = "description"
	KeySiteName        = "site_name"
	KeyLogoURI         = "logo_uri"
	KeyBackgroundColor = "background_color"
	KeyForegroundColor = "foreground_color"
	KeyLabelColor      = "label_color"
	KeyAccentColor     = "accent_color"
	KeyCanvasColor     = "canvas_color"

	KeyP12Password = "p12_password"

	KeyP12Path          = "p12_path"
	KeyP12Attachment    = "p12_attachment_id"
	KeyWWDRPath         = "wwdr_pem"
	KeyWWDRAttachment   = "wwdr_attachment_id"
	KeySAJSONPath       = "sa_json_path"
	KeySAJSONAttachment = "sa_json_attachment_id"
	KeyIconPath         = "icon_path"
	KeyIconAttachment   = "icon_attachment_id"
	KeyLogoPath         = "logo_path"
	KeyLogoAttachment   = "logo_attachment_id"
	KeyBackgroundPath   = "background_path"
	KeyBackgroundAttach = "background_attachment_id"
)

// Значения по умолчанию для необязательных настроек
const (
	DefaultPlaceholder     = "—"
	DefaultDescription     = "Member Card"
	DefaultBackgroundColor = "rgb(0,0,0)"
	DefaultForegroundColor = "rgb(255,255,255)"
	DefaultLabelColor      = "rgb(255,255,255)"
	DefaultAccentColor     = "#0D9DDB"
	DefaultCanvasColor     = "#F6F9FA"
)

// Ref — ссылка на файл: id загруженного вложения или путь в файловой системе.
// При разрешении вложение имеет приоритет.
type Ref struct {
	AttachmentID int64
	Path         string
}

// IsZero — ни id, ни путь не заданы
func (r Ref) IsZero() bool {
	return r.AttachmentID <= 0 && r.Path == ""
}

// CredentialReferences — ссылки на ключи, сертификаты и изображения
type CredentialReferences struct {
	SigningCert         Ref
	SigningCertPassword string
	IntermediateCert    Ref
	ServiceAccountJSON  Ref
	IconImage           Ref
	LogoImage           Ref
	BackgroundImage     Ref
}

// IssuerConfiguration — настройки эмитента, неизменяемые в пределах одного выпуска
type IssuerConfiguration struct {
	OrganizationName   string
	TeamIdentifier     string
	PassTypeIdentifier string
	IssuerID           string
	ClassID            string
	PlaceholderText    string
	Description        string
	SiteName           string
	LogoURI            string

	BackgroundColor string
	ForegroundColor string
	LabelColor      string
	AccentColor     string
	CanvasColor     string

	Credentials CredentialReferences
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// SanitizeText обрезает пробелы, вырезает разметку и управляющие символы
func SanitizeText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ParseSettings собирает IssuerConfiguration из плоской записи ключ-значение.
// Пароль сертификата берётся как есть, без санитизации.
func ParseSettings(kv map[string]string) IssuerConfiguration {
	get := func(key, def string) string {
		if v := SanitizeText(kv[key]); v != "" {
			return v
		}
		return def
	}
	ref := func(idKey, pathKey string) Ref {
		id, err := strconv.ParseInt(get(idKey, "0"), 10, 64)
		if err != nil || id < 0 {
			id = 0
		}
		return Ref{AttachmentID: id, Path: get(pathKey, "")}
	}

	return IssuerConfiguration{
		OrganizationName:   get(KeyOrgName, ""),
		TeamIdentifier:     get(KeyTeamID, ""),
		PassTypeIdentifier: get(KeyPassTypeID, ""),
		IssuerID:           get(KeyIssuerID, ""),
		ClassID:            get(KeyClassID, ""),
		PlaceholderText:    get(KeyPlaceholderText, DefaultPlaceholder),
		Description:        get(KeyDescription, DefaultDescription),
		SiteName:           get(KeySiteName, ""),
		LogoURI:            get(KeyLogoURI, ""),
		BackgroundColor:    get(KeyBackgroundColor, DefaultBackgroundColor),
		ForegroundColor:    get(KeyForegroundColor, DefaultForegroundColor),
		LabelColor:         get(KeyLabelColor, DefaultLabelColor),
		AccentColor:        get(KeyAccentColor, DefaultAccentColor),
		CanvasColor:        get(KeyCanvasColor, DefaultCanvasColor),
		Credentials: CredentialReferences{
			SigningCert:         ref(KeyP12Attachment, KeyP12Path),
			SigningCertPassword: kv[KeyP12Password],
			IntermediateCert:    ref(KeyWWDRAttachment, KeyWWDRPath),
			ServiceAccountJSON:  ref(KeySAJSONAttachment, KeySAJSONPath),
			IconImage:           ref(KeyIconAttachment, KeyIconPath),
			LogoImage:           ref(KeyLogoAttachment, KeyLogoPath),
			BackgroundImage:     ref(KeyBackgroundAttach, KeyBackgroundPath),
		},
	}
}
