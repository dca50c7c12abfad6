package pkpass

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/vbncursed/vkr/wallet-service/internal/imaging"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// Размер синтезированного фона и толщина полос
const (
	backgroundWidth  = 640
	backgroundHeight = 400
	backgroundBar    = 24
)

// fallbackIcon — прозрачный PNG 1x1 на случай, когда иконки нет нигде
var fallbackIcon = mustDecode("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAusB9Yh9W5YAAAAASUVORK5CYII=")

func mustDecode(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// collectAssets собирает изображения пакета: настройка, затем файл из каталога ассетов.
// icon.png и background.png есть всегда (запасная иконка, синтезированный фон),
// logo.png может отсутствовать.
func (b *Builder) collectAssets(ctx context.Context, cfg models.IssuerConfiguration) ([]File, error) {
	creds := cfg.Credentials
	files := make([]File, 0, 3)

	icon := b.firstImage(ctx, creds.IconImage, models.KeyIconPath, FileIcon)
	if icon == nil {
		icon = fallbackIcon
	}
	files = append(files, File{Name: FileIcon, Data: icon})

	if logo := b.firstImage(ctx, creds.LogoImage, models.KeyLogoPath, FileLogo); logo != nil {
		files = append(files, File{Name: FileLogo, Data: logo})
	}

	bg := b.firstImage(ctx, creds.BackgroundImage, models.KeyBackgroundPath, FileBackground)
	if bg == nil {
		var err error
		bg, err = b.synthesize(cfg)
		if err != nil {
			return nil, err
		}
	}
	files = append(files, File{Name: FileBackground, Data: bg})

	return files, nil
}

// firstImage — настроенное изображение, иначе файл из каталога ассетов
func (b *Builder) firstImage(ctx context.Context, ref models.Ref, field, bundled string) []byte {
	if img := b.configuredImage(ctx, ref, field); img != nil {
		return img
	}
	if b.assetsDir == "" {
		return nil
	}
	p := filepath.Join(b.assetsDir, bundled)
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil
	}
	img, err := b.images.ToPNG(raw)
	if err != nil {
		b.log.Warn("bundled asset skipped", "file", p, "err", err)
		return nil
	}
	return img
}

// configuredImage разрешает ссылку из настроек; любая ошибка означает «перейти к следующему варианту»
func (b *Builder) configuredImage(ctx context.Context, ref models.Ref, field string) []byte {
	if ref.IsZero() {
		return nil
	}
	raw, err := b.resolver.ReadFile(ctx, ref, field)
	if err != nil {
		b.log.Warn("configured asset unavailable", "field", field, "err", err)
		return nil
	}
	img, err := b.images.ToPNG(raw)
	if err != nil {
		b.log.Warn("configured asset skipped", "field", field, "err", err)
		return nil
	}
	return img
}

// synthesize рисует фон из цветов настроек; кривые цвета заменяются значениями по умолчанию
func (b *Builder) synthesize(cfg models.IssuerConfiguration) ([]byte, error) {
	img, err := imaging.SynthesizeBackground(backgroundWidth, backgroundHeight, backgroundBar, cfg.AccentColor, cfg.CanvasColor)
	if err == nil {
		return img, nil
	}
	b.log.Warn("background colors rejected, using defaults", "accent", cfg.AccentColor, "canvas", cfg.CanvasColor, "err", err)
	return imaging.SynthesizeBackground(backgroundWidth, backgroundHeight, backgroundBar, models.DefaultAccentColor, models.DefaultCanvasColor)
}
