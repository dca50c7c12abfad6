// Package imaging приводит растровые изображения к PNG и рисует фон пропуска.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// gradientStart — тёмный оттенок, с которого начинается градиент полос
const gradientStart = "#0B2D3F"

const (
	accentWidth    = 4
	accentXShare   = 0.22
	accentYEndPart = 0.48
)

// Converter пишет промежуточный PNG во временный файл в dir ("" — системный temp).
// Файл удаляется на любом пути выхода.
type Converter struct {
	dir string
}

func NewConverter(dir string) *Converter {
	return &Converter{dir: dir}
}

// IsPNG — данные начинаются с сигнатуры PNG
func IsPNG(b []byte) bool {
	return bytes.HasPrefix(b, pngSignature)
}

// ToPNG возвращает PNG как есть, иначе декодирует любой зарегистрированный формат
// и перекодирует в PNG с альфа-каналом.
func (c *Converter) ToPNG(src []byte) ([]byte, error) {
	if IsPNG(src) {
		return src, nil
	}
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, apperr.New(apperr.ConversionFailed, fmt.Errorf("decode: %w", err))
	}

	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)

	f, err := os.CreateTemp(c.dir, "wallet-img-*.png")
	if err != nil {
		return nil, apperr.New(apperr.ConversionFailed, fmt.Errorf("temp file: %w", err))
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	if err := png.Encode(f, nrgba); err != nil {
		return nil, apperr.New(apperr.ConversionFailed, fmt.Errorf("encode %s: %w", format, err))
	}
	if err := f.Close(); err != nil {
		return nil, apperr.New(apperr.ConversionFailed, err)
	}
	out, err := os.ReadFile(f.Name())
	if err != nil {
		return nil, apperr.New(apperr.ConversionFailed, err)
	}
	return out, nil
}

// SynthesizeBackground рисует детерминированный фон: заливка bgHex, градиентные полосы
// высотой bar сверху и снизу и вертикальная акцентная полоса.
func SynthesizeBackground(width, height, bar int, accentHex, bgHex string) ([]byte, error) {
	if width <= 0 || height <= 0 || bar < 0 {
		return nil, apperr.Newf(apperr.ConversionFailed, "invalid size %dx%d bar %d", width, height, bar)
	}
	accent, err := ParseHex(accentHex)
	if err != nil {
		return nil, apperr.New(apperr.ConversionFailed, err)
	}
	bg, err := ParseHex(bgHex)
	if err != nil {
		return nil, apperr.New(apperr.ConversionFailed, err)
	}
	dark, _ := ParseHex(gradientStart)

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	bar = min(bar, height)
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		c := lerp(dark, accent, t)
		for y := 0; y < bar; y++ {
			img.SetNRGBA(x, y, c)
			img.SetNRGBA(x, height-1-y, c)
		}
	}

	x0 := int(float64(width) * accentXShare)
	y0 := 4 * bar
	y1 := int(float64(height) * accentYEndPart)
	// при высоких полосах отрезок [y0, y1) пуст; image.Rect перевернул бы его
	if y0 < y1 {
		draw.Draw(img, image.Rect(x0, y0, x0+accentWidth, y1).Intersect(img.Bounds()), image.NewUniform(accent), image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, apperr.New(apperr.ConversionFailed, err)
	}
	return buf.Bytes(), nil
}

// ParseHex разбирает "#RRGGBB" или "#RGB"
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: 0xff}
}
