package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

func TestSynthesizeBackgroundIsDeterministic(t *testing.T) {
	a, err := SynthesizeBackground(640, 400, 24, "#0D9DDB", "#F6F9FA")
	require.NoError(t, err)
	b, err := SynthesizeBackground(640, 400, 24, "#0D9DDB", "#F6F9FA")
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b), "same parameters must give identical bytes")
	assert.True(t, IsPNG(a))
}

func TestSynthesizeBackgroundLayout(t *testing.T) {
	raw, err := SynthesizeBackground(640, 400, 24, "#0D9DDB", "#F6F9FA")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 640, 400), img.Bounds())

	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
	dark, _ := ParseHex(gradientStart)
	accent, _ := ParseHex("#0D9DDB")
	bg, _ := ParseHex("#F6F9FA")

	// градиент: первая колонка тёмная, последняя — акцент, сверху и снизу
	assert.Equal(t, dark, at(0, 0))
	assert.Equal(t, accent, at(639, 0))
	assert.Equal(t, dark, at(0, 399))
	assert.Equal(t, accent, at(639, 376))
	assert.Equal(t, bg, at(0, 24))
	assert.Equal(t, bg, at(320, 200))

	// акцентная полоса 4px на 22% ширины от 4*bar до 48% высоты
	assert.Equal(t, accent, at(140, 96))
	assert.Equal(t, accent, at(143, 191))
	assert.Equal(t, bg, at(144, 150))
	assert.Equal(t, bg, at(140, 192))
	assert.Equal(t, bg, at(140, 95))
}

func TestSynthesizeBackgroundTallBarsSkipAccent(t *testing.T) {
	// 4*bar = 240 лежит ниже 48% высоты (192): акцентной полосы нет
	raw, err := SynthesizeBackground(640, 400, 60, "#FF0000", "#F6F9FA")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	bg, _ := ParseHex("#F6F9FA")
	for _, y := range []int{60, 192, 200, 239, 300, 339} {
		for x := 140; x < 144; x++ {
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			assert.Equal(t, bg, got, "pixel %d,%d", x, y)
		}
	}
}

func TestSynthesizeBackgroundRejectsBadColor(t *testing.T) {
	_, err := SynthesizeBackground(10, 10, 2, "zzz", "#fff")
	require.ErrorIs(t, err, apperr.ErrConversionFailed)

	_, err = SynthesizeBackground(0, 10, 2, "#000", "#fff")
	require.ErrorIs(t, err, apperr.ErrConversionFailed)
}

func TestToPNGPassesPNGThrough(t *testing.T) {
	src, err := SynthesizeBackground(8, 8, 1, "#000", "#fff")
	require.NoError(t, err)

	out, err := NewConverter(t.TempDir()).ToPNG(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestToPNGConvertsJPEGAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, img, nil))

	out, err := NewConverter(dir).ToPNG(src.Bytes())
	require.NoError(t, err)
	require.True(t, IsPNG(out))

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), decoded.Bounds())

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left, "temporary files must be removed")
}

func TestToPNGGarbage(t *testing.T) {
	dir := t.TempDir()
	_, err := NewConverter(dir).ToPNG([]byte("definitely not an image"))
	require.ErrorIs(t, err, apperr.ErrConversionFailed)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0D9DDB")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x0d, G: 0x9d, B: 0xdb, A: 0xff}, c)

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
}
