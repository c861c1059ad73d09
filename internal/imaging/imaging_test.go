package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 150, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func TestLoadKeepsSmallImages(t *testing.T) {
	data := pngBytes(t, 40, 30)
	im, err := Load(data, 0, 100)
	require.NoError(t, err)

	assert.Equal(t, "image/png", im.MIME)
	assert.Equal(t, 40, im.Width)
	assert.Equal(t, 30, im.Height)
	assert.Equal(t, data, im.Data)
	assert.True(t, strings.HasPrefix(im.DataURL(), "data:image/png;base64,"))
}

func TestLoadDownscales(t *testing.T) {
	im, err := Load(jpegBytes(t, 400, 100), 0, 200)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", im.MIME)
	assert.Equal(t, 200, im.Width)
	assert.Equal(t, 50, im.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(im.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestLoadDownscalesPNGAsPNG(t *testing.T) {
	im, err := Load(pngBytes(t, 60, 120), 0, 30)
	require.NoError(t, err)
	assert.Equal(t, "image/png", im.MIME)
	assert.Equal(t, 15, im.Width)
	assert.Equal(t, 30, im.Height)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(nil, 0, 0)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Load([]byte("definitely not an image"), 0, 0)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Load(pngBytes(t, 10, 10), 8, 0)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFitWithin(t *testing.T) {
	w, h := FitWithin(4000, 3000, 2048)
	assert.Equal(t, 2048, w)
	assert.Equal(t, 1536, h)

	w, h = FitWithin(10, 5000, 100)
	assert.Equal(t, 1, w)
	assert.Equal(t, 100, h)
}
