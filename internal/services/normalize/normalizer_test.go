package normalize

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func encodedImage(t *testing.T, width, height int, encode func(w *bytes.Buffer, img image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func pngBytes(t *testing.T, width, height int) []byte {
	return encodedImage(t, width, height, func(w *bytes.Buffer, img image.Image) error {
		return png.Encode(w, img)
	})
}

func jpegBytes(t *testing.T, width, height int) []byte {
	return encodedImage(t, width, height, func(w *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	})
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg, format
}

func TestNormalizeReencodesPNG(t *testing.T) {
	n := NewNormalizer(2048, 85, zap.NewNop())

	out := n.Normalize(pngBytes(t, 100, 80))

	cfg, format := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestNormalizeDownscalesWideImages(t *testing.T) {
	n := NewNormalizer(64, 85, zap.NewNop())

	out := n.Normalize(jpegBytes(t, 200, 100))

	cfg, format := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height, "aspect ratio must be preserved")
}

func TestNormalizeKeepsSmallJPEGUntouched(t *testing.T) {
	n := NewNormalizer(2048, 85, zap.NewNop())

	in := jpegBytes(t, 120, 90)
	out := n.Normalize(in)

	assert.Equal(t, in, out, "a compliant JPEG must pass through byte-identical")
}

func TestNormalizePassesThroughUndecodableBytes(t *testing.T) {
	n := NewNormalizer(2048, 85, zap.NewNop())

	in := []byte("definitely not an image")
	assert.Equal(t, in, n.Normalize(in))
}
