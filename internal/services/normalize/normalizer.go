// Package normalize re-encodes fetched photo bytes so that archive entries
// named ".jpg" really are JPEG and no oversized original blows up the
// in-memory archive. CDN-transformed fetches arrive already normalized; this
// covers everything else (Supabase originals, third-party hosts).
package normalize

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

type Normalizer struct {
	maxWidth int
	quality  int
	logger   *zap.Logger
}

func NewNormalizer(maxWidth, quality int, logger *zap.Logger) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = 2048
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Normalizer{
		maxWidth: maxWidth,
		quality:  quality,
		logger:   logger,
	}
}

// Normalize returns the input re-encoded as JPEG at the configured quality,
// downscaled to the width bound when needed. JPEG bytes already within the
// bound pass through untouched, and so does anything that fails to decode:
// a photo we cannot convert is still worth delivering as-is.
func (n *Normalizer) Normalize(data []byte) []byte {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if format == "jpeg" && cfg.Width <= n.maxWidth {
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		n.logger.Debug("Image decode failed, keeping original bytes", zap.Error(err))
		return data
	}

	if img.Bounds().Dx() > n.maxWidth {
		img = imaging.Resize(img, n.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		n.logger.Debug("JPEG encode failed, keeping original bytes", zap.Error(err))
		return data
	}

	return buf.Bytes()
}
