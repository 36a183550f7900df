// Package imaging normalizes proof images before upload: scale down to a
// configured maximum dimension and re-encode as JPEG under a byte budget.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"distance-tracker/internal/domain"

	"golang.org/x/image/draw"
)

const (
	initialQuality = 85
	minQuality     = 30
	qualityStep    = 10
)

type Normalizer struct {
	maxDimension int
	maxBytes     int
}

func NewNormalizer(maxDimension, maxBytes int) *Normalizer {
	return &Normalizer{maxDimension: maxDimension, maxBytes: maxBytes}
}

// Normalize decodes JPEG or PNG input and returns JPEG bytes no larger than
// the configured dimension, re-encoding at decreasing quality until the
// byte budget is met. Quality bottoms out rather than failing: an
// over-budget image at minimum quality is accepted as-is.
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a decodable image: %v", domain.ErrInvalidInput, err)
	}

	img = n.scale(img)

	var buf bytes.Buffer
	for quality := initialQuality; ; quality -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		if buf.Len() <= n.maxBytes || quality-qualityStep < minQuality {
			break
		}
	}
	return buf.Bytes(), nil
}

func (n *Normalizer) scale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= n.maxDimension && h <= n.maxDimension {
		return img
	}

	scale := float64(n.maxDimension) / float64(w)
	if h > w {
		scale = float64(n.maxDimension) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
