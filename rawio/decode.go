package rawio

import (
	"math"

	"github.com/rawforge/devcore/transform"
)

// defaultHighlightKnee matches the original decoder's default soft-knee
// compression factor; containers may override it per-frame via
// Container.HighlightKnee.
const defaultHighlightKnee = 2.5
const minHighlightKnee = 1.01

// SoftwareDecoder decodes the reference sensor-container format defined
// in container.go: it is the Decoder the engine ships so tests and hosts
// without a format-specific decoder of their own still get a real
// Bayer-to-RGB development, soft-knee highlight recovery, and strip/halo
// processing shape identical to the one a production RAW decoder runs.
// A RGBPlanar container (already one RGB16 triple per pixel, with no
// Bayer pattern) skips the demosaic step entirely; that is the shape a
// synthetic test fixture or an externally pre-demosaiced source uses.
type SoftwareDecoder struct{}

var _ Decoder = SoftwareDecoder{}

// Decode implements Decoder.
func (SoftwareDecoder) Decode(raw []byte, q Quality) (*Image, transform.Orientation, error) {
	c, err := ParseContainer(raw)
	if err != nil {
		return nil, transform.OrientationUnknown, decodeError("parsing RAW container", err)
	}

	knee := c.HighlightKnee
	if knee <= 0 {
		knee = defaultHighlightKnee
	}
	knee = math.Max(knee, minHighlightKnee)

	var img *Image
	if c.CFA == RGBPlanar {
		img = developPlanar(c)
	} else {
		img = developMosaic(c, q, knee)
	}
	return img, c.Orientation, nil
}

// Metadata implements Decoder.
func (SoftwareDecoder) Metadata(raw []byte) (Metadata, error) {
	c, err := ParseContainer(raw)
	if err != nil {
		return Metadata{}, decodeError("reading RAW metadata", err)
	}
	return c.Meta, nil
}

// developPlanar handles an already-demosaiced RGBPlanar container: each
// sample triple only needs black/white normalization and highlight
// compression, no Bayer interpolation.
func developPlanar(c *Container) *Image {
	img := NewImage(c.Width, c.Height)
	denom := math.Max(c.WhiteLevel-c.BlackLevel, 1)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			i := (y*c.Width + x) * 3
			r := normalizeLevel(float64(c.Samples[i]), c.BlackLevel, denom)
			g := normalizeLevel(float64(c.Samples[i+1]), c.BlackLevel, denom)
			b := normalizeLevel(float64(c.Samples[i+2]), c.BlackLevel, denom)
			r, g, b = compressHighlightsKnee(r, g, b, c)
			img.Set(x, y, toU16Triple(r, g, b))
		}
	}
	return img
}

func compressHighlightsKnee(r, g, b float64, c *Container) (float64, float64, float64) {
	knee := c.HighlightKnee
	if knee <= 0 {
		knee = defaultHighlightKnee
	}
	knee = math.Max(knee, minHighlightKnee)
	return compressHighlights(r, g, b, knee)
}

// developMosaic normalizes the raw Bayer samples to black/white level,
// then develops the image in horizontal strips with a haloRows overlap
// on each side so the bilinear demosaic never reads past the strip it
// was handed, matching the strip-based development shape the original
// decoder uses to bound peak memory on large sensors.
func developMosaic(c *Container, q Quality, knee float64) *Image {
	denom := math.Max(c.WhiteLevel-c.BlackLevel, 1)
	norm := make([]float64, len(c.Samples))
	for i, s := range c.Samples {
		norm[i] = normalizeLevel(float64(s), c.BlackLevel, denom)
	}

	img := NewImage(c.Width, c.Height)
	strip := stripHeightFor(q)
	for yStart := 0; yStart < c.Height; yStart += strip {
		yEnd := yStart + strip
		if yEnd > c.Height {
			yEnd = c.Height
		}
		padTop := yStart - haloRows
		padBottom := yEnd + haloRows
		if padTop < 0 {
			padTop = 0
		}
		if padBottom > c.Height {
			padBottom = c.Height
		}

		developed := demosaicBilinear(norm, c.Width, c.Height, c.CFA, padTop, padBottom)
		rowsAboveStrip := yStart - padTop
		for y := yStart; y < yEnd; y++ {
			srcRow := rowsAboveStrip + (y - yStart)
			for x := 0; x < c.Width; x++ {
				idx := (srcRow*c.Width + x) * 3
				r, g, b := compressHighlights(developed[idx], developed[idx+1], developed[idx+2], knee)
				img.Set(x, y, toU16Triple(r, g, b))
			}
		}
	}
	return img
}

func normalizeLevel(raw, black, denom float64) float64 {
	v := (raw - black) / denom
	if v < 0 {
		return 0
	}
	return v
}

func toU16Triple(r, g, b float64) [3]uint16 {
	return [3]uint16{toU16(r), toU16(g), toU16(b)}
}

func toU16(v float64) uint16 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	scaled := v * 65535
	if scaled > 65535 {
		return 65535
	}
	return uint16(math.Round(scaled))
}
