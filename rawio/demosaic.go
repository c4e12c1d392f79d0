package rawio

import "math"

// stripHeightFast/stripHeightPrecise are the number of output rows
// developed per pass for each Quality. Processing
// in strips bounds peak memory on a 16-bit mosaic the way the original
// decoder's row-strip loop does; haloRows extra rows are read on each
// side of a strip so the bilinear demosaic never sees a seam at a strip
// boundary.
const (
	stripHeightFast    = 1024
	stripHeightPrecise = 512
	haloRows           = 8
)

func stripHeightFor(q Quality) int {
	if q == Precise {
		return stripHeightPrecise
	}
	return stripHeightFast
}

// cfaOffsets gives, for each of the four 2x2 Bayer tile layouts, the
// (dx,dy) of the red and blue sample within the tile; green occupies the
// other two positions.
func cfaOffsets(p CFAPattern) (rx, ry, bx, by int) {
	switch p {
	case CFABGGR:
		return 1, 1, 0, 0
	case CFAGRBG:
		return 1, 0, 0, 1
	case CFAGBRG:
		return 0, 1, 1, 0
	default: // CFARGGB
		return 0, 0, 1, 1
	}
}

// sampleMosaic reads the normalized (black/white-level rescaled) mosaic
// value at (x, y), clamping reads outside the image to the nearest edge
// pixel.
func sampleMosaic(norm []float64, w, h, x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	return norm[y*w+x]
}

// channelAt returns which filter the mosaic pixel at (x, y) carries under
// pattern p: 0 for red, 1 for green, 2 for blue.
func channelAt(p CFAPattern, x, y int) int {
	rx, ry, bx, by := cfaOffsets(p)
	mx, my := x%2, y%2
	switch {
	case mx == rx && my == ry:
		return 0
	case mx == bx && my == by:
		return 2
	default:
		return 1
	}
}

// demosaicBilinear reconstructs a full RGB triple at every pixel of a
// normalized Bayer mosaic by averaging same-channel neighbours, the
// standard bilinear CFA interpolation: cheap, seam-free across strip
// boundaries when given an adequate halo, and a fair stand-in for the
// "fast" tier a production decoder would offer alongside a higher-order
// "quality" path.
func demosaicBilinear(norm []float64, w, h int, p CFAPattern, yStart, yEnd int) []float64 {
	out := make([]float64, (yEnd-yStart)*w*3)
	for y := yStart; y < yEnd; y++ {
		for x := 0; x < w; x++ {
			idx := ((y - yStart) * w + x) * 3
			for ch := 0; ch < 3; ch++ {
				out[idx+ch] = interpolateChannel(norm, w, h, p, x, y, ch)
			}
		}
	}
	return out
}

func interpolateChannel(norm []float64, w, h int, p CFAPattern, x, y, ch int) float64 {
	if channelAt(p, x, y) == ch {
		return sampleMosaic(norm, w, h, x, y)
	}
	// Average every same-channel mosaic site within the surrounding 3x3
	// neighbourhood; this degrades gracefully to a 2- or 4-tap average
	// depending on the channel's tiling parity.
	var sum float64
	var n int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if channelAt(p, nx, ny) == ch {
				sum += sampleMosaic(norm, w, h, nx, ny)
				n++
			}
		}
	}
	if n == 0 {
		return sampleMosaic(norm, w, h, x, y)
	}
	return sum / float64(n)
}

// compressHighlights applies the soft-knee highlight compression the
// original decoder runs per pixel after demosaic: channels above 1.0 are
// pulled toward their shared minimum by a factor that reaches zero at
// knee, then the triple is rescaled so its max channel lands back where
// it started, preserving brightness while taming hue shift in blown
// highlights.
func compressHighlights(r, g, b, knee float64) (float64, float64, float64) {
	maxC := math.Max(r, math.Max(g, b))
	if maxC <= 1.0 {
		return r, g, b
	}
	minC := math.Min(r, math.Min(g, b))
	factor := 1.0 - (maxC-1.0)/(knee-1.0)
	factor = clamp01k(factor)
	cr := minC + (r-minC)*factor
	cg := minC + (g-minC)*factor
	cb := minC + (b-minC)*factor
	compressedMax := math.Max(cr, math.Max(cg, cb))
	if compressedMax > 1e-6 {
		rescale := maxC / compressedMax
		return cr * rescale, cg * rescale, cb * rescale
	}
	return maxC, maxC, maxC
}

func clamp01k(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
