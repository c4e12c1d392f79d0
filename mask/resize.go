package mask

import "math"

// triangleScale resamples an 8-bit grayscale buffer (srcW x srcH, no
// padding) to (dstW x dstH) with a separable triangle (tent) filter
// whose support widens by 1/scale on minification. A fixed 2-tap
// bilinear filter samples only the two nearest source texels regardless
// of how much the image shrinks, so it aliases badly when a large AI
// mask PNG is downscaled to a small render tile; widening the kernel's
// support keeps every destination sample an area average of the source
// texels it actually covers. Mirrors the original engine's
// image::imageops::resize(..., FilterType::Triangle) mask resize.
func triangleScale(src []byte, srcW, srcH, dstW, dstH int) []byte {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return make([]byte, maxInt(dstW, 0)*maxInt(dstH, 0))
	}
	if srcW == dstW && srcH == dstH {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}

	horiz := resizeAxisX(src, srcW, srcH, dstW)
	full := resizeAxisY(horiz, dstW, srcH, dstH)

	out := make([]byte, dstW*dstH)
	for i, v := range full {
		out[i] = roundByte(v)
	}
	return out
}

// triangleTaps returns, for one destination axis sample, the source
// indices (clamped to [0, srcN-1]) and normalized weights of every
// source texel within the sample's filter support.
func triangleTaps(dstIdx, srcN, dstN int) ([]int, []float64) {
	scale := float64(dstN) / float64(srcN)
	support := 1.0
	if scale < 1 {
		support = 1 / scale
	}
	center := (float64(dstIdx) + 0.5) / scale
	lo := int(math.Floor(center - support))
	hi := int(math.Ceil(center + support))

	var idxs []int
	var weights []float64
	var sum float64
	for sx := lo; sx <= hi; sx++ {
		d := (float64(sx) + 0.5) - center
		w := 1 - math.Abs(d)/support
		if w <= 0 {
			continue
		}
		idxs = append(idxs, clampInt(sx, 0, srcN-1))
		weights = append(weights, w)
		sum += w
	}
	if sum > 0 {
		for i := range weights {
			weights[i] /= sum
		}
	}
	return idxs, weights
}

// resizeAxisX resamples each row of an srcW x srcH byte buffer to dstW
// columns, returning a dstW x srcH float64 buffer.
func resizeAxisX(src []byte, srcW, srcH, dstW int) []float64 {
	out := make([]float64, dstW*srcH)
	for dx := 0; dx < dstW; dx++ {
		idxs, weights := triangleTaps(dx, srcW, dstW)
		for y := 0; y < srcH; y++ {
			var sum float64
			for i, sx := range idxs {
				sum += float64(src[y*srcW+sx]) * weights[i]
			}
			out[y*dstW+dx] = sum
		}
	}
	return out
}

// resizeAxisY resamples each column of a dstW x srcH float64 buffer to
// dstH rows, returning a dstW x dstH float64 buffer.
func resizeAxisY(src []float64, dstW, srcH, dstH int) []float64 {
	out := make([]float64, dstW*dstH)
	for dy := 0; dy < dstH; dy++ {
		idxs, weights := triangleTaps(dy, srcH, dstH)
		for x := 0; x < dstW; x++ {
			var sum float64
			for i, sy := range idxs {
				sum += src[sy*dstW+x] * weights[i]
			}
			out[dy*dstW+x] = sum
		}
	}
	return out
}
