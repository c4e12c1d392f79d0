package mask

import (
	"bytes"
	"encoding/base64"
	"image"
	stddraw "image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/rawforge/devcore/payload"
)

// decodeDataURL extracts and base64-decodes the payload following
// "base64," in a data: URL, as supplied by the client for AI selection
// masks.
func decodeDataURL(dataURL string) ([]byte, bool) {
	idx := strings.Index(dataURL, "base64,")
	if idx < 0 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[idx+len("base64,"):])
	if err != nil {
		return nil, false
	}
	return data, true
}

// generateAIMask decodes a client-supplied image into an 8-bit
// grayscale selection mask sized exactly (width, height), resizing with
// a scale-adaptive triangle filter if the source doesn't already match,
// then softening its edge with a box blur whose radius is driven by the
// softness slider (0..1 maps to a 0-10px radius). Returns nil if no mask
// data is present or it fails to decode.
func generateAIMask(p *payload.AIParams, width, height int) []byte {
	if p == nil || p.MaskDataBase64 == nil || width <= 0 || height <= 0 {
		return nil
	}
	data, ok := decodeDataURL(*p.MaskDataBase64)
	if !ok {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	gray := toGray(src)
	b := gray.Bounds()
	raw := triangleScale(gray.Pix, b.Dx(), b.Dy(), width, height)

	softness := clamp01(p.Softness)
	if radius := int(math.Round(softness * 10)); radius >= 1 {
		raw = boxBlurU8(raw, width, height, radius)
	}
	return raw
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(gray, gray.Bounds(), src, b.Min, stddraw.Src)
	return gray
}

// aiMaskForRegion resolves an AI sub-mask's bitmap for a region, either
// by cropping a precomputed full-image mask out of aiCache or, failing
// that, generating and cropping one on the spot.
func aiMaskForRegion(sm payload.SubMask, fullW, fullH, originX, originY, w, h int, aiCache map[string][]byte) []byte {
	if sm.AI == nil {
		return nil
	}
	if aiCache != nil {
		if full, ok := aiCache[sm.ID]; ok {
			return cropMaskRegion(full, fullW, fullH, originX, originY, w, h)
		}
	}
	full := generateAIMask(sm.AI, fullW, fullH)
	if full == nil {
		return nil
	}
	if originX == 0 && originY == 0 && w == fullW && h == fullH {
		return full
	}
	return cropMaskRegion(full, fullW, fullH, originX, originY, w, h)
}

func cropMaskRegion(full []byte, fullW, fullH, originX, originY, w, h int) []byte {
	tile := make([]byte, w*h)
	if fullW == 0 || fullH == 0 || w == 0 || h == 0 {
		return tile
	}
	for y := 0; y < h; y++ {
		srcY := originY + y
		if srcY >= fullH || originX >= fullW {
			continue
		}
		srcStart := srcY*fullW + originX
		dstStart := y * w
		copyLen := minInt(w, fullW-originX)
		srcEnd := srcStart + copyLen
		if srcEnd <= len(full) && dstStart+copyLen <= len(tile) {
			copy(tile[dstStart:dstStart+copyLen], full[srcStart:srcEnd])
		}
	}
	return tile
}

// boxBlurU8 is the 8-bit sliding-window box blur used to soften AI mask
// edges, the same edge-replicating algorithm as detail.BoxBlur but over
// byte intensities with round-to-nearest instead of float accumulation.
func boxBlurU8(src []byte, w, h, r int) []byte {
	if r == 0 || w == 0 || h == 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}
	tmp := make([]byte, w*h)
	dst := make([]byte, w*h)
	denom := float64(2*r + 1)

	for y := 0; y < h; y++ {
		row := y * w
		sum := int(src[row]) * (r + 1)
		maxIx := minInt(r, w-1)
		for ix := 1; ix <= maxIx; ix++ {
			sum += int(src[row+ix])
		}
		if repeats := r - maxIx; repeats > 0 {
			sum += int(src[row+w-1]) * repeats
		}
		tmp[row] = roundByte(float64(sum) / denom)

		for x := 1; x < w; x++ {
			addX := minInt(x+r, w-1)
			subX := minInt(maxInt(x-r-1, 0), w-1)
			sum += int(src[row+addX])
			sum -= int(src[row+subX])
			tmp[row+x] = roundByte(float64(sum) / denom)
		}
	}

	for x := 0; x < w; x++ {
		sum := int(tmp[x]) * (r + 1)
		maxIy := minInt(r, h-1)
		for iy := 1; iy <= maxIy; iy++ {
			sum += int(tmp[iy*w+x])
		}
		if repeats := r - maxIy; repeats > 0 {
			sum += int(tmp[(h-1)*w+x]) * repeats
		}
		dst[x] = roundByte(float64(sum) / denom)

		for y := 1; y < h; y++ {
			addY := minInt(y+r, h-1)
			subY := minInt(maxInt(y-r-1, 0), h-1)
			sum += int(tmp[addY*w+x])
			sum -= int(tmp[subY*w+x])
			dst[y*w+x] = roundByte(float64(sum) / denom)
		}
	}
	return dst
}

func roundByte(v float64) byte {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(math.Round(v))
}
