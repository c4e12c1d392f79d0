package render

import (
	"math"

	"github.com/rawforge/devcore/curve"
	"github.com/rawforge/devcore/detail"
	"github.com/rawforge/devcore/internal/xerrors"
	"github.com/rawforge/devcore/mask"
	"github.com/rawforge/devcore/payload"
	"github.com/rawforge/devcore/pixel"
	"github.com/rawforge/devcore/transform"
)

// tileRGBSource adapts a flat, row-major [3]float64 buffer (a padded
// tile already extracted by transform.ExtractTile) to detail.RGBSource,
// so the detail blur pyramid can be built directly over it without a
// second virtual-transform sampling pass.
type tileRGBSource struct {
	buf  []float64
	w, h int
}

func (s tileRGBSource) At(x, y int) [3]float64 {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return [3]float64{}
	}
	i := (y*s.w + x) * 3
	return [3]float64{s.buf[i], s.buf[i+1], s.buf[i+2]}
}

func (s tileRGBSource) Bounds() (int, int) { return s.w, s.h }

// caActive reports whether settings carries a non-zero chromatic
// aberration correction, the same threshold the original engine uses to
// skip the per-pixel directional resample entirely when both sliders
// are at their default.
func caActive(settings payload.Adjustments) bool {
	return math.Abs(settings.ChromaticAberrationRedCyan) > 0.000001 ||
		math.Abs(settings.ChromaticAberrationBlueYellow) > 0.000001
}

// caPadding returns the halo, in pixels, that must be added around a
// tile's fetch window so every pixel's chromatic-aberration-corrected
// sample (whose radial shift grows with distance from the image center)
// stays inside the fetched buffer. The worst case is a pixel at the
// image's farthest corner, at half the diagonal from center.
func caPadding(width, height int, settings payload.Adjustments) int {
	if !caActive(settings) {
		return 0
	}
	coeff := math.Max(math.Abs(settings.ChromaticAberrationRedCyan), math.Abs(settings.ChromaticAberrationBlueYellow))
	halfDiagonal := math.Hypot(float64(width)/2, float64(height)/2)
	return int(math.Ceil(halfDiagonal*coeff)) + 1
}

// renderToRGB8 walks the transform's output image tile by tile, running
// the full per-pixel pipeline (default RAW processing, local contrast,
// color adjustments, per-mask blending, tonemap, sRGB encode, curves,
// vignette) and quantizing to an interleaved RGB8 buffer. Each tile is
// fetched with a halo sized from the active detail-blur radii, and from
// the chromatic-aberration shift when applyCA's conditions are met, so
// neither the box blurs nor the CA-corrected sample ever see a seam at a
// tile boundary.
func renderToRGB8(source transform.Source, state *transform.State, p payload.Payload, scales payload.Scales, tileSize int, s *Session, kind Kind, maskKey string) ([]byte, int, int, error) {
	width, height := state.OutputDims()
	if width == 0 || height == 0 {
		return nil, 0, 0, xerrors.New(xerrors.InvalidPayload, "invalid output dimensions")
	}

	settings := p.Adjustments.Normalize(scales)
	globalCurves := curve.FromPayload(p.Curves)
	defs := mask.ParseDefs(p.Masks, scales)

	curvesActive := !globalCurves.IsDefault()
	for _, d := range defs {
		if d.CurvesActive {
			curvesActive = true
			break
		}
	}

	needSharpness := math.Abs(settings.Sharpness) > 0.00001
	needClarity := math.Abs(settings.Clarity) > 0.00001 || math.Abs(settings.Centre) > 0.00001
	needStructure := math.Abs(settings.Structure) > 0.00001
	needCentreMask := math.Abs(settings.Centre) > 0.00001
	for _, d := range defs {
		needSharpness = needSharpness || math.Abs(d.Adjustments.Sharpness) > 0.00001
		needClarity = needClarity || math.Abs(d.Adjustments.Clarity) > 0.00001 || math.Abs(d.Adjustments.Centre) > 0.00001
		needStructure = needStructure || math.Abs(d.Adjustments.Structure) > 0.00001
		needCentreMask = needCentreMask || math.Abs(d.Adjustments.Centre) > 0.00001
	}
	needs := detail.Needs{Sharpness: needSharpness, Clarity: needClarity, Structure: needStructure}

	padding := 0
	if maxRadius := detail.MaxActiveRadius(needs); maxRadius > 0 {
		padding = maxRadius + 10
	}

	// The tiled export path never applies chromatic aberration (mirroring
	// the original engine's render_compact_tiled), so only widen the halo
	// and sample CA-corrected for the four preview tiers.
	applyCA := kind != Export && caActive(settings)
	if applyCA {
		if need := caPadding(width, height, settings); need > padding {
			padding = need
		}
	}

	aiCache := mask.BuildAICache(defs, width, height)

	// Preview tiers rasterize every mask once over the whole image and
	// cache the result on the session keyed by the mask payload and
	// output dimensions, mirroring the original engine's per-kind
	// masks_for cache; the export path rasterizes per-tile-region like
	// render_compact_tiled, uncached, since export runs once per call.
	var wholeRuntimes []mask.Runtime
	useWholeCache := kind != Export && len(defs) > 0
	if useWholeCache {
		wholeRuntimes = s.maskRuntimesFor(maskKey, width, height, func() []mask.Runtime {
			return mask.BuildRegion(defs, width, height, 0, 0, width, height, aiCache)
		})
	}

	rgb := make([]byte, width*height*3)

	tile := clampInt(tileSize, 64, maxInt(width, height))

	for tileY := 0; tileY < height; tileY += tile {
		tileH := minInt(tile, height-tileY)
		for tileX := 0; tileX < width; tileX += tile {
			tileW := minInt(tile, width-tileX)

			padLeft := padding
			if tileX < padding {
				padLeft = tileX
			}
			padTop := padding
			if tileY < padding {
				padTop = tileY
			}
			padRight := minInt(padding, width-(tileX+tileW))
			padBottom := minInt(padding, height-(tileY+tileH))

			fetchX := tileX - padLeft
			fetchY := tileY - padTop
			fetchW := tileW + padLeft + padRight
			fetchH := tileH + padTop + padBottom

			var maskRuntimes []mask.Runtime
			if len(defs) > 0 {
				if useWholeCache {
					maskRuntimes = wholeRuntimes
				} else {
					maskRuntimes = mask.BuildRegion(defs, width, height, tileX, tileY, tileW, tileH, aiCache)
				}
			}

			paddedTile := transform.ExtractTile(source, state, fetchX, fetchY, fetchW, fetchH)

			var blurs *detail.Luma
			if needs.Sharpness || needs.Clarity || needs.Structure {
				blurs = detail.BuildRegion(tileRGBSource{paddedTile, fetchW, fetchH}, fetchW, fetchH, 0, 0, fetchW, fetchH, needs)
			}

			ca := caParams{}
			if applyCA {
				ca = caParams{
					active: true,
					rc:     settings.ChromaticAberrationRedCyan,
					by:     settings.ChromaticAberrationBlueYellow,
					fullW:  width,
					fullH:  height,
					fetchX: fetchX,
					fetchY: fetchY,
				}
			}

			renderTilePixels(rgb, paddedTile, maskRuntimes, globalCurves, curvesActive, settings, blurs,
				width, height, tileX, tileY, tileW, tileH, padLeft, padTop, fetchW, fetchH, needCentreMask, ca)
		}
	}

	return rgb, width, height, nil
}

// caParams carries the chromatic-aberration-corrected sampling inputs
// for one renderToRGB8 call. active is false for the export path and for
// any render whose CA sliders are both at their default, in which case
// renderTilePixels falls back to a direct, uncorrected tile read.
type caParams struct {
	active         bool
	rc, by         float64
	fullW, fullH   int
	fetchX, fetchY int
}

// sampleLinearColor reads a clamped-to-bounds [3]float64 triple out of a
// fetchW x fetchH padded tile buffer at local coordinates (lx, ly).
func sampleLinearColor(paddedTile []float64, fetchW, fetchH, lx, ly int) [3]float64 {
	if fetchW <= 0 || fetchH <= 0 {
		return [3]float64{}
	}
	lx = clampInt(lx, 0, fetchW-1)
	ly = clampInt(ly, 0, fetchH-1)
	idx := (ly*fetchW + lx) * 3
	if idx+2 >= len(paddedTile) {
		return [3]float64{}
	}
	return [3]float64{paddedTile[idx], paddedTile[idx+1], paddedTile[idx+2]}
}

// sampleCAColor reproduces the original engine's sample_ca_corrected_color:
// the red and blue channels are each read from a position shifted
// radially away from the image center by distance*coefficient, while
// green is read from the pixel's own position unshifted. fullX/fullY and
// fullW/fullH are in full-output-image coordinates (the same space
// sample_ca_corrected_color uses); they are translated to the padded
// tile's local coordinate space via ca.fetchX/ca.fetchY before sampling.
func sampleCAColor(paddedTile []float64, fetchW, fetchH, fullX, fullY int, ca caParams) [3]float64 {
	centerX := float64(ca.fullW) / 2
	centerY := float64(ca.fullH) / 2
	dx := float64(fullX) - centerX
	dy := float64(fullY) - centerY
	dist := math.Hypot(dx, dy)
	if dist <= 0.000001 {
		return sampleLinearColor(paddedTile, fetchW, fetchH, fullX-ca.fetchX, fullY-ca.fetchY)
	}

	dirX := dx / dist
	dirY := dy / dist
	redShiftX := dirX * dist * ca.rc
	redShiftY := dirY * dist * ca.rc
	blueShiftX := dirX * dist * ca.by
	blueShiftY := dirY * dist * ca.by

	redFullX := clampInt(roundInt(float64(fullX)-redShiftX), 0, ca.fullW-1)
	redFullY := clampInt(roundInt(float64(fullY)-redShiftY), 0, ca.fullH-1)
	blueFullX := clampInt(roundInt(float64(fullX)-blueShiftX), 0, ca.fullW-1)
	blueFullY := clampInt(roundInt(float64(fullY)-blueShiftY), 0, ca.fullH-1)

	r := sampleLinearColor(paddedTile, fetchW, fetchH, redFullX-ca.fetchX, redFullY-ca.fetchY)[0]
	g := sampleLinearColor(paddedTile, fetchW, fetchH, fullX-ca.fetchX, fullY-ca.fetchY)[1]
	b := sampleLinearColor(paddedTile, fetchW, fetchH, blueFullX-ca.fetchX, blueFullY-ca.fetchY)[2]
	return [3]float64{r, g, b}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func renderTilePixels(rgb []byte, paddedTile []float64, maskRuntimes []mask.Runtime, globalCurves curve.Set, curvesActive bool,
	settings payload.Adjustments, blurs *detail.Luma, width, height, tileX, tileY, tileW, tileH, padLeft, padTop, fetchW, fetchH int, needCentreMask bool, ca caParams) {

	useBasic := settings.ToneMapper != payload.ToneMapperAgX

	for y := 0; y < tileH; y++ {
		fullY := tileY + y
		localY := y + padTop
		for x := 0; x < tileW; x++ {
			fullX := tileX + x
			localX := x + padLeft

			var colors [3]float64
			if ca.active {
				colors = sampleCAColor(paddedTile, fetchW, fetchH, fullX, fullY, ca)
			} else {
				colors = sampleLinearColor(paddedTile, fetchW, fetchH, localX, localY)
			}

			colors = pixel.ApplyDefaultRawProcessing(colors, useBasic)

			centreMask := 0.0
			if needCentreMask {
				centreMask = pixel.ComputeCentreMask(fullX, fullY, width, height)
			}

			if blurs != nil {
				colors = pixel.ApplyLocalContrastStack(colors, localX, localY, centreMask, settings, blurs)
			}

			composite := pixel.ApplyColorAdjustments(colors, settings, centreMask)

			for i := range maskRuntimes {
				m := &maskRuntimes[i]
				influence := clampF(m.SelectionAt(fullX, fullY)*m.OpacityFactor, 0, 1)
				if influence <= 0.001 {
					continue
				}
				maskBase := composite
				if blurs != nil {
					maskBase = pixel.ApplyLocalContrastStack(maskBase, localX, localY, centreMask, m.Adjustments, blurs)
				}
				maskAdjusted := pixel.ApplyColorAdjustments(maskBase, m.Adjustments, centreMask)
				composite = lerp3(composite, maskAdjusted, influence)
			}

			composite = pixel.ToneMap(composite, settings.ToneMapper)
			srgb := [3]float64{
				pixel.LinearToSRGB(composite[0]),
				pixel.LinearToSRGB(composite[1]),
				pixel.LinearToSRGB(composite[2]),
			}

			if curvesActive {
				srgb = globalCurves.ApplyAll(srgb)
				for i := range maskRuntimes {
					m := &maskRuntimes[i]
					if !m.CurvesActive {
						continue
					}
					influence := clampF(m.SelectionAt(fullX, fullY)*m.OpacityFactor, 0, 1)
					if influence <= 0.001 {
						continue
					}
					srgb = lerp3(srgb, m.Curves.ApplyAll(srgb), influence)
				}
			}

			srgb = pixel.ApplyVignette(srgb, settings, fullX, fullY, width, height)

			out := (fullY*width + fullX) * 3
			rgb[out] = pixel.QuantizeU8(srgb[0])
			rgb[out+1] = pixel.QuantizeU8(srgb[1])
			rgb[out+2] = pixel.QuantizeU8(srgb[2])
		}
	}
}

func lerp3(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
