package pixel

import (
	"math"

	"github.com/rawforge/devcore/payload"
)

// MaxHDR bounds the per-channel headroom kept through ApplyColorAdjustments
// for the tonemap stage that follows it.
const MaxHDR = 64.0

// ApplyColorAdjustments runs the full per-pixel color-science pass in
// its fixed order: exposure, dehaze, centre tonal/color, white balance
// (temperature/tint), filmic brightness, tonal adjustments, highlights,
// HSL panel, color grading, creative color (saturation/vibrance), then
// clamps to [0, MaxHDR] HDR headroom (non-finite values collapse to 0).
// This same function runs once for the global adjustments and once more
// for every active mask's own adjustments, applied to the globally
// adjusted result - callers are responsible for interpolating between
// the results.
func ApplyColorAdjustments(colors [3]float64, settings payload.Adjustments, centreMask float64) [3]float64 {
	if settings.Exposure != 0 {
		factor := math.Pow(2, settings.Exposure)
		colors[0] *= factor
		colors[1] *= factor
		colors[2] *= factor
	}

	colors = ApplyDehaze(colors, settings.Dehaze)
	colors = ApplyCentreTonalAndColor(colors, settings.Centre, centreMask)

	tempMult := [3]float64{
		1 + settings.Temperature*0.2,
		1 + settings.Temperature*0.05,
		1 - settings.Temperature*0.2,
	}
	tintMult := [3]float64{
		1 + settings.Tint*0.25,
		1 - settings.Tint*0.25,
		1 + settings.Tint*0.25,
	}
	colors[0] *= tempMult[0] * tintMult[0]
	colors[1] *= tempMult[1] * tintMult[1]
	colors[2] *= tempMult[2] * tintMult[2]

	colors = ApplyFilmicBrightness(colors, settings.Brightness)
	colors = ApplyTonalAdjustments(colors, settings.Contrast, settings.Shadows, settings.Whites, settings.Blacks)
	colors = ApplyHighlightsAdjustment(colors, settings.Highlights)
	colors = ApplyHSLPanel(colors, settings.HSL)
	colors = ApplyColorGrading(colors, settings.ColorGrading)
	colors = ApplyCreativeColor(colors, settings.Saturation, settings.Vibrance)

	for i := range colors {
		if math.IsNaN(colors[i]) || math.IsInf(colors[i], 0) {
			colors[i] = 0
			continue
		}
		colors[i] = clampF(colors[i], 0, MaxHDR)
	}

	return colors
}
