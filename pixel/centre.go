package pixel

import (
	"math"

	"github.com/rawforge/devcore/detail"
	"github.com/rawforge/devcore/payload"
)

// ComputeCentreMask returns an elliptical radial weight, 1 at the image
// center falling to 0 past its feathered edge, used to apply the centre
// slider's tonal/color/clarity boosts only toward the middle of frame.
func ComputeCentreMask(x, y, width, height int) float64 {
	if width == 0 || height == 0 {
		return 0
	}
	fullW, fullH := float64(width), float64(height)
	aspect := fullH / fullW
	uvX := (float64(x)/fullW - 0.5) * 2
	uvY := (float64(y)/fullH - 0.5) * 2
	d := math.Sqrt(uvX*uvX+(uvY*aspect)*(uvY*aspect)) * 0.5

	const midpoint = 0.4
	const feather = 0.375
	vignetteMask := smoothstep(midpoint-feather, midpoint+feather, d)
	return 1 - vignetteMask
}

// ApplyCentreTonalAndColor applies the centre slider's own exposure and
// saturation/vibrance boost, concentrated toward frame center and
// receding (with an opposite-signed saturation push) toward the edges.
func ApplyCentreTonalAndColor(colors [3]float64, centreAmount, centreMask float64) [3]float64 {
	if math.Abs(centreAmount) < 0.00001 {
		return colors
	}

	exposureBoost := centreMask * centreAmount * 0.5
	processed := ApplyFilmicBrightness(colors, exposureBoost)

	vibranceBoost := centreMask * centreAmount * 0.4
	saturationCenterBoost := centreMask * centreAmount * 0.3
	saturationEdgeEffect := -(1 - centreMask) * centreAmount * 0.8
	totalSaturation := saturationCenterBoost + saturationEdgeEffect

	return ApplyCreativeColor(processed, totalSaturation, vibranceBoost)
}

// ApplyLocalContrastFromLuma blends the pixel toward (negative amount)
// or away from (positive amount) a blurred version of itself built from
// blurredLuma, the low/high frequency split that drives sharpness,
// clarity, structure and the centre-clarity pass. Protected in the
// deep shadows and bright highlights so it doesn't crush or blow them.
func ApplyLocalContrastFromLuma(color [3]float64, blurredLuma, amount float64) [3]float64 {
	if math.Abs(amount) < 0.00001 {
		return color
	}

	centerLuma := Luma(color)
	shadowProtection := smoothstep(0, 0.1, centerLuma)
	highlightProtection := 1 - smoothstep(0.6, 1.0, centerLuma)
	midtoneMask := shadowProtection * highlightProtection
	if midtoneMask < 0.001 {
		return color
	}

	safeCenterLuma := maxF(centerLuma, 0.0001)
	ratio := blurredLuma / safeCenterLuma
	blurredColor := [3]float64{color[0] * ratio, color[1] * ratio, color[2] * ratio}

	var final [3]float64
	if amount < 0 {
		for i := range final {
			final[i] = color[i] + (blurredColor[i]-color[i])*-amount
		}
	} else {
		for i := range final {
			detail := color[i] - blurredColor[i]
			final[i] = color[i] + detail*amount*1.5
		}
	}

	return [3]float64{
		color[0] + (final[0]-color[0])*midtoneMask,
		color[1] + (final[1]-color[1])*midtoneMask,
		color[2] + (final[2]-color[2])*midtoneMask,
	}
}

// ApplyLocalContrastStack runs sharpness, clarity, and structure local
// contrast from their respective blur buffers, plus a fourth
// "centre clarity" pass reusing the clarity blur with a strength driven
// by the centre mask (positive toward the center, negative toward the
// edges) so the centre slider also carries a clarity-like punch.
func ApplyLocalContrastStack(colors [3]float64, fullX, fullY int, centreMask float64, settings payload.Adjustments, blurs *detail.Luma) [3]float64 {
	idx, ok := blurs.Index(fullX, fullY)
	if !ok {
		return colors
	}

	if math.Abs(settings.Sharpness) > 0.00001 && blurs.Sharpness != nil && idx < len(blurs.Sharpness) {
		colors = ApplyLocalContrastFromLuma(colors, blurs.Sharpness[idx], settings.Sharpness)
	}
	if math.Abs(settings.Clarity) > 0.00001 && blurs.Clarity != nil && idx < len(blurs.Clarity) {
		colors = ApplyLocalContrastFromLuma(colors, blurs.Clarity[idx], settings.Clarity)
	}
	if math.Abs(settings.Structure) > 0.00001 && blurs.Structure != nil && idx < len(blurs.Structure) {
		colors = ApplyLocalContrastFromLuma(colors, blurs.Structure[idx], settings.Structure)
	}
	if math.Abs(settings.Centre) > 0.00001 && blurs.Clarity != nil && idx < len(blurs.Clarity) {
		clarityStrength := settings.Centre * (2*centreMask - 1) * 0.9
		if math.Abs(clarityStrength) > 0.001 {
			colors = ApplyLocalContrastFromLuma(colors, blurs.Clarity[idx], clarityStrength)
		}
	}
	return colors
}
