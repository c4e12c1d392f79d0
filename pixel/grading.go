package pixel

import "github.com/rawforge/devcore/payload"

// ApplyColorGrading applies the three-band (shadows/midtones/highlights)
// color wheel panel. Crossover points shift with balance, the transition
// between bands softens with blending, and each band adds an
// additive tint (from its hue wheel) plus a luminance offset, gated by
// a smoothstep mask over luma.
func ApplyColorGrading(color [3]float64, g payload.ColorGrading) [3]float64 {
	luma := Luma([3]float64{maxF(color[0], 0), maxF(color[1], 0), maxF(color[2], 0)})

	const baseShadowCrossover = 0.1
	const baseHighlightCrossover = 0.5
	const balanceRange = 0.5

	shadowCrossover := baseShadowCrossover + maxF(-g.Balance, 0)*balanceRange
	highlightCrossover := baseHighlightCrossover - maxF(g.Balance, 0)*balanceRange
	feather := 0.2 * g.Blending
	finalShadowCrossover := minF(shadowCrossover, highlightCrossover-0.01)

	shadowMask := 1 - smoothstep(finalShadowCrossover-feather, finalShadowCrossover+feather, luma)
	highlightMask := smoothstep(highlightCrossover-feather, highlightCrossover+feather, luma)
	midtoneMask := maxF(1-shadowMask-highlightMask, 0)

	graded := color

	const (
		shadowSatStrength    = 0.3
		shadowLumStrength    = 0.5
		midtoneSatStrength   = 0.6
		midtoneLumStrength   = 0.8
		highlightSatStrength = 0.8
		highlightLumStrength = 1.0
	)

	applyBand := func(band payload.ColorGradeBand, mask, satStrength, lumStrength float64) {
		if band.Saturation > 0.001 {
			tint := HSVToRGB(band.Hue, 1, 1)
			for i := 0; i < 3; i++ {
				graded[i] += (tint[i] - 0.5) * band.Saturation * mask * satStrength
			}
		}
		for i := 0; i < 3; i++ {
			graded[i] += band.Luminance * mask * lumStrength
		}
	}

	applyBand(g.Shadows, shadowMask, shadowSatStrength, shadowLumStrength)
	applyBand(g.Midtones, midtoneMask, midtoneSatStrength, midtoneLumStrength)
	applyBand(g.Highlights, highlightMask, highlightSatStrength, highlightLumStrength)

	return graded
}
