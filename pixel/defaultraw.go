package pixel

import "math"

// ApplyDefaultRawProcessing applies the engine's baked-in default
// brightness/contrast response for raw sensor data when the Basic
// tonemapper is selected; the AgX tonemapper already has enough contrast
// of its own and skips this step entirely.
func ApplyDefaultRawProcessing(colors [3]float64, useBasicToneMapper bool) [3]float64 {
	if !useBasicToneMapper {
		return colors
	}

	const brightnessGamma = 1.1
	const contrastMix = 0.75

	srgb := [3]float64{
		LinearToSRGB(maxF(colors[0], 0)),
		LinearToSRGB(maxF(colors[1], 0)),
		LinearToSRGB(maxF(colors[2], 0)),
	}

	var brightened [3]float64
	for i := range brightened {
		brightened[i] = signF(srgb[i]) * math.Pow(math.Abs(srgb[i]), 1/brightnessGamma)
	}

	applyContrast := func(v float64) float64 {
		if v <= 1 {
			return v * v * (3 - 2*v)
		}
		return v
	}

	var contrasted [3]float64
	for i := range contrasted {
		curve := applyContrast(brightened[i])
		contrasted[i] = brightened[i] + (curve-brightened[i])*contrastMix
	}

	return [3]float64{
		SRGBToLinear(contrasted[0]),
		SRGBToLinear(contrasted[1]),
		SRGBToLinear(contrasted[2]),
	}
}
