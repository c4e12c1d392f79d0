package pixel

import "math"

// ApplyFilmicBrightness reshapes luma through a rational curve mixed
// with a direct exposure-style scale, preserving chroma by rescaling it
// with the luma change raised to 0.8. A no-op below threshold or on a
// near-black pixel (undefined luma ratio).
func ApplyFilmicBrightness(colors [3]float64, brightnessAdj float64) [3]float64 {
	if math.Abs(brightnessAdj) < 0.00001 {
		return colors
	}

	const rationalCurveMix = 0.95
	const midtoneStrength = 1.2

	originalLuma := Luma(colors)
	if math.Abs(originalLuma) < 0.00001 {
		return colors
	}

	directAdj := brightnessAdj * (1 - rationalCurveMix)
	rationalAdj := brightnessAdj * rationalCurveMix
	scale := math.Pow(2, directAdj)
	k := math.Pow(2, -rationalAdj*midtoneStrength)

	lumaAbs := math.Abs(originalLuma)
	lumaFloor := math.Floor(lumaAbs)
	lumaFract := lumaAbs - lumaFloor
	shapedFract := lumaFract / (lumaFract + (1-lumaFract)*k)
	shapedLumaAbs := lumaFloor + shapedFract
	newLuma := signF(originalLuma) * shapedLumaAbs * scale

	chroma := [3]float64{colors[0] - originalLuma, colors[1] - originalLuma, colors[2] - originalLuma}
	totalLumaScale := newLuma / originalLuma
	chromaScale := math.Pow(totalLumaScale, 0.8)

	return [3]float64{
		newLuma + chroma[0]*chromaScale,
		newLuma + chroma[1]*chromaScale,
		newLuma + chroma[2]*chromaScale,
	}
}

// ApplyTonalAdjustments applies whites, blacks, shadows, and contrast in
// that order, each gated by its own luma mask so the four sliders stay
// roughly independent of one another.
func ApplyTonalAdjustments(colors [3]float64, contrast, shadows, whites, blacks float64) [3]float64 {
	if math.Abs(whites) > 0.00001 {
		whiteLevel := maxF(1-whites*0.25, 0.01)
		for i := range colors {
			colors[i] /= whiteLevel
		}
	}

	if math.Abs(blacks) > 0.00001 {
		luma := maxF(Luma(colors), 0)
		mask := 1 - smoothstep(0, 0.25, luma)
		if mask > 0.001 {
			factor := math.Pow(2, blacks*0.75)
			for i := range colors {
				adjusted := colors[i] * factor
				colors[i] = colors[i] + (adjusted-colors[i])*mask
			}
		}
	}

	if math.Abs(shadows) > 0.00001 {
		luma := maxF(Luma(colors), 0)
		mask := math.Pow(1-smoothstep(0, 0.4, luma), 3)
		if mask > 0.001 {
			factor := math.Pow(2, shadows*1.5)
			for i := range colors {
				adjusted := colors[i] * factor
				colors[i] = colors[i] + (adjusted-colors[i])*mask
			}
		}
	}

	if math.Abs(contrast) > 0.00001 {
		const gamma = 2.2
		safeRGB := [3]float64{maxF(colors[0], 0), maxF(colors[1], 0), maxF(colors[2], 0)}
		var perceptual [3]float64
		for i := range perceptual {
			perceptual[i] = clamp01(math.Pow(safeRGB[i], 1/gamma))
		}

		strength := math.Pow(2, contrast*1.25)
		for i := range perceptual {
			if perceptual[i] < 0.5 {
				perceptual[i] = 0.5 * math.Pow(2*perceptual[i], strength)
			} else {
				perceptual[i] = 1 - 0.5*math.Pow(2*(1-perceptual[i]), strength)
			}
		}

		var contrastAdjusted [3]float64
		for i := range contrastAdjusted {
			contrastAdjusted[i] = math.Pow(perceptual[i], gamma)
		}

		for i := range colors {
			mixFactor := smoothstep(1.0, 1.01, safeRGB[i])
			colors[i] = contrastAdjusted[i] + (colors[i]-contrastAdjusted[i])*mixFactor
		}
	}

	return colors
}

// ApplyHighlightsAdjustment recovers or boosts highlights, gated by a
// smoothstep mask over luma starting at 0.5. Negative values multiply
// toward a darkening recovery factor; positive values boost
// multiplicatively with a steeper power curve.
func ApplyHighlightsAdjustment(colors [3]float64, highlights float64) [3]float64 {
	if math.Abs(highlights) < 0.00001 {
		return colors
	}

	luma := maxF(Luma(colors), 0)
	mask := smoothstep(0.5, 1.2, luma)
	if mask < 0.001 {
		return colors
	}

	if highlights < 0 {
		recoveryStrength := 1 + highlights*0.5
		factor := 1*(1-mask) + recoveryStrength*mask
		for i := range colors {
			colors[i] *= factor
		}
		return colors
	}

	factor := math.Pow(2, highlights*1.75)
	for i := range colors {
		adjusted := colors[i] * factor
		colors[i] = colors[i] + (adjusted-colors[i])*mask
	}
	return colors
}

// ApplyDehaze removes (positive amount) or adds (negative amount)
// atmospheric haze via a dark-channel estimate, then rebalances contrast
// and saturation slightly to match the recovered scene.
func ApplyDehaze(color [3]float64, amount float64) [3]float64 {
	if math.Abs(amount) < 0.00001 {
		return color
	}

	atmosphericLight := [3]float64{0.95, 0.97, 1.0}

	if amount > 0 {
		darkChannel := math.Min(color[0], math.Min(color[1], color[2]))
		transmissionEstimate := 1 - darkChannel
		t := 1 - amount*transmissionEstimate
		tSafe := maxF(t, 0.1)

		var recovered, result [3]float64
		for i := range recovered {
			recovered[i] = (color[i]-atmosphericLight[i])/tSafe + atmosphericLight[i]
			result[i] = color[i] + (recovered[i]-color[i])*amount
		}
		for i := range result {
			result[i] = 0.5 + (result[i]-0.5)*(1+amount*0.15)
		}
		luma := Luma(result)
		satMix := 1 + amount*0.1
		return [3]float64{
			luma + (result[0]-luma)*satMix,
			luma + (result[1]-luma)*satMix,
			luma + (result[2]-luma)*satMix,
		}
	}

	mix := math.Abs(amount) * 0.7
	return [3]float64{
		color[0] + (atmosphericLight[0]-color[0])*mix,
		color[1] + (atmosphericLight[1]-color[1])*mix,
		color[2] + (atmosphericLight[2]-color[2])*mix,
	}
}

// ApplyCreativeColor applies global saturation then vibrance. Vibrance
// protects already-saturated pixels (so skies don't clip) and, when
// boosting, further protects skin tones clustered near 25 degrees hue.
func ApplyCreativeColor(colors [3]float64, saturation, vibrance float64) [3]float64 {
	luma := Luma(colors)

	if saturation != 0 {
		satMix := 1 + saturation
		for i := range colors {
			colors[i] = luma + (colors[i]-luma)*satMix
		}
	}

	if vibrance != 0 {
		cMax := math.Max(colors[0], math.Max(colors[1], colors[2]))
		cMin := math.Min(colors[0], math.Min(colors[1], colors[2]))
		delta := cMax - cMin

		if delta >= 0.02 {
			currentSat := delta / maxF(cMax, 0.001)

			var amount float64
			if vibrance > 0 {
				satMask := 1 - smoothstep(0.4, 0.9, currentSat)

				hue := RGBToHue(colors)
				const skinCenter = 25.0
				hueDist := math.Abs(hue - skinCenter)
				hueDist = math.Min(hueDist, 360-hueDist)
				isSkin := smoothstep(35, 10, hueDist)
				skinDampener := 1 - isSkin*0.4

				amount = vibrance * satMask * skinDampener * 3
			} else {
				desatMask := 1 - smoothstep(0.2, 0.8, currentSat)
				amount = vibrance * desatMask
			}

			vibMix := 1 + amount
			for i := range colors {
				colors[i] = luma + (colors[i]-luma)*vibMix
			}
		}
	}

	return colors
}
