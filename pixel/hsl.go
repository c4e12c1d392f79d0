package pixel

import (
	"math"

	"github.com/rawforge/devcore/payload"
)

// RGBToHue returns the hue angle in degrees [0, 360) of a linear RGB
// triple, 0 for a neutral (zero-chroma) color.
func RGBToHue(c [3]float64) float64 {
	r, g, b := c[0], c[1], c[2]
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min
	if delta < 0.0001 {
		return 0
	}

	var hue float64
	switch max {
	case r:
		hue = 60 * math.Mod((g-b)/delta, 6)
	case g:
		hue = 60 * ((b-r)/delta + 2)
	default:
		hue = 60 * ((r-g)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}
	return hue
}

// RGBToHSV converts a linear RGB triple to (hue degrees, saturation, value).
func RGBToHSV(c [3]float64) (h, s, v float64) {
	r, g, b := c[0], c[1], c[2]
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min
	h = RGBToHue(c)
	if max <= 1e-10 {
		s = 0
	} else {
		s = delta / max
	}
	v = max
	return
}

// HSVToRGB converts (hue degrees, saturation, value) back to linear RGB.
func HSVToRGB(h, s, v float64) [3]float64 {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rp, gp, bp float64
	switch {
	case h < 60:
		rp, gp, bp = c, x, 0
	case h < 120:
		rp, gp, bp = x, c, 0
	case h < 180:
		rp, gp, bp = 0, c, x
	case h < 240:
		rp, gp, bp = 0, x, c
	case h < 300:
		rp, gp, bp = x, 0, c
	default:
		rp, gp, bp = c, 0, x
	}
	return [3]float64{rp + m, gp + m, bp + m}
}

// hslRanges is the fixed (center degrees, width degrees) table for the
// eight HSL panel bands, in payload.HSLBand order.
var hslRanges = [8][2]float64{
	{358, 35}, // Reds
	{25, 45},  // Oranges
	{60, 40},  // Yellows
	{115, 90}, // Greens
	{180, 60}, // Aquas
	{225, 60}, // Blues
	{280, 55}, // Purples
	{330, 50}, // Magentas
}

// ApplyHSLPanel applies the eight-band hue/saturation/luminance panel.
// Each band contributes with a Gaussian-like falloff weighted by hue
// distance from its center; contributions are blended by influence and
// scaled down for near-gray or low-saturation pixels so the panel never
// introduces banding on flat color.
func ApplyHSLPanel(color [3]float64, hsl [8]payload.HSLValues) [3]float64 {
	allZero := true
	for _, adj := range hsl {
		if math.Abs(adj.Hue) > 0.000001 || math.Abs(adj.Saturation) > 0.000001 || math.Abs(adj.Luminance) > 0.000001 {
			allZero = false
			break
		}
	}
	if allZero {
		return color
	}

	if math.Abs(color[0]-color[1]) < 0.001 && math.Abs(color[1]-color[2]) < 0.001 {
		return color
	}

	hue, sat, val := RGBToHSV(color)
	if sat < 0.05 {
		return color
	}

	saturationMask := smoothstep(0.05, 0.20, sat)
	luminanceWeight := smoothstep(0, 1, sat)

	var totalHueShift, totalSatMult, totalLumAdj, totalWeight float64
	for i, r := range hslRanges {
		center, width := r[0], r[1]
		dist := math.Abs(hue - center)
		dist = math.Min(dist, 360-dist)
		falloff := dist / (width * 0.5)
		influence := math.Exp(-1.5 * falloff * falloff)

		totalWeight += influence
		adj := hsl[i]
		totalHueShift += adj.Hue * influence
		totalSatMult += adj.Saturation * influence
		totalLumAdj += adj.Luminance * influence
	}

	if totalWeight <= 0.0001 {
		return color
	}

	invWeight := 1 / totalWeight
	finalHueShift := (totalHueShift * invWeight) * 2 * saturationMask
	finalSatMult := (totalSatMult * invWeight) * saturationMask
	finalLumAdj := (totalLumAdj * invWeight) * luminanceWeight

	newHue := math.Mod(hue+finalHueShift, 360)
	if newHue < 0 {
		newHue += 360
	}
	newSat := clamp01(sat * (1 + finalSatMult))

	originalLuma := Luma(color)
	targetLuma := originalLuma * (1 + finalLumAdj)

	if newSat < 0.0001 {
		v := math.Max(targetLuma, 0)
		return [3]float64{v, v, v}
	}

	shifted := HSVToRGB(newHue, newSat, val)
	newLuma := Luma(shifted)
	if newLuma < 0.0001 {
		v := math.Max(targetLuma, 0)
		return [3]float64{v, v, v}
	}

	scale := targetLuma / newLuma
	return [3]float64{shifted[0] * scale, shifted[1] * scale, shifted[2] * scale}
}
