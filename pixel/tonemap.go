package pixel

import (
	"math"

	"github.com/rawforge/devcore/payload"
)

// TonemapACESFitted is the Narkowicz 2015 fitted approximation of the
// ACES filmic tonemapping curve, applied per channel by ToneMapBasic.
func TonemapACESFitted(x float64) float64 {
	x = maxF(x, 0)
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	y := (x * (a*x + b)) / (x*(c*x+d) + e)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0
	}
	return clamp01(y)
}

// ToneMapBasic applies the ACES fit independently to each channel.
func ToneMapBasic(colors [3]float64) [3]float64 {
	return [3]float64{
		TonemapACESFitted(colors[0]),
		TonemapACESFitted(colors[1]),
		TonemapACESFitted(colors[2]),
	}
}

// ToneMapAgX tonemaps luma only (preserving hue/chroma ratios) and then
// gently desaturates the brightest highlights, avoiding the per-channel
// hue shift ToneMapBasic introduces on saturated colors.
func ToneMapAgX(colors [3]float64) [3]float64 {
	rgb := [3]float64{maxF(colors[0], 0), maxF(colors[1], 0), maxF(colors[2], 0)}
	luma := Luma(rgb)
	if math.IsNaN(luma) || math.IsInf(luma, 0) || luma <= 1.0e-6 {
		return [3]float64{0, 0, 0}
	}

	mappedLuma := TonemapACESFitted(luma)
	scale := mappedLuma / luma
	out := [3]float64{rgb[0] * scale, rgb[1] * scale, rgb[2] * scale}

	outLuma := Luma(out)
	desat := smoothstep(0.75, 1.0, outLuma)
	for i := range out {
		out[i] = out[i] + (outLuma-out[i])*desat*0.25
		out[i] = clamp01(out[i])
	}
	return out
}

// ToneMap dispatches to ToneMapBasic or ToneMapAgX per the payload's
// tonemapper selector.
func ToneMap(colors [3]float64, mapper payload.ToneMapper) [3]float64 {
	if mapper == payload.ToneMapperAgX {
		return ToneMapAgX(colors)
	}
	return ToneMapBasic(colors)
}

// LinearToSRGB encodes a scene-linear value (extended range allowed,
// only clamped from below) into the sRGB transfer function.
func LinearToSRGB(linear float64) float64 {
	v := maxF(linear, 0)
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// SRGBToLinear is the inverse of LinearToSRGB.
func SRGBToLinear(srgb float64) float64 {
	v := maxF(srgb, 0)
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
