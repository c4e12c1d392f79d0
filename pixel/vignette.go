package pixel

import (
	"math"

	"github.com/rawforge/devcore/payload"
)

// ApplyVignette darkens (negative amount) or blends to white (positive
// amount) toward the frame edges, over the final sRGB output. Unlike
// every other operator in this package it is evaluated once per pixel
// against the OUTPUT width/height directly, never per-mask: spec.md
// keeps the vignette strictly global. Roundness reshapes the falloff
// from circular to a rounded-rectangle via a power-law on each UV axis.
func ApplyVignette(srgb [3]float64, settings payload.Adjustments, x, y, width, height int) [3]float64 {
	if math.Abs(settings.VignetteAmount) <= 0.00001 {
		return srgb
	}

	vAmount := clampF(settings.VignetteAmount, -1, 1)
	vMid := clamp01(settings.VignetteMidpoint)
	vRound := clampF(1-settings.VignetteRoundness, 0.01, 4.0)
	vFeather := clamp01(settings.VignetteFeather) * 0.5

	fullW, fullH := float64(width), float64(height)
	aspect := 1.0
	if fullW > 0 {
		aspect = fullH / fullW
	}

	uvX := (float64(x)/fullW - 0.5) * 2
	uvY := (float64(y)/fullH - 0.5) * 2

	uvRoundX := signF(uvX) * math.Pow(math.Abs(uvX), vRound)
	uvRoundY := signF(uvY) * math.Pow(math.Abs(uvY), vRound)
	d := math.Sqrt(uvRoundX*uvRoundX+(uvRoundY*aspect)*(uvRoundY*aspect)) * 0.5

	mask := smoothstep(vMid-vFeather, vMid+vFeather, d)

	if vAmount < 0 {
		mult := clampF(1+vAmount*mask, 0, 2)
		srgb[0] *= mult
		srgb[1] *= mult
		srgb[2] *= mult
	} else {
		t := clampF(vAmount*mask, 0, 1)
		srgb[0] += (1 - srgb[0]) * t
		srgb[1] += (1 - srgb[1]) * t
		srgb[2] += (1 - srgb[2]) * t
	}

	return [3]float64{clamp01(srgb[0]), clamp01(srgb[1]), clamp01(srgb[2])}
}

// QuantizeU8 rounds a 0..1 sRGB channel to its nearest 8-bit value,
// collapsing NaN/Inf to 0 rather than wrapping or panicking.
func QuantizeU8(v float64) uint8 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return uint8(math.Round(clampF(v*255, 0, 255)))
}
