package payload

// Scales is the fixed table of divisors that converts UI slider units
// into pipeline units, grounded on original_source's ADJUSTMENT_SCALES
// constant table (model/adjustments.rs).
type Scales struct {
	Exposure    float64
	Brightness  float64
	Contrast    float64
	Highlights  float64
	Shadows     float64
	Whites      float64
	Blacks      float64
	Saturation  float64
	Temperature float64
	Tint        float64
	Vibrance    float64
	Clarity     float64
	Dehaze      float64
	Structure   float64
	Centre      float64

	VignetteAmount    float64
	VignetteMidpoint  float64
	VignetteRoundness float64
	VignetteFeather   float64

	Sharpness float64

	LumaNoiseReduction  float64
	ColorNoiseReduction float64

	ChromaticAberrationRedCyan    float64
	ChromaticAberrationBlueYellow float64

	HSLHueMultiplier float64
	HSLSaturation    float64
	HSLLuminance     float64
}

// DefaultScales is the production normalization table.
var DefaultScales = Scales{
	Exposure:    0.8,
	Brightness:  0.8,
	Contrast:    100,
	Highlights:  150,
	Shadows:     100,
	Whites:      30,
	Blacks:      60,
	Saturation:  100,
	Temperature: 25,
	Tint:        100,
	Vibrance:    100,
	Clarity:     200,
	Dehaze:      750,
	Structure:   200,
	Centre:      250,

	VignetteAmount:    100,
	VignetteMidpoint:  100,
	VignetteRoundness: 100,
	VignetteFeather:   100,

	Sharpness: 80,

	LumaNoiseReduction:  100,
	ColorNoiseReduction: 100,

	ChromaticAberrationRedCyan:    10000,
	ChromaticAberrationBlueYellow: 10000,

	HSLHueMultiplier: 0.3,
	HSLSaturation:    100,
	HSLLuminance:     100,
}

func scale(v, divisor float64) float64 {
	if divisor < 1e-7 && divisor > -1e-7 {
		return v
	}
	return v / divisor
}

// Normalize converts a's raw UI-unit sliders to pipeline units using s. It
// is a pure transform, applied exactly once per render; it is not
// idempotent, since calling it on an already-normalized value divides
// by the scales again.
func (a Adjustments) Normalize(s Scales) Adjustments {
	out := Adjustments{
		Exposure:    scale(a.Exposure, s.Exposure),
		Brightness:  scale(a.Brightness, s.Brightness),
		Contrast:    scale(a.Contrast, s.Contrast),
		Highlights:  scale(a.Highlights, s.Highlights),
		Shadows:     scale(a.Shadows, s.Shadows),
		Whites:      scale(a.Whites, s.Whites),
		Blacks:      scale(a.Blacks, s.Blacks),
		Saturation:  scale(a.Saturation, s.Saturation),
		Temperature: scale(a.Temperature, s.Temperature),
		Tint:        scale(a.Tint, s.Tint),
		Vibrance:    scale(a.Vibrance, s.Vibrance),
		Clarity:     scale(a.Clarity, s.Clarity),
		Dehaze:      scale(a.Dehaze, s.Dehaze),
		Structure:   scale(a.Structure, s.Structure),
		Centre:      scale(a.Centre, s.Centre),

		VignetteAmount:    scale(a.VignetteAmount, s.VignetteAmount),
		VignetteMidpoint:  scale(a.VignetteMidpoint, s.VignetteMidpoint),
		VignetteRoundness: scale(a.VignetteRoundness, s.VignetteRoundness),
		VignetteFeather:   scale(a.VignetteFeather, s.VignetteFeather),

		Sharpness: scale(a.Sharpness, s.Sharpness),

		LumaNoiseReduction:  scale(a.LumaNoiseReduction, s.LumaNoiseReduction),
		ColorNoiseReduction: scale(a.ColorNoiseReduction, s.ColorNoiseReduction),

		ChromaticAberrationRedCyan:    scale(a.ChromaticAberrationRedCyan, s.ChromaticAberrationRedCyan),
		ChromaticAberrationBlueYellow: scale(a.ChromaticAberrationBlueYellow, s.ChromaticAberrationBlueYellow),

		ToneMapper:   a.ToneMapper,
		ColorGrading: a.ColorGrading.normalized(),
	}
	for i, band := range a.HSL {
		out.HSL[i] = HSLValues{
			Hue:        band.Hue * s.HSLHueMultiplier,
			Saturation: scale(band.Saturation, s.HSLSaturation),
			Luminance:  scale(band.Luminance, s.HSLLuminance),
		}
	}
	return out
}

func (g ColorGrading) normalized() ColorGrading {
	return ColorGrading{
		Shadows: ColorGradeBand{
			Hue:        g.Shadows.Hue,
			Saturation: g.Shadows.Saturation / 500,
			Luminance:  g.Shadows.Luminance / 500,
		},
		Midtones: ColorGradeBand{
			Hue:        g.Midtones.Hue,
			Saturation: g.Midtones.Saturation / 500,
			Luminance:  g.Midtones.Luminance / 500,
		},
		Highlights: ColorGradeBand{
			Hue:        g.Highlights.Hue,
			Saturation: g.Highlights.Saturation / 500,
			Luminance:  g.Highlights.Luminance / 500,
		},
		Blending: g.Blending / 100,
		Balance:  g.Balance / 200,
	}
}
