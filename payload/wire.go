package payload

import "encoding/json"

// wire* types mirror the adjustments JSON exactly (camelCase keys, all
// fields optional). Go's json.Unmarshal already gives the lenient
// behavior spec.md 4.1 asks for: unknown fields are ignored, and any
// field absent from the JSON keeps its Go zero value, so no custom
// unmarshaler is needed for that part of the contract.

type wireHueSatLum struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Luminance  float64 `json:"luminance"`
}

type wireColorGrading struct {
	Shadows    wireHueSatLum `json:"shadows"`
	Midtones   wireHueSatLum `json:"midtones"`
	Highlights wireHueSatLum `json:"highlights"`
	Blending   float64       `json:"blending"`
	Balance    float64       `json:"balance"`
}

type wireHSLPanel struct {
	Reds     wireHueSatLum `json:"reds"`
	Oranges  wireHueSatLum `json:"oranges"`
	Yellows  wireHueSatLum `json:"yellows"`
	Greens   wireHueSatLum `json:"greens"`
	Aquas    wireHueSatLum `json:"aquas"`
	Blues    wireHueSatLum `json:"blues"`
	Purples  wireHueSatLum `json:"purples"`
	Magentas wireHueSatLum `json:"magentas"`
}

func (p wireHSLPanel) toValues() [numHSLBands]HSLValues {
	bands := [8]wireHueSatLum{p.Reds, p.Oranges, p.Yellows, p.Greens, p.Aquas, p.Blues, p.Purples, p.Magentas}
	var out [numHSLBands]HSLValues
	for i, b := range bands {
		out[i] = HSLValues{Hue: b.Hue, Saturation: b.Saturation, Luminance: b.Luminance}
	}
	return out
}

func (g wireColorGrading) toValues() ColorGrading {
	return ColorGrading{
		Shadows:    ColorGradeBand(g.Shadows),
		Midtones:   ColorGradeBand(g.Midtones),
		Highlights: ColorGradeBand(g.Highlights),
		Blending:   g.Blending,
		Balance:    g.Balance,
	}
}

type wireCurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireCurves struct {
	Luma  []wireCurvePoint `json:"luma"`
	Red   []wireCurvePoint `json:"red"`
	Green []wireCurvePoint `json:"green"`
	Blue  []wireCurvePoint `json:"blue"`
}

func defaultCurvePoints() []wireCurvePoint {
	return []wireCurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}}
}

func (c wireCurves) toValues() Curves {
	toPts := func(pts []wireCurvePoint) []CurvePoint {
		if len(pts) == 0 {
			pts = defaultCurvePoints()
		}
		out := make([]CurvePoint, len(pts))
		for i, p := range pts {
			out[i] = CurvePoint{X: p.X, Y: p.Y}
		}
		return out
	}
	return Curves{
		Luma:  toPts(c.Luma),
		Red:   toPts(c.Red),
		Green: toPts(c.Green),
		Blue:  toPts(c.Blue),
	}
}

type wireCrop struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c wireCrop) toRect() *Rect {
	return &Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

type wirePreview struct {
	UseZoom      bool      `json:"useZoom"`
	ROI          *wireCrop `json:"roi"`
	MaxDimension *uint32   `json:"maxDimension"`
}

type wireAdjustments struct {
	Exposure   float64 `json:"exposure"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Highlights float64 `json:"highlights"`
	Shadows    float64 `json:"shadows"`
	Whites     float64 `json:"whites"`
	Blacks     float64 `json:"blacks"`
	Saturation float64 `json:"saturation"`
	Temperature float64 `json:"temperature"`
	Tint       float64 `json:"tint"`
	Vibrance   float64 `json:"vibrance"`
	Clarity    float64 `json:"clarity"`
	Dehaze     float64 `json:"dehaze"`
	Structure  float64 `json:"structure"`
	Centre     float64 `json:"centre"`

	VignetteAmount    float64 `json:"vignetteAmount"`
	VignetteMidpoint  float64 `json:"vignetteMidpoint"`
	VignetteRoundness float64 `json:"vignetteRoundness"`
	VignetteFeather   float64 `json:"vignetteFeather"`

	Sharpness float64 `json:"sharpness"`

	LumaNoiseReduction  float64 `json:"lumaNoiseReduction"`
	ColorNoiseReduction float64 `json:"colorNoiseReduction"`

	ChromaticAberrationRedCyan    float64 `json:"chromaticAberrationRedCyan"`
	ChromaticAberrationBlueYellow float64 `json:"chromaticAberrationBlueYellow"`

	ToneMapper string `json:"toneMapper"`
}

func (a wireAdjustments) toValues() Adjustments {
	tm := ToneMapperBasic
	if a.ToneMapper == string(ToneMapperAgX) {
		tm = ToneMapperAgX
	}
	return Adjustments{
		Exposure: a.Exposure, Brightness: a.Brightness, Contrast: a.Contrast,
		Highlights: a.Highlights, Shadows: a.Shadows, Whites: a.Whites, Blacks: a.Blacks,
		Saturation: a.Saturation, Temperature: a.Temperature, Tint: a.Tint, Vibrance: a.Vibrance,
		Clarity: a.Clarity, Dehaze: a.Dehaze, Structure: a.Structure, Centre: a.Centre,
		VignetteAmount: a.VignetteAmount, VignetteMidpoint: a.VignetteMidpoint,
		VignetteRoundness: a.VignetteRoundness, VignetteFeather: a.VignetteFeather,
		Sharpness:           a.Sharpness,
		LumaNoiseReduction:  a.LumaNoiseReduction,
		ColorNoiseReduction: a.ColorNoiseReduction,
		ChromaticAberrationRedCyan:    a.ChromaticAberrationRedCyan,
		ChromaticAberrationBlueYellow: a.ChromaticAberrationBlueYellow,
		ToneMapper: tm,
	}
}

// wirePayload is the JSON root: the global adjustments fields flattened
// alongside the transform, curves, color grading, HSL panel, preview
// hints, and a raw mask-node array (classified separately, since each
// element may be "new" or "legacy" shaped).
type wirePayload struct {
	wireAdjustments
	RotationDegrees  float64           `json:"rotation"`
	FlipHorizontal   bool              `json:"flipHorizontal"`
	FlipVertical     bool              `json:"flipVertical"`
	OrientationSteps int               `json:"orientationSteps"`
	Crop             *wireCrop         `json:"crop"`
	Curves           wireCurves        `json:"curves"`
	ColorGrading     wireColorGrading  `json:"colorGrading"`
	HSL              wireHSLPanel      `json:"hsl"`
	Preview          wirePreview       `json:"preview"`
	Masks            []json.RawMessage `json:"masks"`
}
