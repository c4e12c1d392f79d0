package payload

import "encoding/json"

const defaultMaskOpacity = 100

// maskShapeProbe is decoded first to classify a mask node: the "new"
// format carries subMasks, the legacy format carries a top-level
// enabled flag and flat adjustments. Nodes matching neither are
// silently dropped, per spec.md 4.1.
type maskShapeProbe struct {
	SubMasks *json.RawMessage `json:"subMasks"`
	Enabled  *bool            `json:"enabled"`
}

func parseMaskNodes(nodes []json.RawMessage) []MaskDefinition {
	out := make([]MaskDefinition, 0, len(nodes))
	for _, raw := range nodes {
		var probe maskShapeProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		switch {
		case probe.SubMasks != nil:
			if md, ok := parseNewMask(raw); ok {
				out = append(out, md)
			}
		case probe.Enabled != nil:
			if md, ok := parseLegacyMask(raw); ok {
				out = append(out, md)
			}
		default:
			// Neither shape recognized; drop silently.
		}
	}
	return out
}

type wireMaskAdjustments struct {
	wireAdjustments
	Curves       wireCurves       `json:"curves"`
	ColorGrading wireColorGrading `json:"colorGrading"`
	HSL          wireHSLPanel     `json:"hsl"`
}

type wireMaskDefinition struct {
	ID         string               `json:"id"`
	Visible    bool                 `json:"visible"`
	Invert     bool                 `json:"invert"`
	Opacity    *float64             `json:"opacity"`
	Adjustments wireMaskAdjustments `json:"adjustments"`
	SubMasks   []wireSubMask        `json:"subMasks"`
}

func parseNewMask(raw json.RawMessage) (MaskDefinition, bool) {
	var w wireMaskDefinition
	if err := json.Unmarshal(raw, &w); err != nil {
		return MaskDefinition{}, false
	}
	opacity := float64(defaultMaskOpacity)
	if w.Opacity != nil {
		opacity = *w.Opacity
	}
	adj := w.Adjustments.wireAdjustments.toValues()
	adj.ColorGrading = w.Adjustments.ColorGrading.toValues()
	adj.HSL = w.Adjustments.HSL.toValues()

	subs := make([]SubMask, 0, len(w.SubMasks))
	for _, s := range w.SubMasks {
		if sm, ok := s.toValues(); ok {
			subs = append(subs, sm)
		}
	}

	return MaskDefinition{
		ID:          w.ID,
		Visible:     w.Visible,
		Invert:      w.Invert,
		Opacity:     opacity / 100,
		Adjustments: adj,
		Curves:      w.Adjustments.Curves.toValues(),
		SubMasks:    subs,
	}, true
}

// wireLegacyMask is the flat, sub-mask-free mask shape kept for
// backwards compatibility: only a subset of sliders were ever exposed
// in this format.
type wireLegacyMask struct {
	Enabled     bool    `json:"enabled"`
	Exposure    float64 `json:"exposure"`
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Highlights  float64 `json:"highlights"`
	Shadows     float64 `json:"shadows"`
	Whites      float64 `json:"whites"`
	Blacks      float64 `json:"blacks"`
	Saturation  float64 `json:"saturation"`
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Vibrance    float64 `json:"vibrance"`
}

func parseLegacyMask(raw json.RawMessage) (MaskDefinition, bool) {
	var w wireLegacyMask
	if err := json.Unmarshal(raw, &w); err != nil {
		return MaskDefinition{}, false
	}
	return MaskDefinition{
		Visible: w.Enabled,
		Opacity: 1,
		Legacy:  true,
		Adjustments: Adjustments{
			Exposure: w.Exposure, Brightness: w.Brightness, Contrast: w.Contrast,
			Highlights: w.Highlights, Shadows: w.Shadows, Whites: w.Whites, Blacks: w.Blacks,
			Saturation: w.Saturation, Temperature: w.Temperature, Tint: w.Tint, Vibrance: w.Vibrance,
			ToneMapper: ToneMapperBasic,
		},
	}, true
}

type wireBrushPoint struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Pressure *float64 `json:"pressure"`
}

type wireBrushLine struct {
	Tool      string           `json:"tool"`
	BrushSize float64          `json:"brushSize"`
	Feather   *float64         `json:"feather"`
	Order     uint64           `json:"order"`
	Points    []wireBrushPoint `json:"points"`
}

type wireBrushParams struct {
	Lines []wireBrushLine `json:"lines"`
}

type wireRadialParams struct {
	CenterX  float64 `json:"centerX"`
	CenterY  float64 `json:"centerY"`
	RadiusX  float64 `json:"radiusX"`
	RadiusY  float64 `json:"radiusY"`
	Rotation float64 `json:"rotation"`
	Feather  float64 `json:"feather"`
}

type wireLinearParams struct {
	StartX float64  `json:"startX"`
	StartY float64  `json:"startY"`
	EndX   float64  `json:"endX"`
	EndY   float64  `json:"endY"`
	Range  *float64 `json:"range"`
}

type wireAIParams struct {
	MaskDataBase64 *string `json:"maskDataBase64"`
	Softness       float64 `json:"softness"`
}

type wireSubMask struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Visible bool            `json:"visible"`
	Mode    string          `json:"mode"`
	Params  json.RawMessage `json:"parameters"`
}

const (
	defaultBrushFeather = 0.5
	defaultLinearRange  = 0.25
)

func (w wireSubMask) toValues() (SubMask, bool) {
	combine := CombineAdditive
	if w.Mode == string(CombineSubtractive) {
		combine = CombineSubtractive
	}
	sm := SubMask{ID: w.ID, Variant: SubMaskVariant(w.Type), Visible: w.Visible, Combine: combine}

	switch sm.Variant {
	case VariantBrush:
		var p wireBrushParams
		if len(w.Params) > 0 {
			if err := json.Unmarshal(w.Params, &p); err != nil {
				return SubMask{}, false
			}
		}
		lines := make([]BrushLine, 0, len(p.Lines))
		for _, l := range p.Lines {
			feather := defaultBrushFeather
			if l.Feather != nil {
				feather = *l.Feather
			}
			pts := make([]BrushPoint, len(l.Points))
			for i, pt := range l.Points {
				pressure := 1.0
				if pt.Pressure != nil {
					pressure = *pt.Pressure
				}
				pts[i] = BrushPoint{X: pt.X, Y: pt.Y, Pressure: pressure}
			}
			lines = append(lines, BrushLine{
				Tool: l.Tool, BrushSize: l.BrushSize, Feather: feather, Order: l.Order, Points: pts,
			})
		}
		sm.Brush = &BrushParams{Lines: lines}
	case VariantRadial:
		var p wireRadialParams
		if len(w.Params) > 0 {
			if err := json.Unmarshal(w.Params, &p); err != nil {
				return SubMask{}, false
			}
		}
		sm.Radial = &RadialParams{
			CenterX: p.CenterX, CenterY: p.CenterY, RadiusX: p.RadiusX, RadiusY: p.RadiusY,
			Rotation: p.Rotation, Feather: p.Feather,
		}
	case VariantLinear:
		var p wireLinearParams
		if len(w.Params) > 0 {
			if err := json.Unmarshal(w.Params, &p); err != nil {
				return SubMask{}, false
			}
		}
		rng := defaultLinearRange
		if p.Range != nil {
			rng = *p.Range
		}
		sm.Linear = &LinearParams{StartX: p.StartX, StartY: p.StartY, EndX: p.EndX, EndY: p.EndY, Range: rng}
	case VariantAISubject, VariantAIEnvironment:
		var p wireAIParams
		if len(w.Params) > 0 {
			if err := json.Unmarshal(w.Params, &p); err != nil {
				return SubMask{}, false
			}
		}
		sm.AI = &AIParams{MaskDataBase64: p.MaskDataBase64, Softness: p.Softness}
	default:
		return SubMask{}, false
	}
	return sm, true
}
