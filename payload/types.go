// Package payload is the typed representation of the adjustments JSON: the
// global sliders, curves, HSL/color-grading panels, geometric transform,
// preview hints, and mask tree that drive a single render.
package payload

// ToneMapper selects the global tonemap operator (pixel pipeline step 15).
type ToneMapper string

const (
	ToneMapperBasic ToneMapper = "basic"
	ToneMapperAgX   ToneMapper = "agx"
)

// CombineMode is how a sub-mask's bitmap merges into its parent mask.
type CombineMode string

const (
	CombineAdditive    CombineMode = "additive"
	CombineSubtractive CombineMode = "subtractive"
)

// SubMaskVariant names the geometry generator for a sub-mask.
type SubMaskVariant string

const (
	VariantBrush         SubMaskVariant = "brush"
	VariantRadial        SubMaskVariant = "radial"
	VariantLinear        SubMaskVariant = "linear"
	VariantAISubject     SubMaskVariant = "ai-subject"
	VariantAIEnvironment SubMaskVariant = "ai-environment"
)

// HSLBand indexes the eight-band HSL panel, in the fixed order the pipeline
// iterates them.
type HSLBand int

const (
	BandRed HSLBand = iota
	BandOrange
	BandYellow
	BandGreen
	BandAqua
	BandBlue
	BandPurple
	BandMagenta
	numHSLBands
)

// HSLValues is one band's hue/saturation/luminance sliders, in raw UI units
// before normalization.
type HSLValues struct {
	Hue        float64
	Saturation float64
	Luminance  float64
}

// ColorGradeBand is one of the shadows/midtones/highlights wheels.
type ColorGradeBand struct {
	Hue        float64
	Saturation float64
	Luminance  float64
}

// ColorGrading is the three-band color-grading panel plus its blend
// controls, in raw UI units.
type ColorGrading struct {
	Shadows    ColorGradeBand
	Midtones   ColorGradeBand
	Highlights ColorGradeBand
	Blending   float64
	Balance    float64
}

// Adjustments is every slider the pixel pipeline consumes, shared between
// the global payload and every mask's own nested adjustments block. Values
// here are raw UI units; call Normalize to convert to pipeline units.
type Adjustments struct {
	Exposure   float64
	Brightness float64
	Contrast   float64
	Highlights float64
	Shadows    float64
	Whites     float64
	Blacks     float64
	Saturation float64
	Temperature float64
	Tint       float64
	Vibrance   float64
	Clarity    float64
	Dehaze     float64
	Structure  float64
	Centre     float64

	VignetteAmount    float64
	VignetteMidpoint  float64
	VignetteRoundness float64
	VignetteFeather   float64

	Sharpness float64

	LumaNoiseReduction  float64
	ColorNoiseReduction float64

	ChromaticAberrationRedCyan    float64
	ChromaticAberrationBlueYellow float64

	ToneMapper   ToneMapper
	ColorGrading ColorGrading
	HSL          [numHSLBands]HSLValues
}

// CurvePoint is one control point of a spline curve; X and Y are in 0-255
// byte units.
type CurvePoint struct {
	X float64
	Y float64
}

// Curves holds the four spline curves the pipeline may evaluate: a luma
// curve applied to preserve target brightness, and three per-channel
// curves.
type Curves struct {
	Luma  []CurvePoint
	Red   []CurvePoint
	Green []CurvePoint
	Blue  []CurvePoint
}

// Rect is a crop or ROI rectangle. Coordinates follow the same
// normalized-or-pixel convention as mask geometry (see payload.Denorm).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Transform is the user-specified geometric transform: orientation
// quarter-turns, flips, free rotation, and an optional crop.
type Transform struct {
	// OrientationSteps is the number of additional 90-degree clockwise
	// turns the user has requested, mod 4.
	OrientationSteps int
	HorizontalFlip   bool
	VerticalFlip     bool
	// RotationDegrees is the free (non-quarter-turn) rotation, applied
	// about the output center before the quarter-turn/flip/crop chain
	// inverts it at render time.
	RotationDegrees float64
	Crop            *Rect
}

// Preview carries hints that only affect which resolution/ROI is
// rendered, never the pixel math itself.
type Preview struct {
	UseZoom      bool
	ROI          *Rect
	MaxDimension *uint32
}

// BrushPoint is one (x, y, pressure) sample of a brush stroke poly-line.
type BrushPoint struct {
	X        float64
	Y        float64
	Pressure float64
}

// BrushLine is a single stroke: a tool (brush or eraser), its size and
// feather, a client-supplied ordering key, and its poly-line.
type BrushLine struct {
	Tool      string // "brush" or "eraser"
	BrushSize float64
	Feather   float64
	Order     uint64
	Points    []BrushPoint
}

// BrushParams holds every stroke belonging to one brush sub-mask.
type BrushParams struct {
	Lines []BrushLine
}

// RadialParams parameterizes an elliptical radial sub-mask.
type RadialParams struct {
	CenterX  float64
	CenterY  float64
	RadiusX  float64
	RadiusY  float64
	Rotation float64
	Feather  float64
}

// LinearParams parameterizes a linear-gradient sub-mask.
type LinearParams struct {
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
	Range  float64
}

// AIParams carries a base64-encoded PNG selection mask. MaskDataBase64 is nil when
// the client has not supplied one yet, in which case the sub-mask
// contributes no selection. Softness feathers the mask's edge via a box
// blur sized from 0 (no blur) to a 10px radius.
type AIParams struct {
	MaskDataBase64 *string
	Softness       float64
}

// SubMask is one rasterizable layer of a mask definition.
type SubMask struct {
	ID      string
	Variant SubMaskVariant
	Visible bool
	Combine CombineMode

	Brush  *BrushParams
	Radial *RadialParams
	Linear *LinearParams
	AI     *AIParams
}

// MaskDefinition is a named region with its own adjustments, built from an
// ordered stack of sub-masks, or (legacy format) implicitly selecting the
// whole image.
type MaskDefinition struct {
	ID         string
	Visible    bool
	Invert     bool
	Opacity    float64 // 0..1, already divided by 100.
	Adjustments Adjustments
	Curves     Curves
	SubMasks   []SubMask
	// Legacy marks a mask parsed from the flat "enabled" format, whose
	// selection is implicitly 1 everywhere (no sub-masks to rasterize).
	Legacy bool
}

// Payload is the full, immutable adjustments record for a single render.
type Payload struct {
	Adjustments Adjustments
	Curves      Curves
	Transform   Transform
	Preview     Preview
	Masks       []MaskDefinition
}

// Default returns the zero-valued payload: tonemapper Basic, every slider
// at 0, no curves, no masks, identity transform. Used whenever JSON fails
// to parse, per the engine's lenient-parsing contract.
func Default() Payload {
	return Payload{
		Adjustments: Adjustments{ToneMapper: ToneMapperBasic},
	}
}
