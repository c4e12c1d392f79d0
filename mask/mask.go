// Package mask implements the mask engine: parsing a payload's mask
// stack into per-mask adjustment/curve runtimes, and rasterizing each
// mask's brush/radial/linear/AI sub-mask stack into an 8-bit selection
// bitmap, either over a whole image or a padded tile region.
package mask

import (
	"github.com/rawforge/devcore/curve"
	"github.com/rawforge/devcore/payload"
)

// Def is a parsed mask, normalized and curve-built but not yet
// rasterized against any concrete width/height.
type Def struct {
	ID            string
	OpacityFactor float64
	Invert        bool
	Adjustments   payload.Adjustments
	Curves        curve.Set
	CurvesActive  bool
	// SubMasks is nil for a legacy mask, whose selection is implicitly 1
	// everywhere (no bitmap to rasterize).
	SubMasks []payload.SubMask
}

// ParseDefs builds Defs from a payload's mask list: invisible masks are
// dropped, opacity is converted to a 0..1 factor, and each mask's own
// adjustments/curves are normalized independently of the global ones.
func ParseDefs(masks []payload.MaskDefinition, scales payload.Scales) []Def {
	defs := make([]Def, 0, len(masks))
	for _, m := range masks {
		if !m.Visible {
			continue
		}
		cs := curve.FromPayload(m.Curves)
		defs = append(defs, Def{
			ID:            m.ID,
			OpacityFactor: clamp01(m.Opacity),
			Invert:        m.Invert,
			Adjustments:   m.Adjustments.Normalize(scales),
			Curves:        cs,
			CurvesActive:  !cs.IsDefault(),
			SubMasks:      m.SubMasks,
		})
	}
	return defs
}

// Runtime is a Def with its selection bitmap rasterized against a
// concrete region, ready for per-pixel sampling during a render.
type Runtime struct {
	OpacityFactor    float64
	Invert           bool
	Adjustments      payload.Adjustments
	Curves           curve.Set
	CurvesActive     bool
	Bitmap           []byte // nil when the mask selects the whole region
	OriginX, OriginY int
	Width, Height    int
}

// SelectionAt returns this mask's selection (0..1) at a full-image
// coordinate, with the mask's own Invert flag applied.
func (r *Runtime) SelectionAt(fullX, fullY int) float64 {
	sel := 1.0
	if r.Bitmap != nil {
		switch {
		case fullX < r.OriginX || fullY < r.OriginY:
			sel = 0
		default:
			lx, ly := fullX-r.OriginX, fullY-r.OriginY
			if lx >= r.Width || ly >= r.Height {
				sel = 0
			} else {
				sel = float64(r.Bitmap[ly*r.Width+lx]) / 255
			}
		}
	}
	if r.Invert {
		sel = 1 - sel
	}
	return sel
}

// BuildWhole rasterizes every Def's bitmap over the full image.
func BuildWhole(defs []Def, width, height int) []Runtime {
	return BuildRegion(defs, width, height, 0, 0, width, height, nil)
}

// BuildRegion rasterizes every Def's bitmap over a region
// (originX, originY, w, h) of a fullW x fullH image. aiCache, if
// non-nil, is consulted before regenerating any AI sub-mask so a tiled
// render only ever decodes and blurs a given AI mask once.
func BuildRegion(defs []Def, fullW, fullH, originX, originY, w, h int, aiCache map[string][]byte) []Runtime {
	out := make([]Runtime, len(defs))
	for i, d := range defs {
		var bitmap []byte
		if d.SubMasks != nil {
			bitmap = rasterize(d.SubMasks, fullW, fullH, originX, originY, w, h, aiCache)
		}
		out[i] = Runtime{
			OpacityFactor: d.OpacityFactor,
			Invert:        d.Invert,
			Adjustments:   d.Adjustments,
			Curves:        d.Curves,
			CurvesActive:  d.CurvesActive,
			Bitmap:        bitmap,
			OriginX:       originX,
			OriginY:       originY,
			Width:         w,
			Height:        h,
		}
	}
	return out
}

// BuildAICache precomputes every distinct AI sub-mask (by id) across all
// mask Defs at full image resolution, so a tiled render's per-tile
// BuildRegion calls can reuse them instead of re-decoding the client's
// PNG payload once per tile.
func BuildAICache(defs []Def, width, height int) map[string][]byte {
	cache := make(map[string][]byte)
	for _, d := range defs {
		for _, sm := range d.SubMasks {
			if sm.Variant != payload.VariantAISubject && sm.Variant != payload.VariantAIEnvironment {
				continue
			}
			if _, ok := cache[sm.ID]; ok {
				continue
			}
			if bm := generateAIMask(sm.AI, width, height); bm != nil {
				cache[sm.ID] = bm
			}
		}
	}
	return cache
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
