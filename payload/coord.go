package payload

// CoordSentinel is the boundary below which a parametric coordinate is
// interpreted as a fraction of the image dimension rather than an
// absolute pixel value. Intentional backwards-compatibility ambiguity;
// see SPEC_FULL.md §9.
const CoordSentinel = 1.5

// Denorm resolves a coordinate value against dim (the relevant image
// dimension): values at or below CoordSentinel are treated as fractions
// of (dim-1) and clamped to [0, normClamp]; values above the sentinel are
// already absolute pixels and are returned unchanged, unclamped. This
// mirrors the original engine's own asymmetry: most call sites clamp the
// normalized branch to maxCoord = max(dim-1, 1), but the linear mask's
// own denorm clamps it to a literal 1.0 instead (a bug in the original
// preserved here rather than "fixed") - callers pass their own normClamp
// rather than this function inferring it, so that distinction stays
// explicit at each call site.
func Denorm(v, dim, normClamp float64) float64 {
	if v > CoordSentinel {
		return v
	}
	maxCoord := dim - 1
	if maxCoord < 1 {
		maxCoord = 1
	}
	out := v * maxCoord
	if out < 0 {
		return 0
	}
	if out > normClamp {
		return normClamp
	}
	return out
}
