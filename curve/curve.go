// Package curve builds monotone cubic Hermite splines (Fritsch-Carlson
// tangents) from a small set of control points and evaluates them over
// the pixel pipeline's luma/RGB curve stage.
package curve

import (
	"math"
	"sort"

	"github.com/rawforge/devcore/payload"
)

// MaxPoints bounds how many control points a curve keeps; the original
// engine truncates to this after sorting.
const MaxPoints = 16

// Point is one (x, y) control point in 0-255 byte units.
type Point struct {
	X, Y float64
}

type segment struct {
	p1, p2 Point
	m1, m2 float64
}

// Runtime is a constructed curve ready for repeated evaluation: control
// points are strictly sorted by X (invariant required by spec.md §3) and
// segments are precomputed at construction.
type Runtime struct {
	points   []Point
	segments []segment
}

// FromPoints builds a Runtime from payload control points. Fewer than
// two points falls back to the default identity curve [(0,0),(255,255)].
func FromPoints(pts []payload.CurvePoint) Runtime {
	conv := make([]Point, len(pts))
	for i, p := range pts {
		conv[i] = Point{X: p.X, Y: p.Y}
	}
	if len(conv) < 2 {
		conv = []Point{{0, 0}, {255, 255}}
	}
	sort.Slice(conv, func(i, j int) bool { return conv[i].X < conv[j].X })
	if len(conv) > MaxPoints {
		conv = conv[:MaxPoints]
	}

	segs := make([]segment, 0, len(conv)-1)
	for i := 0; i < len(conv)-1; i++ {
		p1, p2 := conv[i], conv[i+1]
		p0 := conv[maxInt(i-1, 0)]
		p3 := conv[minInt(i+2, len(conv)-1)]

		deltaBefore := (p1.Y - p0.Y) / math.Max(p1.X-p0.X, 0.001)
		deltaCurrent := (p2.Y - p1.Y) / math.Max(p2.X-p1.X, 0.001)
		deltaAfter := (p3.Y - p2.Y) / math.Max(p3.X-p2.X, 0.001)

		var m1 float64
		switch {
		case i == 0:
			m1 = deltaCurrent
		case deltaBefore*deltaCurrent <= 0:
			m1 = 0
		default:
			m1 = (deltaBefore + deltaCurrent) / 2
		}

		var m2 float64
		switch {
		case i+1 == len(conv)-1:
			m2 = deltaCurrent
		case deltaCurrent*deltaAfter <= 0:
			m2 = 0
		default:
			m2 = (deltaCurrent + deltaAfter) / 2
		}

		if deltaCurrent != 0 {
			alpha := m1 / deltaCurrent
			beta := m2 / deltaCurrent
			if alpha*alpha+beta*beta > 9 {
				tau := 3 / math.Sqrt(alpha*alpha+beta*beta)
				m1 *= tau
				m2 *= tau
			}
		}

		segs = append(segs, segment{p1: p1, p2: p2, m1: m1, m2: m2})
	}

	return Runtime{points: conv, segments: segs}
}

// IsDefault reports whether the curve is the two-point identity ramp
// (0,0)-(255,255), within a small tolerance.
func (r Runtime) IsDefault() bool {
	if len(r.points) != 2 {
		return false
	}
	return math.Abs(r.points[0].X-0) < 0.1 && math.Abs(r.points[0].Y-0) < 0.1 &&
		math.Abs(r.points[1].X-255) < 0.1 && math.Abs(r.points[1].Y-255) < 0.1
}

// Eval evaluates the curve at val, a 0-1 input, returning a 0-1 output.
func (r Runtime) Eval(val float64) float64 {
	if len(r.points) < 2 {
		return val
	}
	x := val * 255
	first, last := r.points[0], r.points[len(r.points)-1]
	if x <= first.X {
		return clamp01(first.Y / 255)
	}
	if x >= last.X {
		return clamp01(last.Y / 255)
	}
	for _, seg := range r.segments {
		if x <= seg.p2.X {
			dx := seg.p2.X - seg.p1.X
			if dx <= 0 {
				return clamp01(seg.p1.Y / 255)
			}
			t := (x - seg.p1.X) / dx
			t2 := t * t
			t3 := t2 * t
			h00 := 2*t3 - 3*t2 + 1
			h10 := t3 - 2*t2 + t
			h01 := -2*t3 + 3*t2
			h11 := t3 - t2
			y := h00*seg.p1.Y + h10*seg.m1*dx + h01*seg.p2.Y + h11*seg.m2*dx
			return clamp01(y / 255)
		}
	}
	return clamp01(last.Y / 255)
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

// Set is the four curve runtimes built from one payload.Curves block.
type Set struct {
	Luma, Red, Green, Blue Runtime
	rgbActive              bool
}

// FromPayload builds a Set, precomputing whether any per-channel curve
// deviates from identity (the gate for the pipeline's curves step).
func FromPayload(c payload.Curves) Set {
	red := FromPoints(c.Red)
	green := FromPoints(c.Green)
	blue := FromPoints(c.Blue)
	return Set{
		Luma:      FromPoints(c.Luma),
		Red:       red,
		Green:     green,
		Blue:      blue,
		rgbActive: !red.IsDefault() || !green.IsDefault() || !blue.IsDefault(),
	}
}

// IsDefault reports whether the whole set is a no-op: identity luma
// curve and no active per-channel curve.
func (s Set) IsDefault() bool {
	return s.Luma.IsDefault() && !s.rgbActive
}

// Luma is the Rec.709 luma weighting used throughout the pipeline.
func Luma(c [3]float64) float64 {
	return c[0]*0.2126 + c[1]*0.7152 + c[2]*0.0722
}

// ApplyAll evaluates the curve set over an sRGB triple. When any
// per-channel curve is active, per-channel curves are evaluated and the
// result is rescaled to preserve the luma curve's target brightness;
// otherwise the luma curve alone is applied to each channel.
func (s Set) ApplyAll(color [3]float64) [3]float64 {
	if s.rgbActive {
		graded := [3]float64{s.Red.Eval(color[0]), s.Green.Eval(color[1]), s.Blue.Eval(color[2])}
		lumaInitial := Luma(color)
		lumaTarget := s.Luma.Eval(lumaInitial)
		lumaGraded := Luma(graded)

		var final [3]float64
		if lumaGraded > 0.001 {
			scale := lumaTarget / lumaGraded
			final = [3]float64{graded[0] * scale, graded[1] * scale, graded[2] * scale}
		} else {
			final = [3]float64{lumaTarget, lumaTarget, lumaTarget}
		}
		if max := math.Max(final[0], math.Max(final[1], final[2])); max > 1 {
			final = [3]float64{final[0] / max, final[1] / max, final[2] / max}
		}
		return final
	}
	return [3]float64{s.Luma.Eval(color[0]), s.Luma.Eval(color[1]), s.Luma.Eval(color[2])}
}
