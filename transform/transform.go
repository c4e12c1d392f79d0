// Package transform implements the Virtual Transform: a mapping from
// output-image coordinates back to source-RAW coordinates that composes
// crop, free rotation, flips, and quarter-turn orientation without ever
// materializing a rotated intermediate buffer.
package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rawforge/devcore/payload"
)

// Orientation is the EXIF base orientation reported by the RAW decoder.
type Orientation int

const (
	OrientationNormal Orientation = iota
	OrientationRotate90
	OrientationRotate180
	OrientationRotate270
	OrientationHFlip
	OrientationVFlip
	OrientationTranspose
	OrientationTransverse
	OrientationUnknown
)

// baseStepsAndFlips decomposes an EXIF orientation into quarter-turn
// steps plus horizontal/vertical flip flags, exactly as the decoder's
// eight-way enum is interpreted upstream of the user's own transform.
func baseStepsAndFlips(o Orientation) (steps int, flipH, flipV bool) {
	switch o {
	case OrientationRotate90:
		return 1, false, false
	case OrientationRotate180:
		return 2, false, false
	case OrientationRotate270:
		return 3, false, false
	case OrientationHFlip:
		return 0, true, false
	case OrientationVFlip:
		return 0, false, true
	case OrientationTranspose:
		return 1, true, false
	case OrientationTransverse:
		return 3, true, false
	default: // Normal, Unknown
		return 0, false, false
	}
}

// State is a constructed virtual transform for one render: every output
// pixel is mapped back to a source pixel via MapCoord.
type State struct {
	sourceW, sourceH int
	outputW, outputH int

	orientationSteps int
	flipH, flipV     bool
	rotationRad      float64
	crop             *payload.Rect

	centerX, centerY float64

	// rotation is the 2x2 inverse-rotation linear map, built with gonum
	// so the free-rotation composition is genuine linear algebra rather
	// than ad hoc trig sprinkled through MapCoord.
	rotation *mat.Dense
}

// New builds a State for a source of size (w, h) and the given payload
// transform and base EXIF orientation. Output dimensions are derived
// from the oriented source dimensions, swapped if total orientation
// steps are odd, then reduced by the crop rectangle if present.
func New(w, h int, t payload.Transform, base Orientation) *State {
	baseSteps, baseFlipH, baseFlipV := baseStepsAndFlips(base)

	userSteps := ((t.OrientationSteps % 4) + 4) % 4
	totalSteps := (baseSteps + userSteps) % 4
	totalFlipH := baseFlipH != t.HorizontalFlip
	totalFlipV := baseFlipV != t.VerticalFlip

	rotatedW, rotatedH := w, h
	if totalSteps%2 == 1 {
		rotatedW, rotatedH = h, w
	}

	finalW, finalH := rotatedW, rotatedH
	if t.Crop != nil {
		_, _, cw, ch := cropRectPixels(rotatedW, rotatedH, t.Crop)
		finalW, finalH = cw, ch
	}

	rad := t.RotationDegrees * math.Pi / 180
	s := &State{
		sourceW: w, sourceH: h,
		outputW: finalW, outputH: finalH,
		orientationSteps: totalSteps,
		flipH:            totalFlipH,
		flipV:            totalFlipV,
		rotationRad:      rad,
		crop:             t.Crop,
		centerX:          (float64(finalW) - 1) / 2,
		centerY:          (float64(finalH) - 1) / 2,
	}
	if math.Abs(rad) > 0.0001 {
		cos, sin := math.Cos(rad), math.Sin(rad)
		// Inverse rotation: the matrix of a rotation by -angle,
		// [[cos, sin], [-sin, cos]], since cos(-a)=cos(a) and
		// sin(-a)=-sin(a).
		s.rotation = mat.NewDense(2, 2, []float64{cos, sin, -sin, cos})
	}
	return s
}

// OutputDims returns the rendered image's (width, height).
func (s *State) OutputDims() (int, int) { return s.outputW, s.outputH }

// cropRectPixels resolves a crop rectangle against dimensions (w, h),
// returning pixel-space (x, y, width, height). The crop is normalized
// (a fraction of the image) only when all four of x/y/width/height sit
// at or below the coordinate sentinel together - unlike mask geometry,
// where each field resolves independently.
func cropRectPixels(w, h int, r *payload.Rect) (x, y, cw, ch int) {
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}
	fw, fh := float64(w), float64(h)
	normalized := r.X <= payload.CoordSentinel && r.Y <= payload.CoordSentinel &&
		r.Width <= payload.CoordSentinel && r.Height <= payload.CoordSentinel

	rx, ry, rw, rh := r.X, r.Y, r.Width, r.Height
	if normalized {
		rx *= fw
		ry *= fh
		rw *= fw
		rh *= fh
	}

	xU := clampFloat(math.Round(rx), 0, fw-1)
	yU := clampFloat(math.Round(ry), 0, fh-1)

	maxW := math.Max(fw-xU, 1)
	maxH := math.Max(fh-yU, 1)

	wU := clampFloat(math.Round(rw), 1, maxW)
	hU := clampFloat(math.Round(rh), 1, maxH)

	return int(xU), int(yU), int(wU), int(hU)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapCoord maps output pixel (x, y) to a source coordinate. ok is false
// when the mapped point falls outside the source bounds, in which case
// the pixel is transparent (renders as black).
func (s *State) MapCoord(x, y int) (sx, sy float64, ok bool) {
	fx, fy := float64(x), float64(y)

	// 1. Inverse crop: translate by the crop origin measured against the
	// already-oriented dimensions.
	if s.crop != nil {
		orientedW, orientedH := s.sourceW, s.sourceH
		if s.orientationSteps%2 == 1 {
			orientedW, orientedH = s.sourceH, s.sourceW
		}
		cx, cy, _, _ := cropRectPixels(orientedW, orientedH, s.crop)
		fx += float64(cx)
		fy += float64(cy)
	}

	// 2. Inverse free rotation about the output center.
	if s.rotation != nil {
		dx, dy := fx-s.centerX, fy-s.centerY
		v := mat.NewVecDense(2, []float64{dx, dy})
		var out mat.VecDense
		out.MulVec(s.rotation, v)
		fx = out.AtVec(0) + s.centerX
		fy = out.AtVec(1) + s.centerY
	}

	// 3. Inverse flips, mirrored around the oriented-source center.
	curW, curH := s.sourceW, s.sourceH
	if s.orientationSteps%2 == 1 {
		curW, curH = s.sourceH, s.sourceW
	}
	if s.flipH {
		fx = float64(curW) - 1 - fx
	}
	if s.flipV {
		fy = float64(curH) - 1 - fy
	}

	// 4. Inverse quarter-turn orientation using source dimensions.
	switch s.orientationSteps {
	case 0:
		sx, sy = fx, fy
	case 1:
		sx, sy = fy, float64(s.sourceH)-1-fx
	case 2:
		sx, sy = float64(s.sourceW)-1-fx, float64(s.sourceH)-1-fy
	case 3:
		sx, sy = float64(s.sourceW)-1-fy, fx
	default:
		sx, sy = fx, fy
	}

	if sx < 0 || sy < 0 || sx >= float64(s.sourceW) || sy >= float64(s.sourceH) {
		return 0, 0, false
	}
	return sx, sy, true
}
