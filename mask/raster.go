package mask

import (
	"math"
	"sort"

	"github.com/rawforge/devcore/payload"
)

// rasterize builds one mask's combined selection bitmap over a region
// (originX, originY, w, h) of a fullW x fullH image, applying each
// visible sub-mask in the order it appears via its combine mode.
func rasterize(subs []payload.SubMask, fullW, fullH, originX, originY, w, h int, aiCache map[string][]byte) []byte {
	bitmap := make([]byte, w*h)
	for _, sm := range subs {
		if !sm.Visible {
			continue
		}
		switch sm.Variant {
		case payload.VariantBrush:
			applyBrush(bitmap, sm, fullW, fullH, originX, originY, w, h)
		case payload.VariantRadial:
			combine(bitmap, rasterRadial(sm.Radial, fullW, fullH, originX, originY, w, h), sm.Combine)
		case payload.VariantLinear:
			combine(bitmap, rasterLinear(sm.Linear, fullW, fullH, originX, originY, w, h), sm.Combine)
		case payload.VariantAISubject, payload.VariantAIEnvironment:
			if sub := aiMaskForRegion(sm, fullW, fullH, originX, originY, w, h, aiCache); sub != nil {
				combine(bitmap, sub, sm.Combine)
			}
		}
	}
	return bitmap
}

// combine merges a freshly-rasterized sub-mask bitmap into the running
// mask bitmap: additive takes the brighter of the two, subtractive
// darkens the running bitmap by the sub-mask's intensity.
func combine(dst, src []byte, mode payload.CombineMode) {
	if len(dst) != len(src) {
		return
	}
	if mode == payload.CombineSubtractive {
		for i, s := range src {
			cur := float64(dst[i]) / 255
			intensity := float64(s) / 255
			dst[i] = to255(cur * (1 - intensity))
		}
		return
	}
	for i, s := range src {
		if s > dst[i] {
			dst[i] = s
		}
	}
}

func to255(v float64) byte {
	return byte(math.Round(clamp01(v) * 255))
}

// denormCoord resolves a mask-geometry coordinate (center/start/end
// point) against dimension dim: normalized values scale by dim-1 and
// clamp to [0, dim-1]; absolute pixel values pass through unclamped.
func denormCoord(v, dim float64) float64 {
	maxCoord := math.Max(dim-1, 1)
	return payload.Denorm(v, dim, maxCoord)
}

// denormCoordLinear is the linear mask's own denorm, which clamps its
// normalized branch to a literal 1.0 pixel instead of dim-1 - a bug in
// the original engine kept here rather than fixed (see DESIGN.md).
func denormCoordLinear(v, dim float64) float64 {
	return payload.Denorm(v, dim, 1.0)
}

// denormLen resolves a mask-geometry length (radius, brush size, linear
// range) against baseDim: normalized values scale by baseDim with no
// upper clamp.
func denormLen(v, baseDim float64) float64 {
	if v > payload.CoordSentinel {
		return v
	}
	out := v * baseDim
	if out < 0 {
		return 0
	}
	return out
}

func rasterRadial(p *payload.RadialParams, fullW, fullH, originX, originY, w, h int) []byte {
	out := make([]byte, w*h)
	if p == nil {
		return out
	}
	wF, hF := float64(fullW), float64(fullH)
	baseDim := math.Min(wF, hF)

	cx := denormCoord(p.CenterX, wF)
	cy := denormCoord(p.CenterY, hF)
	rx := math.Max(denormLen(p.RadiusX, baseDim), 0.01)
	ry := math.Max(denormLen(p.RadiusY, baseDim), 0.01)
	feather := clamp01(p.Feather)
	innerBound := 1 - feather

	rot := p.Rotation * math.Pi / 180
	cosR, sinR := math.Cos(rot), math.Sin(rot)

	for y := 0; y < h; y++ {
		fy := float64(originY + y)
		for x := 0; x < w; x++ {
			fx := float64(originX + x)
			dx, dy := fx-cx, fy-cy

			rotDx := dx*cosR + dy*sinR
			rotDy := -dx*sinR + dy*cosR

			normX, normY := rotDx/rx, rotDy/ry
			dist := math.Sqrt(normX*normX + normY*normY)

			var intensity float64
			if dist <= innerBound {
				intensity = 1
			} else {
				intensity = 1 - (dist-innerBound)/math.Max(1-innerBound, 0.01)
			}
			out[y*w+x] = to255(intensity)
		}
	}
	return out
}

func rasterLinear(p *payload.LinearParams, fullW, fullH, originX, originY, w, h int) []byte {
	out := make([]byte, w*h)
	if p == nil {
		return out
	}
	wF, hF := float64(fullW), float64(fullH)
	baseDim := math.Min(wF, hF)

	startX := denormCoordLinear(p.StartX, wF)
	startY := denormCoordLinear(p.StartY, hF)
	endX := denormCoordLinear(p.EndX, wF)
	endY := denormCoordLinear(p.EndY, hF)
	rng := math.Max(denormLen(p.Range, baseDim), 0.01)

	lineX, lineY := endX-startX, endY-startY
	lenSq := lineX*lineX + lineY*lineY
	if lenSq < 0.01 {
		return out
	}
	invLen := 1 / math.Sqrt(lenSq)
	perpX, perpY := -lineY*invLen, lineX*invLen

	for y := 0; y < h; y++ {
		fy := float64(originY + y)
		for x := 0; x < w; x++ {
			fx := float64(originX + x)
			pvx, pvy := fx-startX, fy-startY
			distPerp := pvx*perpX + pvy*perpY
			t := distPerp / rng
			out[y*w+x] = to255(0.5 - t*0.5)
		}
	}
	return out
}

type brushTool int

const (
	toolBrush brushTool = iota
	toolEraser
)

type brushPoint struct{ x, y, pressure float64 }

type brushEvent struct {
	order      uint64
	tool       brushTool
	feather    float64
	baseRadius float64
	points     []brushPoint
}

// applyBrush rasterizes a brush sub-mask's strokes directly into target,
// in stroke-order (ties broken by slice-encounter order via a stable
// sort), unlike radial/linear/AI sub-masks which build an independent
// bitmap and then combine it in one step.
func applyBrush(target []byte, sm payload.SubMask, fullW, fullH, originX, originY, w, h int) {
	if sm.Brush == nil || len(target) != w*h {
		return
	}
	wF, hF := float64(fullW), float64(fullH)
	baseDim := math.Min(wF, hF)

	events := make([]brushEvent, 0, len(sm.Brush.Lines))
	for _, line := range sm.Brush.Lines {
		if len(line.Points) == 0 {
			continue
		}
		tool := toolBrush
		if line.Tool == "eraser" {
			tool = toolEraser
		}
		brushSizePx := denormLen(line.BrushSize, baseDim)
		baseRadius := math.Max(brushSizePx/2, 1)
		feather := clamp01(line.Feather)

		points := make([]brushPoint, len(line.Points))
		for i, p := range line.Points {
			points[i] = brushPoint{
				x:        denormCoord(p.X, wF),
				y:        denormCoord(p.Y, hF),
				pressure: clamp01(p.Pressure),
			}
		}
		events = append(events, brushEvent{
			order: line.Order, tool: tool, feather: feather, baseRadius: baseRadius, points: points,
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].order < events[j].order })

	for _, ev := range events {
		add := additiveDirection(sm.Combine, ev.tool)
		applyCircle := func(cx, cy, radius float64) {
			featheredCircle(target, w, h, originX, originY, cx, cy, radius, ev.feather, add)
		}

		if len(ev.points) == 1 {
			p := ev.points[0]
			radius := math.Max(ev.baseRadius*pressureScale(p.pressure), 1)
			applyCircle(p.x, p.y, radius)
			continue
		}

		for i := 0; i+1 < len(ev.points); i++ {
			p1, p2 := ev.points[i], ev.points[i+1]
			dx, dy := p2.x-p1.x, p2.y-p1.y
			dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.001)
			r1 := math.Max(ev.baseRadius*pressureScale(p1.pressure), 1)
			r2 := math.Max(ev.baseRadius*pressureScale(p2.pressure), 1)
			stepSize := math.Max(math.Max(r1, r2)*0.5, 0.75)
			steps := int(math.Ceil(dist / stepSize))
			if steps < 1 {
				steps = 1
			}
			for s := 0; s <= steps; s++ {
				t := float64(s) / float64(steps)
				radius := r1 + (r2-r1)*t
				applyCircle(p1.x+dx*t, p1.y+dy*t, radius)
			}
		}
	}
}

// additiveDirection resolves the (combine mode, tool) pair to whether a
// stroke brightens (true) or darkens (false) the running bitmap: a
// brush adds under additive mode and subtracts under subtractive mode;
// an eraser always does the opposite of what a brush would do.
func additiveDirection(mode payload.CombineMode, tool brushTool) bool {
	brushAdds := mode == payload.CombineAdditive
	if tool == toolEraser {
		return !brushAdds
	}
	return brushAdds
}

func pressureScale(p float64) float64 { return 0.2 + 0.8*clamp01(p) }

// featheredCircle adds or subtracts a feathered disk directly into
// target, addressed relative to (originX, originY) so the same routine
// serves both whole-image and tile-region rasterization.
func featheredCircle(target []byte, w, h, originX, originY int, cx, cy, radius, feather float64, add bool) {
	if radius <= 0.5 || w == 0 || h == 0 {
		return
	}
	inner := radius * (1 - clamp01(feather))
	outer := radius
	outerSq := outer * outer

	minX := maxInt(int(math.Floor(cx-outer)), originX)
	minY := maxInt(int(math.Floor(cy-outer)), originY)
	maxX := minInt(int(math.Ceil(cx+outer)), originX+w-1)
	maxY := minInt(int(math.Ceil(cy+outer)), originY+h-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			distSq := dx*dx + dy*dy
			if distSq > outerSq {
				continue
			}
			dist := math.Sqrt(distSq)

			var intensity float64
			switch {
			case dist <= inner:
				intensity = 1
			case outer > inner:
				intensity = 1 - clamp01((dist-inner)/(outer-inner))
			default:
				intensity = 0
			}
			if intensity <= 0 {
				continue
			}

			idx := (y-originY)*w + (x - originX)
			cur := float64(target[idx]) / 255
			var next float64
			if add {
				next = 1 - (1-cur)*(1-intensity)
			} else {
				next = cur * (1 - intensity)
			}
			target[idx] = to255(next)
		}
	}
}
