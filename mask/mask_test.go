package mask

import (
	"testing"

	"github.com/rawforge/devcore/payload"
)

func radialDef(invert bool) Def {
	return Def{
		OpacityFactor: 1,
		Invert:        invert,
		SubMasks: []payload.SubMask{
			{
				Variant: payload.VariantRadial,
				Visible: true,
				Combine: payload.CombineAdditive,
				Radial: &payload.RadialParams{
					CenterX: 0.5, CenterY: 0.5, RadiusX: 0.2, RadiusY: 0.2, Feather: 0,
				},
			},
		},
	}
}

func TestBuildWholeCenterSelected(t *testing.T) {
	defs := []Def{radialDef(false)}
	runtimes := BuildWhole(defs, 100, 100)
	if len(runtimes) != 1 {
		t.Fatalf("expected 1 runtime, got %d", len(runtimes))
	}
	center := runtimes[0].SelectionAt(50, 50)
	if center < 0.9 {
		t.Errorf("expected near-full selection at the mask center, got %v", center)
	}
	corner := runtimes[0].SelectionAt(0, 0)
	if corner > 0.1 {
		t.Errorf("expected near-zero selection far from the mask center, got %v", corner)
	}
}

func TestInvertFlipsSelection(t *testing.T) {
	defs := []Def{radialDef(true)}
	runtimes := BuildWhole(defs, 100, 100)
	center := runtimes[0].SelectionAt(50, 50)
	if center > 0.1 {
		t.Errorf("expected near-zero selection at center under invert, got %v", center)
	}
}

func TestLegacyMaskSelectsEverything(t *testing.T) {
	defs := []Def{{OpacityFactor: 1}}
	runtimes := BuildWhole(defs, 10, 10)
	if runtimes[0].Bitmap != nil {
		t.Fatalf("legacy mask (no sub-masks) should have a nil bitmap")
	}
	if sel := runtimes[0].SelectionAt(3, 4); sel != 1 {
		t.Errorf("legacy mask selection should be 1 everywhere, got %v", sel)
	}
}

func TestBuildRegionMatchesWholeImageInsideTile(t *testing.T) {
	defs := []Def{radialDef(false)}
	whole := BuildWhole(defs, 64, 64)
	region := BuildRegion(defs, 64, 64, 20, 20, 16, 16, nil)
	for y := 20; y < 36; y++ {
		for x := 20; x < 36; x++ {
			if whole[0].SelectionAt(x, y) != region[0].SelectionAt(x, y) {
				t.Fatalf("(%d,%d): whole=%v region=%v", x, y,
					whole[0].SelectionAt(x, y), region[0].SelectionAt(x, y))
			}
		}
	}
}

func TestBrushStrokeTieBreakIsStableByEncounterOrder(t *testing.T) {
	sub := payload.SubMask{
		Variant: payload.VariantBrush,
		Visible: true,
		Combine: payload.CombineAdditive,
		Brush: &payload.BrushParams{Lines: []payload.BrushLine{
			{Tool: "brush", BrushSize: 20, Feather: 0, Order: 1, Points: []payload.BrushPoint{{X: 5, Y: 5, Pressure: 1}}},
			{Tool: "eraser", BrushSize: 20, Feather: 0, Order: 1, Points: []payload.BrushPoint{{X: 5, Y: 5, Pressure: 1}}},
		}},
	}
	target := make([]byte, 10*10)
	applyBrush(target, sub, 10, 10, 0, 0, 10, 10)
	if target[5*10+5] != 0 {
		t.Errorf("expected the later same-order eraser stroke to win at the stroke center, got %v", target[5*10+5])
	}
}

func TestBoxBlurU8ConstantUnchanged(t *testing.T) {
	src := make([]byte, 20*20)
	for i := range src {
		src[i] = 128
	}
	out := boxBlurU8(src, 20, 20, 5)
	for i, v := range out {
		if v != 128 {
			t.Fatalf("index %d: got %v, want 128", i, v)
		}
	}
}
