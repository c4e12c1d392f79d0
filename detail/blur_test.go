package detail

import "testing"

type solidSource struct {
	w, h int
	v    [3]float64
}

func (s solidSource) At(x, y int) [3]float64 { return s.v }
func (s solidSource) Bounds() (int, int)     { return s.w, s.h }

func TestBoxBlurConstantImageUnchanged(t *testing.T) {
	src := make([]float64, 20*20)
	for i := range src {
		src[i] = 0.5
	}
	out := BoxBlur(src, 20, 20, StructureRadius)
	for i, v := range out {
		if v != 0.5 {
			t.Fatalf("index %d: got %v, want 0.5 (constant field should be unchanged by blur)", i, v)
			break
		}
	}
}

func TestBoxBlurZeroRadiusIsIdentity(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	out := BoxBlur(src, 2, 2, 0)
	for i := range src {
		if out[i] != src[i] {
			t.Errorf("index %d: got %v, want %v", i, out[i], src[i])
		}
	}
}

func TestBuildRegionNilWhenNoConsumerActive(t *testing.T) {
	src := solidSource{w: 10, h: 10, v: [3]float64{0.2, 0.2, 0.2}}
	if l := BuildRegion(src, 10, 10, 0, 0, 10, 10, Needs{}); l != nil {
		t.Fatalf("expected nil Luma when no consumer is active, got %+v", l)
	}
}

func TestBuildRegionInnerMatchesWholeImageBlur(t *testing.T) {
	w, h := 40, 40
	src := solidSource{w: w, h: h, v: [3]float64{0.4, 0.3, 0.2}}
	whole := BuildWhole(src, Needs{Structure: true})
	region := BuildRegion(src, w, h, 10, 10, 10, 10, Needs{Structure: true})

	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			wi, ok := whole.Index(x, y)
			if !ok {
				t.Fatalf("whole.Index(%d,%d) missing", x, y)
			}
			ri, ok := region.Index(x, y)
			if !ok {
				t.Fatalf("region.Index(%d,%d) missing", x, y)
			}
			if whole.Structure[wi] != region.Structure[ri] {
				t.Errorf("(%d,%d): whole=%v region=%v", x, y, whole.Structure[wi], region.Structure[ri])
			}
		}
	}
}

func TestMaxActiveRadius(t *testing.T) {
	if got := MaxActiveRadius(Needs{Sharpness: true}); got != SharpnessRadius {
		t.Errorf("got %d, want %d", got, SharpnessRadius)
	}
	if got := MaxActiveRadius(Needs{Structure: true, Clarity: true}); got != StructureRadius {
		t.Errorf("got %d, want %d", got, StructureRadius)
	}
	if got := MaxActiveRadius(Needs{}); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
