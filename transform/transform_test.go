package transform

import (
	"math"
	"testing"

	"github.com/rawforge/devcore/payload"
)

func TestOutputDimsIdentity(t *testing.T) {
	s := New(800, 600, payload.Transform{}, OrientationNormal)
	w, h := s.OutputDims()
	if w != 800 || h != 600 {
		t.Fatalf("got %dx%d, want 800x600", w, h)
	}
}

func TestOutputDimsSwappedOnQuarterTurn(t *testing.T) {
	s := New(800, 600, payload.Transform{OrientationSteps: 1}, OrientationNormal)
	w, h := s.OutputDims()
	if w != 600 || h != 800 {
		t.Fatalf("got %dx%d, want 600x800 after a 90 degree turn", w, h)
	}
}

func TestMapCoordIdentityRoundTrips(t *testing.T) {
	s := New(100, 50, payload.Transform{}, OrientationNormal)
	sx, sy, ok := s.MapCoord(10, 20)
	if !ok {
		t.Fatalf("expected identity transform to stay in bounds")
	}
	if math.Abs(sx-10) > 1e-6 || math.Abs(sy-20) > 1e-6 {
		t.Fatalf("got (%v,%v), want (10,20)", sx, sy)
	}
}

func TestMapCoordOutOfBoundsReportsNotOK(t *testing.T) {
	s := New(10, 10, payload.Transform{Crop: &payload.Rect{X: 0, Y: 0, Width: 5, Height: 5}}, OrientationNormal)
	// Output dims are now 5x5. An in-crop coordinate maps inside the
	// source; one that lands left of/above the source reports not OK.
	_, _, ok := s.MapCoord(4, 4)
	if !ok {
		t.Fatalf("expected in-bounds crop coordinate to map successfully")
	}
	if _, _, ok := s.MapCoord(-1, -1); ok {
		t.Fatalf("expected coordinate outside the source to report not OK")
	}
}

// TestOrientationComposition checks that combining a base EXIF
// orientation with an equal-and-opposite user orientation steps count
// recombines to the identity quarter-turn (the total-steps field wraps
// mod 4 back to zero when base and user each contribute two 90 degree
// turns summing to a multiple of 4).
func TestOrientationComposition(t *testing.T) {
	s := New(800, 600, payload.Transform{OrientationSteps: 2}, OrientationRotate180)
	w, h := s.OutputDims()
	if w != 800 || h != 600 {
		t.Fatalf("got %dx%d, want 800x600 (180+180 should cancel out)", w, h)
	}
	sx, sy, ok := s.MapCoord(10, 20)
	if !ok || math.Abs(sx-10) > 1e-6 || math.Abs(sy-20) > 1e-6 {
		t.Fatalf("composed 360 degree turn should be identity, got (%v,%v,%v)", sx, sy, ok)
	}
}

func TestMapCoordHorizontalFlip(t *testing.T) {
	s := New(10, 10, payload.Transform{HorizontalFlip: true}, OrientationNormal)
	sx, sy, ok := s.MapCoord(0, 5)
	if !ok {
		t.Fatalf("expected in-bounds mapping")
	}
	if math.Abs(sx-9) > 1e-6 || math.Abs(sy-5) > 1e-6 {
		t.Fatalf("got (%v,%v), want (9,5) for a horizontal flip of output x=0", sx, sy)
	}
}

func TestMapCoordRotate90Quadrant(t *testing.T) {
	s := New(100, 50, payload.Transform{OrientationSteps: 1}, OrientationNormal)
	w, h := s.OutputDims()
	if w != 50 || h != 100 {
		t.Fatalf("got %dx%d, want 50x100", w, h)
	}
	sx, sy, ok := s.MapCoord(0, 0)
	if !ok {
		t.Fatalf("expected in-bounds mapping")
	}
	if sx < 0 || sx >= 100 || sy < 0 || sy >= 50 {
		t.Fatalf("mapped coordinate (%v,%v) outside source bounds", sx, sy)
	}
}
