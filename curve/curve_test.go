package curve

import (
	"math"
	"testing"

	"github.com/rawforge/devcore/payload"
)

func TestIdentityCurveLeavesValuesUnchanged(t *testing.T) {
	r := FromPoints([]payload.CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}})
	if !r.IsDefault() {
		t.Fatalf("expected identity curve to report IsDefault")
	}
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		got := r.Eval(v)
		if math.Abs(got-v) > 1e-6 {
			t.Errorf("Eval(%v) = %v, want %v", v, got, v)
		}
	}
}

func TestMonotoneCurveProducesNonDecreasingOutput(t *testing.T) {
	r := FromPoints([]payload.CurvePoint{{X: 0, Y: 0}, {X: 64, Y: 100}, {X: 192, Y: 180}, {X: 255, Y: 255}})
	prev := -1.0
	for i := 0; i <= 20; i++ {
		v := float64(i) / 20
		got := r.Eval(v)
		if got < prev-1e-9 {
			t.Fatalf("Eval not monotone at step %d: got %v after %v", i, got, prev)
		}
		prev = got
	}
}

func TestFewerThanTwoPointsFallsBackToIdentity(t *testing.T) {
	r := FromPoints([]payload.CurvePoint{{X: 10, Y: 10}})
	if !r.IsDefault() {
		t.Fatalf("single-point curve should fall back to identity default")
	}
}

func TestSetApplyAllIdentityWhenAllDefault(t *testing.T) {
	s := FromPayload(payload.Curves{
		Luma:  []payload.CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}},
		Red:   []payload.CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}},
		Green: []payload.CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}},
		Blue:  []payload.CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}},
	})
	if !s.IsDefault() {
		t.Fatalf("expected fully-identity curve set to be default")
	}
	in := [3]float64{0.2, 0.5, 0.8}
	out := s.ApplyAll(in)
	for i := range in {
		if math.Abs(in[i]-out[i]) > 1e-6 {
			t.Errorf("channel %d changed: %v -> %v", i, in[i], out[i])
		}
	}
}
