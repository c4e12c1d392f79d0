package payload

import "testing"

func TestParseMalformedJSONYieldsDefault(t *testing.T) {
	p := Parse([]byte("{not json"))
	want := Default()
	if p.Adjustments.ToneMapper != want.Adjustments.ToneMapper {
		t.Fatalf("malformed JSON should yield Default(), got tonemapper %v", p.Adjustments.ToneMapper)
	}
	if len(p.Masks) != 0 {
		t.Errorf("Default payload should have no masks, got %d", len(p.Masks))
	}
}

func TestParseUnknownFieldsIgnored(t *testing.T) {
	p := Parse([]byte(`{"exposure": 0.4, "bogusField": {"x": 1}}`))
	if p.Adjustments.Exposure != 0.4 {
		t.Errorf("Exposure = %v, want 0.4", p.Adjustments.Exposure)
	}
}

func TestParseClassifiesNewAndLegacyMasks(t *testing.T) {
	doc := `{
		"masks": [
			{"id": "m1", "visible": true, "subMasks": [{"id": "s1", "type": "radial", "visible": true, "mode": "additive", "parameters": {"centerX": 0.5, "centerY": 0.5, "radiusX": 0.3, "radiusY": 0.3, "feather": 0.2}}]},
			{"enabled": true, "exposure": 0.5},
			{"garbage": 1}
		]
	}`
	p := Parse([]byte(doc))
	if len(p.Masks) != 2 {
		t.Fatalf("len(Masks) = %d, want 2 (garbage node dropped)", len(p.Masks))
	}
	if p.Masks[0].Legacy {
		t.Errorf("first mask should be the new-format mask")
	}
	if len(p.Masks[0].SubMasks) != 1 {
		t.Errorf("expected 1 sub-mask, got %d", len(p.Masks[0].SubMasks))
	}
	if !p.Masks[1].Legacy || p.Masks[1].Adjustments.Exposure != 0.5 {
		t.Errorf("second mask should be legacy with exposure 0.5, got %+v", p.Masks[1])
	}
}

func TestMaskOpacityDefaultsTo100(t *testing.T) {
	doc := `{"masks": [{"id": "m1", "subMasks": []}]}`
	p := Parse([]byte(doc))
	if len(p.Masks) != 1 {
		t.Fatalf("expected 1 mask")
	}
	if p.Masks[0].Opacity != 1.0 {
		t.Errorf("Opacity = %v, want 1.0 (default 100/100)", p.Masks[0].Opacity)
	}
}

func TestNormalizeIsPureAndScalesFields(t *testing.T) {
	a := Adjustments{Exposure: 0.8, Contrast: 100, Dehaze: 750}
	n := a.Normalize(DefaultScales)
	if n.Exposure != 1.0 {
		t.Errorf("Exposure normalized = %v, want 1.0", n.Exposure)
	}
	if n.Contrast != 1.0 {
		t.Errorf("Contrast normalized = %v, want 1.0", n.Contrast)
	}
	if n.Dehaze != 1.0 {
		t.Errorf("Dehaze normalized = %v, want 1.0", n.Dehaze)
	}
	// Original untouched (pure transform).
	if a.Exposure != 0.8 {
		t.Errorf("Normalize mutated receiver")
	}
}

func TestDenormSentinel(t *testing.T) {
	if got := Denorm(0.5, 101, 100); got != 50 {
		t.Errorf("Denorm(0.5, 101, 100) = %v, want 50", got)
	}
	if got := Denorm(75, 101, 100); got != 75 {
		t.Errorf("Denorm(75, 101, 100) = %v, want 75 (already absolute)", got)
	}
	if got := Denorm(1.2, 101, 100); got != 100 {
		t.Errorf("Denorm(1.2, 101, 100) = %v, want 100 (clamped)", got)
	}
}
