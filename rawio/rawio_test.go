package rawio

import (
	"testing"

	"github.com/rawforge/devcore/transform"
)

func uniformPlanarContainer(w, h int, value uint16) *Container {
	samples := make([]uint16, w*h*3)
	for i := range samples {
		samples[i] = value
	}
	return &Container{
		Width: w, Height: h,
		CFA:           RGBPlanar,
		Orientation:   transform.OrientationNormal,
		BlackLevel:    0,
		WhiteLevel:    65535,
		HighlightKnee: defaultHighlightKnee,
		Samples:       samples,
	}
}

func TestContainerRoundTrip(t *testing.T) {
	c := uniformPlanarContainer(4, 3, 32768)
	c.Meta = Metadata{Make: "Acme", Model: "X100", ISO: "400"}
	encoded := EncodeContainer(c)

	got, err := ParseContainer(encoded)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	if got.Width != c.Width || got.Height != c.Height {
		t.Fatalf("dims = %dx%d, want %dx%d", got.Width, got.Height, c.Width, c.Height)
	}
	if got.Meta != c.Meta {
		t.Errorf("metadata = %+v, want %+v", got.Meta, c.Meta)
	}
	for i, s := range got.Samples {
		if s != c.Samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, s, c.Samples[i])
		}
	}
}

func TestParseContainerRejectsBadMagic(t *testing.T) {
	bad := []byte("NOPE-this-is-not-a-container-at-all")
	if _, err := ParseContainer(bad); err == nil {
		t.Fatal("expected an error for bad magic, got nil")
	}
}

func TestParseContainerRejectsZeroDimension(t *testing.T) {
	c := uniformPlanarContainer(0, 4, 100)
	encoded := EncodeContainer(c)
	if _, err := ParseContainer(encoded); err == nil {
		t.Fatal("expected an error for zero width, got nil")
	}
}

// TestDecodeIdentityFixture exercises the "synthetic RAW filled with
// linear value 0.5, Normal orientation" fixture spec.md's identity-pass
// test is built on: every decoded pixel should be exactly mid-gray.
func TestDecodeIdentityFixture(t *testing.T) {
	c := uniformPlanarContainer(8, 8, 32768) // 32768/65535 ~= 0.5
	raw := EncodeContainer(c)

	var dec SoftwareDecoder
	img, orientation, err := dec.Decode(raw, Fast)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if orientation != transform.OrientationNormal {
		t.Errorf("orientation = %v, want Normal", orientation)
	}
	if w, h := img.Bounds(); w != 8 || h != 8 {
		t.Fatalf("bounds = %dx%d, want 8x8", w, h)
	}
	center := img.At(4, 4)
	for i, ch := range center {
		got := float64(ch) / 65535
		if got < 0.49 || got > 0.51 {
			t.Errorf("channel %d = %v, want ~0.5", i, got)
		}
	}
}

// TestDecodeBrushMaskFixture exercises the "256x256 RAW value 0.2"
// fixture used by the brush-mask test.
func TestDecodeBrushMaskFixture(t *testing.T) {
	value := uint16(0.2 * 65535)
	c := uniformPlanarContainer(256, 256, value)
	raw := EncodeContainer(c)

	var dec SoftwareDecoder
	img, _, err := dec.Decode(raw, Fast)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	corner := img.At(0, 0)
	for i, ch := range corner {
		got := float64(ch) / 65535
		if got < 0.19 || got > 0.21 {
			t.Errorf("channel %d = %v, want ~0.2", i, got)
		}
	}
}

func TestDecodeMosaicProducesFullRGBEverywhere(t *testing.T) {
	w, h := 16, 16
	samples := make([]uint16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			samples[y*w+x] = 40000
		}
	}
	c := &Container{
		Width: w, Height: h,
		CFA: CFARGGB, Orientation: transform.OrientationRotate90,
		BlackLevel: 0, WhiteLevel: 65535, HighlightKnee: defaultHighlightKnee,
		Samples: samples,
	}
	raw := EncodeContainer(c)

	var dec SoftwareDecoder
	img, orientation, err := dec.Decode(raw, Precise)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if orientation != transform.OrientationRotate90 {
		t.Errorf("orientation = %v, want Rotate90", orientation)
	}
	// A uniform mosaic should demosaic to a uniform flat-gray image
	// everywhere, including strip and frame edges.
	ref := img.At(0, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := img.At(x, y)
			for i := range got {
				diff := int(got[i]) - int(ref[i])
				if diff < -50 || diff > 50 {
					t.Fatalf("pixel (%d,%d) channel %d = %d, want ~%d", x, y, i, got[i], ref[i])
				}
			}
		}
	}
}

func TestDecodeAppliesHighlightCompression(t *testing.T) {
	// A red-heavy triple well above white level should be pulled back
	// toward the other channels rather than clipped to pure red.
	c := &Container{
		Width: 1, Height: 1,
		CFA: RGBPlanar, Orientation: transform.OrientationNormal,
		BlackLevel: 0, WhiteLevel: 40000, HighlightKnee: 2.5,
		Samples: []uint16{65535, 20000, 20000},
	}
	raw := EncodeContainer(c)

	var dec SoftwareDecoder
	img, _, err := dec.Decode(raw, Fast)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	px := img.At(0, 0)
	if px[0] <= px[1] {
		t.Errorf("red channel should stay brightest after compression, got %v", px)
	}
	if px[1] == 0 || px[2] == 0 {
		t.Errorf("compression should not crush the other channels to zero, got %v", px)
	}
}

func TestMetadataMissingFieldsAreEmpty(t *testing.T) {
	c := uniformPlanarContainer(2, 2, 1000)
	raw := EncodeContainer(c)

	var dec SoftwareDecoder
	meta, err := dec.Metadata(raw)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Make != "" || meta.ISO != "" || meta.DateTimeOriginal != "" {
		t.Errorf("unset metadata fields should be empty strings, got %+v", meta)
	}
}

func TestCompressHighlightsNoOpBelowWhite(t *testing.T) {
	r, g, b := compressHighlights(0.5, 0.3, 0.1, 2.5)
	if r != 0.5 || g != 0.3 || b != 0.1 {
		t.Errorf("compressHighlights below 1.0 should be a no-op, got (%v,%v,%v)", r, g, b)
	}
}
