package render

import (
	"image/jpeg"
	"bytes"
	"strings"
	"testing"

	"github.com/rawforge/devcore/develop/config"
	"github.com/rawforge/devcore/internal/logging"
	"github.com/rawforge/devcore/rawio"
	"github.com/rawforge/devcore/transform"
)

// diagonalRawFixture builds a non-uniform RGBPlanar fixture (a diagonal
// gradient crossed with a checkerboard) so per-pixel effects whose result
// depends on neighboring pixels (detail blur, chromatic-aberration
// resampling) actually differ from a flat-fill fixture across a tile
// boundary, instead of trivially agreeing because every pixel is alike.
func diagonalRawFixture(w, h int) []byte {
	samples := make([]uint16, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := uint16(4096 + (x+y)*256)
			if (x/8+y/8)%2 == 0 {
				base += 8192
			}
			i := (y*w + x) * 3
			samples[i] = base
			samples[i+1] = base + 2048
			samples[i+2] = base + 4096
		}
	}
	c := &rawio.Container{
		Width: w, Height: h,
		CFA:           rawio.RGBPlanar,
		Orientation:   transform.OrientationNormal,
		BlackLevel:    0,
		WhiteLevel:    65535,
		HighlightKnee: 2.5,
		Samples:       samples,
		Meta: rawio.Metadata{
			Make: "Acme", Model: "X100", ISO: "200",
		},
	}
	return rawio.EncodeContainer(c)
}

func uniformRawFixture(w, h int, value uint16) []byte {
	samples := make([]uint16, w*h*3)
	for i := range samples {
		samples[i] = value
	}
	c := &rawio.Container{
		Width: w, Height: h,
		CFA:           rawio.RGBPlanar,
		Orientation:   transform.OrientationNormal,
		BlackLevel:    0,
		WhiteLevel:    65535,
		HighlightKnee: 2.5,
		Samples:       samples,
		Meta: rawio.Metadata{
			Make: "Acme", Model: "X100", ISO: "200",
		},
	}
	return rawio.EncodeContainer(c)
}

func TestCreateReleaseSessionLifecycle(t *testing.T) {
	raw := uniformRawFixture(16, 16, 32768)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !ReleaseSession(handle) {
		t.Fatal("ReleaseSession on a known handle should return true")
	}
	if ReleaseSession(handle) {
		t.Fatal("ReleaseSession on an already-released handle should return false")
	}
}

func TestCreateSessionRejectsEmptyBytes(t *testing.T) {
	if _, err := CreateSession(nil); err == nil {
		t.Fatal("expected an error creating a session from empty bytes")
	}
}

func TestRenderUnknownHandleIsError(t *testing.T) {
	if _, err := Render(999999, []byte("{}"), Low); err == nil {
		t.Fatal("expected an error rendering an unknown session handle")
	}
}

func TestRenderProducesValidJPEGAtEachTier(t *testing.T) {
	raw := uniformRawFixture(64, 64, 32768)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer ReleaseSession(handle)

	for _, kind := range []Kind{SuperLow, Low, Preview, Zoom} {
		out, err := Render(handle, []byte("{}"), kind)
		if err != nil {
			t.Fatalf("Render(kind=%v): %v", kind, err)
		}
		if len(out) == 0 {
			t.Fatalf("Render(kind=%v) returned empty output", kind)
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("Render(kind=%v) did not produce a valid JPEG: %v", kind, err)
		}
		maxW, maxH := kind.maxDims()
		if cfg.Width > maxW || cfg.Height > maxH {
			t.Errorf("Render(kind=%v) dims = %dx%d, want within %dx%d", kind, cfg.Width, cfg.Height, maxW, maxH)
		}
	}
}

func TestRenderExportDefaultsToFullResolution(t *testing.T) {
	raw := uniformRawFixture(32, 24, 40000)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer ReleaseSession(handle)

	out, err := RenderExport(handle, []byte("{}"), 0, false)
	if err != nil {
		t.Fatalf("RenderExport: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("RenderExport did not produce a valid JPEG: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 24 {
		t.Errorf("RenderExport dims = %dx%d, want 32x24", cfg.Width, cfg.Height)
	}
}

func TestRenderExportHonorsMaxDimension(t *testing.T) {
	raw := uniformRawFixture(200, 100, 40000)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer ReleaseSession(handle)

	out, err := RenderExport(handle, []byte("{}"), 50, false)
	if err != nil {
		t.Fatalf("RenderExport: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("RenderExport did not produce a valid JPEG: %v", err)
	}
	if cfg.Width > 50 || cfg.Height > 50 {
		t.Errorf("RenderExport dims = %dx%d, want within 50x50", cfg.Width, cfg.Height)
	}
}

func TestGetMetadataJSONRoundTrips(t *testing.T) {
	raw := uniformRawFixture(8, 8, 10000)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer ReleaseSession(handle)

	out, err := GetMetadataJSON(handle)
	if err != nil {
		t.Fatalf("GetMetadataJSON: %v", err)
	}
	if !strings.Contains(out, `"make":"Acme"`) || !strings.Contains(out, `"model":"X100"`) {
		t.Errorf("metadata JSON = %s, want make=Acme model=X100", out)
	}
}

func TestGetMetadataJSONUnknownHandleIsError(t *testing.T) {
	if _, err := GetMetadataJSON(123456789); err == nil {
		t.Fatal("expected an error for an unknown session handle")
	}
}

// TestRenderTileSeamInvariantAcrossTileSizes renders the same payload at
// two different tile sizes and requires byte-identical JPEG output. The
// adjustments exercise both the detail-blur halo (sharpness/clarity) and
// the chromatic-aberration halo (render/tile.go's caPadding), so a tile
// boundary that leaked an un-padded or mis-clamped read would show up as
// a visible seam instead of matching its larger-tile counterpart. JPEG
// encoding is deterministic for identical RGB8 input, so comparing the
// encoded bytes directly is equivalent to comparing the raw pixels.
func TestRenderTileSeamInvariantAcrossTileSizes(t *testing.T) {
	saved := currentConfig()
	defer func() { _ = Configure(saved) }()

	raw := diagonalRawFixture(160, 128)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer ReleaseSession(handle)

	adjustments := []byte(`{
		"sharpness": 60,
		"clarity": 40,
		"structure": 30,
		"chromaticAberrationRedCyan": 80,
		"chromaticAberrationBlueYellow": -60
	}`)

	render := func(tileSize int) []byte {
		cfg := config.Config{Logger: logging.Discard, TileSize: uint(tileSize)}
		if err := Configure(cfg); err != nil {
			t.Fatalf("Configure(TileSize=%d): %v", tileSize, err)
		}
		out, err := Render(handle, adjustments, Preview)
		if err != nil {
			t.Fatalf("Render(TileSize=%d): %v", tileSize, err)
		}
		return out
	}

	large := render(128)
	small := render(64)

	if !bytes.Equal(large, small) {
		t.Errorf("render output differs across tile sizes (128 vs 64): got %d and %d bytes, expected byte-identical output", len(large), len(small))
	}
}

// TestRenderMaskOpacityZeroIsIdentity renders a payload with a mask whose
// opacity is 0 but whose own adjustments would otherwise visibly change
// the image (a strong exposure boost over a radial selection covering the
// whole frame), and requires the result to match a render of the base
// adjustments with no mask at all. This is the influence<=0.001 skip
// render/tile.go's compositing loop relies on: if a zero-opacity mask's
// runtime ever leaked into the blend, this would fail before any visual
// inspection would.
func TestRenderMaskOpacityZeroIsIdentity(t *testing.T) {
	raw := diagonalRawFixture(96, 80)
	handle, err := CreateSession(raw)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer ReleaseSession(handle)

	base := []byte(`{"exposure": 0.3, "contrast": 20}`)
	withZeroMask := []byte(`{
		"exposure": 0.3,
		"contrast": 20,
		"masks": [{
			"id": "m1",
			"visible": true,
			"opacity": 0,
			"adjustments": {"exposure": 3.0},
			"subMasks": [{
				"id": "s1",
				"type": "radial",
				"visible": true,
				"mode": "additive",
				"parameters": {"centerX": 0.5, "centerY": 0.5, "radiusX": 2, "radiusY": 2, "feather": 0.1}
			}]
		}]
	}`)

	for _, kind := range []Kind{SuperLow, Low, Preview, Zoom} {
		baseOut, err := Render(handle, base, kind)
		if err != nil {
			t.Fatalf("Render(kind=%v, base): %v", kind, err)
		}
		maskedOut, err := Render(handle, withZeroMask, kind)
		if err != nil {
			t.Fatalf("Render(kind=%v, zero-opacity mask): %v", kind, err)
		}
		if !bytes.Equal(baseOut, maskedOut) {
			t.Errorf("kind=%v: zero-opacity mask changed output (base %d bytes, masked %d bytes), want identical", kind, len(baseOut), len(maskedOut))
		}
	}
}
