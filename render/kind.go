package render

import "github.com/rawforge/devcore/rawio"

// Kind selects one of the engine's five render operations: four fixed
// preview tiers sized for the editor's thumbnail/zoom views, plus the
// full-resolution export path (whose target dimension is supplied by
// the caller rather than fixed here).
type Kind int

const (
	SuperLow Kind = iota
	Low
	Preview
	Zoom
	Export
)

// maxDims returns the (width, height) a render of this Kind is scaled to
// fit within, preserving aspect ratio; (0, 0) means no cap (full
// transform-output resolution, Export's default).
func (k Kind) maxDims() (int, int) {
	switch k {
	case SuperLow:
		return 64, 64
	case Low:
		return 256, 256
	case Preview:
		return 1280, 720
	case Zoom:
		return 2304, 2304
	default:
		return 0, 0
	}
}

// quality selects the decoder effort: every preview tier, Zoom included,
// hardcodes a cheap demosaic (the original's linear_for/zoom_linear_for
// both pass fast_demosaic=true), leaving only Export to spend the extra
// cost on a precise one.
func (k Kind) quality() rawio.Quality {
	if k == Export {
		return rawio.Precise
	}
	return rawio.Fast
}

// jpegQuality mirrors the original engine's fast-preview/precise-export
// JPEG quality split: only Export gets the higher quality encode.
func (k Kind) jpegQuality() int {
	if k == Export {
		return 96
	}
	return 88
}

