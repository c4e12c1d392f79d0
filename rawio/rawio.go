// Package rawio defines the boundary between the develop engine and the
// RAW decoder that supplies it with pixel data: a Decoder accepts raw
// sensor bytes and returns a 16-bit linear RGB image plus the EXIF base
// orientation and metadata the rest of the pipeline (transform, render)
// never has to think about again. Decode is the one stage spec.md marks
// as externally-supplied and pluggable; SoftwareDecoder is the reference
// implementation exercised by this engine's own tests and by hosts that
// have no format-specific decoder of their own to plug in instead.
package rawio

import (
	"github.com/rawforge/devcore/internal/xerrors"
	"github.com/rawforge/devcore/transform"
)

// Image is a decoded 16-bit-per-channel linear RGB buffer, already
// demosaiced, black/white-level normalized, and cropped to the active
// area. It implements transform.Source directly so it can be sampled by
// the virtual transform without an adapter.
type Image struct {
	Width, Height int
	// Pix holds Width*Height RGB16 triples in row-major order.
	Pix []uint16
}

// NewImage allocates a black Image of the given dimensions.
func NewImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]uint16, w*h*3)}
}

// At implements transform.Source.
func (img *Image) At(x, y int) [3]uint16 {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return [3]uint16{}
	}
	i := (y*img.Width + x) * 3
	return [3]uint16{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

// Bounds implements transform.Source.
func (img *Image) Bounds() (int, int) { return img.Width, img.Height }

// Set writes a single RGB16 pixel; used by decoders while developing.
func (img *Image) Set(x, y int, c [3]uint16) {
	i := (y*img.Width + x) * 3
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c[0], c[1], c[2]
}

var _ transform.Source = (*Image)(nil)

// Metadata is the subset of EXIF fields the host's Metadata JSON contract
// surfaces. Absent values are the empty string, matching the original
// decoder's own "unwrap_or_default" behaviour rather than a null/omitted
// field.
type Metadata struct {
	Make             string
	Model            string
	Lens             string
	ISO              string
	ExposureTime     string
	FNumber          string
	FocalLength      string
	DateTimeOriginal string
}

// Quality selects the demosaic/development effort a Decoder spends: Fast
// develops in larger strips, Precise in smaller ones for export-grade
// renders. SoftwareDecoder uses the same bilinear interpolation for
// both. Mirrors the
// fast_demosaic/precise split the original decoder makes per render kind.
type Quality int

const (
	Fast Quality = iota
	Precise
)

// Decoder turns raw sensor bytes into a linear RGB Image, the EXIF base
// orientation needed by package transform, and the metadata needed by
// the host's metadata-JSON operation. Implementations must never retain
// a reference to raw after Decode returns.
type Decoder interface {
	Decode(raw []byte, q Quality) (*Image, transform.Orientation, error)
	Metadata(raw []byte) (Metadata, error)
}

func decodeError(msg string, err error) error {
	return xerrors.Wrap(xerrors.Decode, msg, err)
}
