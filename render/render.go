package render

import (
	"bytes"
	"image"
	stddraw "image/draw"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"

	"github.com/rawforge/devcore/develop/config"
	"github.com/rawforge/devcore/internal/xerrors"
	"github.com/rawforge/devcore/payload"
	"github.com/rawforge/devcore/rawio"
	"github.com/rawforge/devcore/transform"
)

// Render produces a JPEG for one of the four fixed preview tiers
// (SuperLow, Low, Preview, Zoom). Use RenderExport for the full/custom-
// dimension export path.
func Render(handle int64, adjustmentsJSON []byte, kind Kind) ([]byte, error) {
	return render(handle, adjustmentsJSON, kind, 0, false)
}

// RenderExport produces a JPEG at up to maxDimension on its longest
// side (0 means the transform's native output resolution). lowRAMMode
// trades quality for a smaller peak working set: the Fast demosaic every
// preview tier uses, the low-memory tile size, and JPEG quality 88.
func RenderExport(handle int64, adjustmentsJSON []byte, maxDimension int, lowRAMMode bool) ([]byte, error) {
	return render(handle, adjustmentsJSON, Export, maxDimension, lowRAMMode)
}

func render(handle int64, adjustmentsJSON []byte, kind Kind, maxDimensionOverride int, lowRAMMode bool) ([]byte, error) {
	s, err := getSession(handle)
	if err != nil {
		return nil, err
	}

	cfg := currentConfig()

	quality := kind.quality()
	if lowRAMMode {
		quality = rawio.Fast
	}
	img, orientation, err := s.decode(quality)
	if err != nil {
		return nil, err
	}

	p := payload.Parse(adjustmentsJSON)
	state := transform.New(img.Width, img.Height, p.Transform, orientation)

	cfg.Logger.Debug("rendering", "kind", int(kind), "width", img.Width, "height", img.Height)

	tileSize := cfg.EffectiveTileSize(img.Width, img.Height)
	if lowRAMMode {
		tileSize = clampInt(config.LowMemoryTileSize, config.MinTileSize, maxInt(img.Width, img.Height))
	}

	maskKey := string(payload.MasksRawJSON(adjustmentsJSON))
	rgb, width, height, err := renderToRGB8(img, state, p, payload.DefaultScales, tileSize, s, kind, maskKey)
	if err != nil {
		return nil, err
	}

	targetW, targetH := kind.maxDims()
	if maxDimensionOverride > 0 {
		targetW, targetH = maxDimensionOverride, maxDimensionOverride
	}
	if targetW > 0 && targetH > 0 && (width > targetW || height > targetH) {
		rgb, width, height = downscaleToFit(rgb, width, height, targetW, targetH)
	}

	jpegQuality := kind.jpegQuality()
	if lowRAMMode {
		jpegQuality = 88
	}
	return encodeJPEG(rgb, width, height, jpegQuality)
}

// downscaleToFit resizes an interleaved RGB8 buffer to fit within
// (maxW, maxH), preserving aspect ratio, using a bilinear filter. Does
// nothing if the image already fits.
func downscaleToFit(rgb []byte, w, h, maxW, maxH int) ([]byte, int, int) {
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1 {
		return rgb, w, h
	}
	tw := maxInt(int(math.Round(float64(w)*scale)), 1)
	th := maxInt(int(math.Round(float64(h)*scale)), 1)

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcOff := y * src.Stride
		rgbOff := y * w * 3
		for x := 0; x < w; x++ {
			i := srcOff + x*4
			j := rgbOff + x*3
			src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = rgb[j], rgb[j+1], rgb[j+2], 255
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), stddraw.Src, nil)

	out := make([]byte, tw*th*3)
	for y := 0; y < th; y++ {
		dstOff := y * dst.Stride
		outOff := y * tw * 3
		for x := 0; x < tw; x++ {
			i := dstOff + x*4
			j := outOff + x*3
			out[j], out[j+1], out[j+2] = dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]
		}
	}
	return out, tw, th
}

// JPEGEncoder turns a rendered RGBA image into encoded bytes at the given
// quality (0-100). The final encode is kept behind this interface, not
// called inline, so a host can substitute a different encoder (a faster
// one, or one with embedded EXIF/ICC writing) without touching the
// tiled-render path above it.
type JPEGEncoder interface {
	Encode(img *image.RGBA, quality int) ([]byte, error)
}

// stdJPEGEncoder is the default JPEGEncoder, backed by the standard
// library's encoder.
type stdJPEGEncoder struct{}

func (stdJPEGEncoder) Encode(img *image.RGBA, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, xerrors.Wrap(xerrors.Internal, "encoding JPEG output", err)
	}
	return buf.Bytes(), nil
}

// activeEncoder is the JPEGEncoder every render call uses; Configure does
// not currently expose swapping it, since no host has needed anything but
// the standard encoder, but the seam exists at the type level per the
// external-interfaces boundary.
var activeEncoder JPEGEncoder = stdJPEGEncoder{}

func encodeJPEG(rgb []byte, w, h, quality int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dstOff := y * img.Stride
		rgbOff := y * w * 3
		for x := 0; x < w; x++ {
			i := dstOff + x*4
			j := rgbOff + x*3
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = rgb[j], rgb[j+1], rgb[j+2], 255
		}
	}
	return activeEncoder.Encode(img, quality)
}
