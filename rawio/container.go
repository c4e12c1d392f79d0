package rawio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rawforge/devcore/transform"
)

// CFAPattern identifies the Bayer tile layout of a container's mosaic, or
// RGBPlanar when the sample data is already one RGB16 triple per pixel
// (the shape a synthetic test fixture or a pre-demosaiced source uses).
type CFAPattern uint8

const (
	CFARGGB CFAPattern = iota
	CFABGGR
	CFAGRBG
	CFAGBRG
	RGBPlanar
)

// containerMagic identifies the sensor-container format SoftwareDecoder
// understands: width/height/levels/orientation/metadata followed by a
// flat mosaic or RGB16 sample array. It exists because spec.md marks the
// proprietary-RAW-container parser as an external collaborator; this is
// the reference container SoftwareDecoder and its test fixtures speak,
// not a stand-in for any camera's native format.
var containerMagic = [4]byte{'R', 'F', 'R', 'W'}

const containerVersion = 1

// header is the fixed-size portion of a container, immediately following
// the magic/version bytes.
type header struct {
	Width, Height      uint32
	CFA                CFAPattern
	Orientation        uint8
	BlackLevel         float32
	WhiteLevel         float32
	HighlightKnee      float32
}

// Container is a parsed, in-memory view of a SoftwareDecoder-compatible
// RAW byte stream: the sensor header plus its mosaic/RGB samples and
// EXIF metadata strings.
type Container struct {
	Width, Height int
	CFA           CFAPattern
	Orientation   transform.Orientation
	BlackLevel    float64
	WhiteLevel    float64
	HighlightKnee float64
	Samples       []uint16 // len = Width*Height for mosaic, Width*Height*3 for RGBPlanar
	Meta          Metadata
}

func orientationFromWire(v uint8) transform.Orientation {
	if v > uint8(transform.OrientationUnknown) {
		return transform.OrientationUnknown
	}
	return transform.Orientation(v)
}

func readString(b []byte, off int) (string, int, error) {
	if off+2 > len(b) {
		return "", off, fmt.Errorf("truncated string length at offset %d", off)
	}
	n := int(binary.LittleEndian.Uint16(b[off:]))
	off += 2
	if off+n > len(b) {
		return "", off, fmt.Errorf("truncated string body at offset %d (want %d bytes)", off, n)
	}
	return string(b[off : off+n]), off + n, nil
}

func writeString(b []byte, s string) []byte {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
	b = append(b, lenBuf[:]...)
	return append(b, s...)
}

// ParseContainer decodes raw into a Container, validating the magic,
// version, and that the sample array matches the declared dimensions and
// pixel shape.
func ParseContainer(raw []byte) (*Container, error) {
	if len(raw) < 4+1+4+4+1+1+4+4+4 {
		return nil, fmt.Errorf("container too short: %d bytes", len(raw))
	}
	if raw[0] != containerMagic[0] || raw[1] != containerMagic[1] || raw[2] != containerMagic[2] || raw[3] != containerMagic[3] {
		return nil, fmt.Errorf("bad magic %q, want %q", raw[:4], containerMagic[:])
	}
	off := 4
	version := raw[off]
	off++
	if version != containerVersion {
		return nil, fmt.Errorf("unsupported container version %d", version)
	}

	var h header
	h.Width = binary.LittleEndian.Uint32(raw[off:])
	off += 4
	h.Height = binary.LittleEndian.Uint32(raw[off:])
	off += 4
	h.CFA = CFAPattern(raw[off])
	off++
	h.Orientation = raw[off]
	off++
	h.BlackLevel = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
	off += 4
	h.WhiteLevel = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
	off += 4
	h.HighlightKnee = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
	off += 4

	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("zero dimension: %dx%d", h.Width, h.Height)
	}

	var meta Metadata
	var err error
	for _, dst := range []*string{&meta.Make, &meta.Model, &meta.Lens, &meta.ISO,
		&meta.ExposureTime, &meta.FNumber, &meta.FocalLength, &meta.DateTimeOriginal} {
		*dst, off, err = readString(raw, off)
		if err != nil {
			return nil, err
		}
	}

	samplesPerPixel := 1
	if h.CFA == RGBPlanar {
		samplesPerPixel = 3
	}
	wantSamples := int(h.Width) * int(h.Height) * samplesPerPixel
	wantBytes := wantSamples * 2
	if off+wantBytes > len(raw) {
		return nil, fmt.Errorf("truncated sample data: have %d bytes, want %d", len(raw)-off, wantBytes)
	}
	samples := make([]uint16, wantSamples)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(raw[off+i*2:])
	}

	return &Container{
		Width:         int(h.Width),
		Height:        int(h.Height),
		CFA:           h.CFA,
		Orientation:   orientationFromWire(h.Orientation),
		BlackLevel:    float64(h.BlackLevel),
		WhiteLevel:    float64(h.WhiteLevel),
		HighlightKnee: float64(h.HighlightKnee),
		Samples:       samples,
		Meta:          meta,
	}, nil
}

// EncodeContainer serializes c into a SoftwareDecoder-compatible byte
// stream. Used by tests to build fixtures; not required for decoding.
func EncodeContainer(c *Container) []byte {
	buf := make([]byte, 0, 64+len(c.Samples)*2)
	buf = append(buf, containerMagic[:]...)
	buf = append(buf, containerVersion)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(c.Width))
	buf = append(buf, u32[:]...)
	binary.LittleEndian.PutUint32(u32[:], uint32(c.Height))
	buf = append(buf, u32[:]...)
	buf = append(buf, byte(c.CFA))
	buf = append(buf, byte(c.Orientation))
	binary.LittleEndian.PutUint32(u32[:], math.Float32bits(float32(c.BlackLevel)))
	buf = append(buf, u32[:]...)
	binary.LittleEndian.PutUint32(u32[:], math.Float32bits(float32(c.WhiteLevel)))
	buf = append(buf, u32[:]...)
	binary.LittleEndian.PutUint32(u32[:], math.Float32bits(float32(c.HighlightKnee)))
	buf = append(buf, u32[:]...)

	for _, s := range []string{c.Meta.Make, c.Meta.Model, c.Meta.Lens, c.Meta.ISO,
		c.Meta.ExposureTime, c.Meta.FNumber, c.Meta.FocalLength, c.Meta.DateTimeOriginal} {
		buf = writeString(buf, s)
	}

	var u16 [2]byte
	for _, s := range c.Samples {
		binary.LittleEndian.PutUint16(u16[:], s)
		buf = append(buf, u16[:]...)
	}
	return buf
}
