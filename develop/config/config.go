/*
Package config holds engine-wide tunables for the development pipeline:
tile size, worker concurrency, memory mode, and logging verbosity. It
follows the revid config package's pattern of a flat struct validated
and defaulted field-by-field, with each field checked inline in
Validate and Update.
*/
package config

import (
	"strconv"

	"github.com/rawforge/devcore/internal/logging"
)

// Memory modes select the default tile size Validate fills in; they do
// not change the source image representation.
const (
	MemoryNormal = iota
	MemoryLow
)

// Default tunables, used by Validate to repair zero/invalid fields.
const (
	DefaultTileSize       = 256
	LowMemoryTileSize     = 128
	MinTileSize           = 64
	DefaultWorkers        = 0 // 0 means GOMAXPROCS.
	DefaultPreciseQuality = 96
	DefaultFastQuality    = 88
	DefaultHighlightKnee  = 2.5
)

// Config carries the knobs that are not part of a render's adjustments
// payload: they govern how the engine executes, not what it computes.
type Config struct {
	// Logger receives all engine log output. Required; Validate defaults
	// it to logging.Discard if nil.
	Logger logging.Logger

	// LogLevel is the minimum severity passed to Logger.
	LogLevel int8

	// TileSize is the edge length of a renderer tile in pixels, clamped
	// to [MinTileSize, max(width,height)] at render time.
	TileSize uint

	// MemoryMode selects the default tile size (LowMemoryTileSize for
	// MemoryLow) used on constrained hosts.
	MemoryMode int

	// Workers bounds the number of goroutines used for row-parallel work.
	// 0 means GOMAXPROCS is left as it is.
	Workers int

	// HighlightKnee is a soft-knee compression factor for values above
	// the white level. Validate defaults it; the reference RAW decoder
	// does not read it and takes the knee from each container instead.
	HighlightKnee float32
}

// Validate repairs zero-valued or out-of-range fields to their defaults,
// logging each correction via c.Logger.
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = logging.Discard
	}
	if c.TileSize == 0 {
		def := uint(DefaultTileSize)
		if c.MemoryMode == MemoryLow {
			def = LowMemoryTileSize
		}
		c.LogInvalidField("TileSize", def)
		c.TileSize = def
	}
	if c.TileSize < MinTileSize {
		c.LogInvalidField("TileSize", uint(MinTileSize))
		c.TileSize = MinTileSize
	}
	if c.HighlightKnee <= 1.0 {
		c.LogInvalidField("HighlightKnee", float32(DefaultHighlightKnee))
		c.HighlightKnee = DefaultHighlightKnee
	}
	return nil
}

// Update applies string-encoded overrides, as might arrive from a CLI flag
// map or an external configuration source.
func (c *Config) Update(vars map[string]string) {
	if v, ok := vars["TileSize"]; ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.TileSize = uint(n)
		} else {
			c.Logger.Warning("invalid TileSize param", "value", v)
		}
	}
	if v, ok := vars["Workers"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		} else {
			c.Logger.Warning("invalid Workers param", "value", v)
		}
	}
	if v, ok := vars["MemoryMode"]; ok {
		switch v {
		case "low":
			c.MemoryMode = MemoryLow
		case "normal":
			c.MemoryMode = MemoryNormal
		default:
			c.Logger.Warning("invalid MemoryMode param", "value", v)
		}
	}
}

// LogInvalidField records that name was bad or unset and has been defaulted
// to def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// EffectiveTileSize clamps TileSize into [MinTileSize, max(w,h)].
func (c *Config) EffectiveTileSize(w, h int) int {
	t := int(c.TileSize)
	if t < MinTileSize {
		t = MinTileSize
	}
	max := w
	if h > max {
		max = h
	}
	if t > max {
		t = max
	}
	return t
}
