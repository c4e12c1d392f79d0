package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rawforge/devcore/internal/logging"
)

func TestValidateDefaultsTileSizeByMemoryMode(t *testing.T) {
	c := &Config{MemoryMode: MemoryLow}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.TileSize != LowMemoryTileSize {
		t.Errorf("TileSize = %d, want %d", c.TileSize, LowMemoryTileSize)
	}
	if c.Logger == nil {
		t.Errorf("Logger was not defaulted")
	}
}

func TestEffectiveTileSizeClampsToImageBounds(t *testing.T) {
	c := &Config{TileSize: 256}
	if got := c.EffectiveTileSize(40, 40); got != 40 {
		t.Errorf("EffectiveTileSize(40,40) = %d, want 40", got)
	}
	if got := c.EffectiveTileSize(1000, 2000); got != 256 {
		t.Errorf("EffectiveTileSize(1000,2000) = %d, want 256", got)
	}
}

func TestUpdateAppliesStringOverrides(t *testing.T) {
	got := &Config{}
	got.Validate()
	got.Update(map[string]string{"TileSize": "512", "MemoryMode": "low"})

	want := &Config{
		Logger:        logging.Discard,
		LogLevel:      got.LogLevel,
		TileSize:      512,
		MemoryMode:    MemoryLow,
		Workers:       got.Workers,
		HighlightKnee: got.HighlightKnee,
	}
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}
