package render

import (
	"runtime"
	"sync"

	"github.com/rawforge/devcore/develop/config"
	"github.com/rawforge/devcore/internal/logging"
)

// activeConfig holds the engine-wide tunables (tile size, memory mode,
// logger) applied to every render call. Configure installs a new one;
// until a host calls it, the engine runs with config's own defaults.
var (
	configMu     sync.RWMutex
	activeConfig = defaultConfig()
)

func defaultConfig() config.Config {
	c := config.Config{Logger: logging.Discard}
	c.Validate()
	return c
}

// Configure validates cfg and installs it as the tile-size/memory-mode/
// logger source for every subsequent render on this process. A positive
// cfg.Workers also sets GOMAXPROCS, bounding the goroutine fan-out the
// detail package's box blurs use. Safe to call before any session is
// created; calling it again replaces the prior configuration.
func Configure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Workers > 0 {
		runtime.GOMAXPROCS(cfg.Workers)
	}
	configMu.Lock()
	activeConfig = cfg
	configMu.Unlock()
	return nil
}

func currentConfig() config.Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return activeConfig
}
