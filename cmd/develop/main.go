// Package develop is a command-line host for the devcore engine: it
// decodes a RAW file once, applies a JSON adjustments payload, and
// writes the requested preview tier or export as a JPEG. It exercises
// the same create_session/render/release_session sequence a mobile or
// desktop FFI host would drive, so it doubles as a manual test rig for
// the library.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/rawforge/devcore/develop/config"
	"github.com/rawforge/devcore/internal/logging"
	"github.com/rawforge/devcore/render"
)

const version = "v0.1.0"

const pkg = "develop: "

func main() {
	var (
		rawPath     = flag.String("raw", "", "path to a RAW container file")
		adjPath     = flag.String("adjustments", "", "path to a JSON adjustments payload (default: {})")
		kindFlag    = flag.String("kind", "preview", "superlow|low|preview|zoom|export")
		outPath     = flag.String("out", "-", "output JPEG path, or - for stdout")
		maxDim      = flag.Int("max-dimension", 0, "export: cap the longest output side (0 = native)")
		lowRAM      = flag.Bool("low-ram", false, "trade quality for a smaller peak working set")
		metadataReq = flag.Bool("metadata", false, "print the RAW file's metadata JSON instead of rendering")
		logPath     = flag.String("log", "", "optional log file path")
		tileSize    = flag.Uint("tile-size", 0, "override the renderer's tile size (0 = config default)")
		workers     = flag.Int("workers", 0, "cap goroutine fan-out (0 = GOMAXPROCS)")
		showStats   = flag.Bool("stats", false, "print the rendered output's luma mean/stddev to stderr")
		showVersion = flag.Bool("version", false, "show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	log := logging.Discard
	if *logPath != "" {
		log = logging.New(logging.Config{Path: *logPath, Level: logging.Info, MaxSizeMB: 50, MaxBackups: 3, MaxAgeDays: 7})
	}

	cfg := config.Config{Logger: log, TileSize: *tileSize, Workers: *workers}
	if *lowRAM {
		cfg.MemoryMode = config.MemoryLow
	}
	if err := render.Configure(cfg); err != nil {
		fatal(log, "invalid configuration", err)
	}

	if *rawPath == "" {
		fatal(log, "usage error", fmt.Errorf("-raw is required"))
	}
	raw, err := os.ReadFile(*rawPath)
	if err != nil {
		fatal(log, "reading RAW file", err)
	}

	handle, err := render.CreateSession(raw)
	if err != nil {
		fatal(log, "creating session", err)
	}
	defer render.ReleaseSession(handle)

	if *metadataReq {
		out, err := render.GetMetadataJSON(handle)
		if err != nil {
			fatal(log, "reading metadata", err)
		}
		writeOutput(log, *outPath, []byte(out))
		return
	}

	adjustments := []byte("{}")
	if *adjPath != "" {
		adjustments, err = os.ReadFile(*adjPath)
		if err != nil {
			fatal(log, "reading adjustments payload", err)
		}
	}

	kind, ok := parseKind(*kindFlag)
	if !ok && *kindFlag != "export" {
		fatal(log, "usage error", fmt.Errorf("unknown -kind %q", *kindFlag))
	}

	var jpg []byte
	if *kindFlag == "export" {
		jpg, err = render.RenderExport(handle, adjustments, *maxDim, *lowRAM)
	} else {
		jpg, err = render.Render(handle, adjustments, kind)
	}
	if err != nil {
		fatal(log, "rendering", err)
	}

	if *showStats {
		if err := printLumaStats(jpg); err != nil {
			fatal(log, "computing stats", err)
		}
	}

	writeOutput(log, *outPath, jpg)
}

// printLumaStats decodes the just-rendered JPEG and reports its luma
// mean/stddev, a quick sanity check that an adjustment actually moved the
// output (e.g. confirming an exposure bump raised the mean) without
// needing to open the file in an image viewer.
func printLumaStats(jpg []byte) error {
	img, err := jpeg.Decode(bytes.NewReader(jpg))
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	luma := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			luma = append(luma, lumaAt(img, x, y))
		}
	}
	mean := stat.Mean(luma, nil)
	stddev := stat.StdDev(luma, nil)
	fmt.Fprintf(os.Stderr, "%sluma mean=%.4f stddev=%.4f (n=%d)\n", pkg, mean, stddev, len(luma))
	return nil
}

func lumaAt(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	const maxVal = 65535.0
	return (float64(r)*0.2126 + float64(g)*0.7152 + float64(b)*0.0722) / maxVal
}

func parseKind(s string) (render.Kind, bool) {
	switch s {
	case "superlow":
		return render.SuperLow, true
	case "low":
		return render.Low, true
	case "preview":
		return render.Preview, true
	case "zoom":
		return render.Zoom, true
	default:
		return render.Preview, false
	}
}

func writeOutput(log logging.Logger, path string, data []byte) {
	if path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			fatal(log, "writing output", err)
		}
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatal(log, "writing output", err)
	}
}

func fatal(log logging.Logger, msg string, err error) {
	log.Fatal(pkg+msg, "error", err.Error())
	fmt.Fprintln(os.Stderr, pkg+msg+": "+err.Error())
	os.Exit(1)
}
