// Package curveplot is a developer tool that renders an adjustments
// payload's tone curves (luma plus any active per-channel red/green/blue
// curves) to a PNG, so an engineer can see what a curve authored by hand
// or by a client app actually does before running it through a render.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rawforge/devcore/curve"
	"github.com/rawforge/devcore/payload"
)

const samples = 256

func main() {
	var (
		inPath  = flag.String("in", "", "path to an adjustments JSON payload (reads its \"curves\" field)")
		outPath = flag.String("out", "curves.png", "output PNG path")
		width   = flag.Float64("width", 6, "plot width in inches")
		height  = flag.Float64("height", 6, "plot height in inches")
	)
	flag.Parse()

	data := []byte("{}")
	if *inPath != "" {
		var err error
		data, err = os.ReadFile(*inPath)
		if err != nil {
			fatal("reading payload", err)
		}
	}

	p := payload.Parse(data)
	set := curve.FromPayload(p.Curves)

	plt := plot.New()
	plt.Title.Text = "tone curves"
	plt.X.Label.Text = "input"
	plt.Y.Label.Text = "output"
	plt.X.Min, plt.X.Max = 0, 1
	plt.Y.Min, plt.Y.Max = 0, 1

	identity, err := plotter.NewLine(sampleIdentity())
	if err != nil {
		fatal("building identity reference line", err)
	}
	identity.Color = color.Gray{Y: 200}
	identity.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	plt.Add(identity)
	plt.Legend.Add("identity", identity)

	addCurve(plt, "luma", set.Luma, color.Gray{Y: 40})
	addCurve(plt, "red", set.Red, color.RGBA{R: 220, A: 255})
	addCurve(plt, "green", set.Green, color.RGBA{G: 160, A: 255})
	addCurve(plt, "blue", set.Blue, color.RGBA{B: 220, A: 255})

	if err := plt.Save(vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch, *outPath); err != nil {
		fatal("saving plot", err)
	}
}

func addCurve(plt *plot.Plot, name string, r curve.Runtime, c color.Color) {
	if r.IsDefault() {
		return
	}
	line, err := plotter.NewLine(sampleCurve(r))
	if err != nil {
		fatal("building "+name+" curve line", err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	plt.Add(line)
	plt.Legend.Add(name, line)
}

func sampleCurve(r curve.Runtime) plotter.XYs {
	pts := make(plotter.XYs, samples)
	for i := range pts {
		x := float64(i) / float64(samples-1)
		pts[i].X = x
		pts[i].Y = r.Eval(x)
	}
	return pts
}

func sampleIdentity() plotter.XYs {
	return plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}
}

func fatal(msg string, err error) {
	fmt.Fprintln(os.Stderr, "curveplot: "+msg+": "+err.Error())
	os.Exit(1)
}
