// Command calcplot renders y = f(x) to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"

	"sparkcalc/internal/evaluator"
	"sparkcalc/internal/plot"
	"sparkcalc/internal/theme"
)

type options struct {
	formula string
	width   int
	height  int
	theme   string
	scale   float64
}

func main() {
	var opts options
	flag.StringVar(&opts.formula, "formula", "sin(x)", "Formula in x.")
	flag.IntVar(&opts.width, "width", 400, "Image width in pixels.")
	flag.IntVar(&opts.height, "height", 300, "Image height in pixels.")
	flag.StringVar(&opts.theme, "theme", "light", "light|dark.")
	flag.Float64Var(&opts.scale, "scale", plot.DefaultScale, "Pixels per unit.")
	outPath := flag.String("o", "", "Output PNG (- for stdout).")
	flag.Parse()

	if *outPath == "" {
		fatalf(2, "usage: calcplot -o out.png [-formula sin(x)] [-width 400] [-height 300] [-theme light|dark] [-scale 40]")
	}

	var out io.Writer = os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatalf(1, "%v", err)
		}
		defer f.Close()
		out = f
	}

	st, err := render(out, opts)
	if err != nil {
		fatalf(1, "%v", err)
	}
	fmt.Fprintf(os.Stderr, "%s: %d samples, %d skipped, %d breaks\n", opts.formula, st.Samples, st.Skipped, st.Breaks)
}

func render(w io.Writer, opts options) (plot.Stats, error) {
	if opts.width <= 0 || opts.height <= 0 || opts.width > 1<<14 || opts.height > 1<<14 {
		return plot.Stats{}, fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}
	if opts.theme != string(theme.Light) && opts.theme != string(theme.Dark) {
		return plot.Stats{}, fmt.Errorf("invalid theme %q", opts.theme)
	}
	pal := theme.PaletteFor(theme.Theme(opts.theme))

	p := plot.New(evaluator.New())
	if opts.scale > 0 {
		p.Scale = opts.scale
	}
	d := plot.NewImageDisplay(opts.width, opts.height)
	st, err := p.Draw(plot.FullRaster(d), opts.formula, plot.Colors{
		Background: pal.Background,
		Grid:       pal.Grid,
		Axis:       pal.Axis,
		Function:   pal.Function,
	})
	if err != nil {
		return st, err
	}
	return st, png.Encode(w, d.Img)
}

func fatalf(code int, format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
