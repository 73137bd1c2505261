// Package plot draws y = f(x) over a grid on a 2D canvas.
package plot

import (
	"image/color"
	"math"
	"strings"
)

// DefaultScale is the number of pixels per unit on both axes.
const DefaultScale = 40

// Canvas is the drawing surface the Plotter renders onto. Paths follow the usual 2D canvas
// model: BeginPath clears the path, MoveTo starts a subpath, LineTo extends it and Stroke
// draws the whole path.
//
// MoveTo with a non-finite coordinate ends the current subpath without starting a new one.
// LineTo with no current point starts a subpath at its point.
type Canvas interface {
	Size() (w, h int)
	Fill(c color.RGBA)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(c color.RGBA, width int)
}

// Colors are the plot colors of a theme.
type Colors struct {
	Background color.RGBA
	Grid       color.RGBA
	Axis       color.RGBA
	Function   color.RGBA
}

// Compiler turns a formula into a function of one variable.
type Compiler interface {
	CompileFunc(formula, variable string) (func(float64) (float64, error), error)
}

// Stats describes one Draw call.
type Stats struct {
	// Samples is the number of columns the formula evaluated for.
	Samples int
	// Skipped is the number of columns where evaluation failed.
	Skipped int
	// Breaks is the number of samples that were not finite on screen.
	Breaks int
}

// Plotter samples a formula once per pixel column.
type Plotter struct {
	Scale    float64
	Variable string
	compiler Compiler
}

func New(c Compiler) *Plotter {
	return &Plotter{Scale: DefaultScale, Variable: "x", compiler: c}
}

// Draw clears the canvas, draws grid and axes and, for a non-empty formula, the curve.
//
// The origin is the center of the canvas. A column whose evaluation fails is skipped
// without breaking the curve. A formula that does not compile draws no curve; the
// compile error is returned for reporting only.
func (p *Plotter) Draw(c Canvas, formula string, colors Colors) (Stats, error) {
	w, h := c.Size()
	scale := p.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	ox := float64(w) / 2
	oy := float64(h) / 2
	fw := float64(w)
	fh := float64(h)

	c.Fill(colors.Background)

	c.BeginPath()
	for i := scale; i < fw; i += scale {
		c.MoveTo(ox+i, 0)
		c.LineTo(ox+i, fh)
		c.MoveTo(ox-i, 0)
		c.LineTo(ox-i, fh)
	}
	for i := scale; i < fh; i += scale {
		c.MoveTo(0, oy+i)
		c.LineTo(fw, oy+i)
		c.MoveTo(0, oy-i)
		c.LineTo(fw, oy-i)
	}
	c.Stroke(colors.Grid, 1)

	c.BeginPath()
	c.MoveTo(0, oy)
	c.LineTo(fw, oy)
	c.MoveTo(ox, 0)
	c.LineTo(ox, fh)
	c.Stroke(colors.Axis, 2)

	var st Stats
	if strings.TrimSpace(formula) == "" {
		return st, nil
	}
	f, err := p.compiler.CompileFunc(formula, p.variable())
	if err != nil {
		st.Skipped = w
		return st, err
	}

	c.BeginPath()
	for px := 0; px < w; px++ {
		x := (float64(px) - ox) / scale
		y, err := f(x)
		if err != nil {
			st.Skipped++
			continue
		}
		st.Samples++

		py := oy - y*scale
		finite := !math.IsInf(py, 0) && !math.IsNaN(py)
		if !finite {
			st.Breaks++
		}
		if px == 0 || !finite {
			c.MoveTo(float64(px), py)
		} else {
			c.LineTo(float64(px), py)
		}
	}
	c.Stroke(colors.Function, 2)
	return st, nil
}

func (p *Plotter) variable() string {
	if p.Variable == "" {
		return "x"
	}
	return p.Variable
}
