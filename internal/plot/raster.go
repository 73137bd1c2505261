package plot

import (
	"image/color"
	"math"

	"tinygo.org/x/drivers"
)

type point struct{ x, y float64 }

type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Raster is a Canvas over a rectangle of a drivers.Displayer. Lines are clipped to the
// rectangle and drawn with a square brush.
type Raster struct {
	d          drivers.Displayer
	x, y, w, h int16

	subpaths [][]point
	open     bool
}

// NewRaster returns a Raster covering w x h pixels of d at (x, y).
func NewRaster(d drivers.Displayer, x, y, w, h int16) *Raster {
	return &Raster{d: d, x: x, y: y, w: w, h: h}
}

// FullRaster returns a Raster covering all of d.
func FullRaster(d drivers.Displayer) *Raster {
	w, h := d.Size()
	return NewRaster(d, 0, 0, w, h)
}

func (r *Raster) Size() (int, int) { return int(r.w), int(r.h) }

func (r *Raster) Fill(c color.RGBA) {
	if f, ok := r.d.(rectFiller); ok {
		_ = f.FillRectangle(r.x, r.y, r.w, r.h, c)
		return
	}
	for py := int16(0); py < r.h; py++ {
		for px := int16(0); px < r.w; px++ {
			r.d.SetPixel(r.x+px, r.y+py, c)
		}
	}
}

func (r *Raster) BeginPath() {
	r.subpaths = r.subpaths[:0]
	r.open = false
}

func (r *Raster) MoveTo(x, y float64) {
	if !finite(x) || !finite(y) {
		r.open = false
		return
	}
	r.subpaths = append(r.subpaths, []point{{x, y}})
	r.open = true
}

func (r *Raster) LineTo(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	if !r.open {
		r.MoveTo(x, y)
		return
	}
	last := len(r.subpaths) - 1
	r.subpaths[last] = append(r.subpaths[last], point{x, y})
}

func (r *Raster) Stroke(c color.RGBA, width int) {
	if width < 1 {
		width = 1
	}
	xmax := float64(r.w - 1)
	ymax := float64(r.h - 1)
	for _, sp := range r.subpaths {
		for i := 1; i < len(sp); i++ {
			a, b := sp[i-1], sp[i]
			cx0, cy0, cx1, cy1, ok := clipLineToRect(a.x, a.y, b.x, b.y, 0, 0, xmax, ymax)
			if !ok {
				continue
			}
			r.drawLine(roundInt16(cx0), roundInt16(cy0), roundInt16(cx1), roundInt16(cy1), c, width)
		}
	}
}

// drawLine is Bresenham's algorithm with a width x width brush centered on the line.
func (r *Raster) drawLine(x0, y0, x1, y1 int16, c color.RGBA, width int) {
	dx := abs16(x1 - x0)
	dy := -abs16(y1 - y0)
	sx := int16(-1)
	if x0 < x1 {
		sx = 1
	}
	sy := int16(-1)
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		r.brush(x0, y0, c, width)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Raster) brush(x, y int16, c color.RGBA, width int) {
	lo := int16(-width / 2)
	hi := lo + int16(width)
	for oy := lo; oy < hi; oy++ {
		for ox := lo; ox < hi; ox++ {
			px, py := x+ox, y+oy
			if px < 0 || py < 0 || px >= r.w || py >= r.h {
				continue
			}
			r.d.SetPixel(r.x+px, r.y+py, c)
		}
	}
}

// clipLineToRect clips a segment to the rectangle with the Liang-Barsky algorithm.
func clipLineToRect(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	u1 := 0.0
	u2 := 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return 0, 0, 0, 0, false
			}
			u1 = math.Max(u1, t)
		} else {
			if t < u1 {
				return 0, 0, 0, 0, false
			}
			u2 = math.Min(u2, t)
		}
	}

	cx0 = clamp(x0+u1*dx, xmin, xmax)
	cy0 = clamp(y0+u1*dy, ymin, ymax)
	cx1 = clamp(x0+u2*dx, xmin, xmax)
	cy1 = clamp(y0+u2*dy, ymin, ymax)
	return cx0, cy0, cx1, cy1, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundInt16(v float64) int16 {
	if v < 0 {
		return int16(v - 0.5)
	}
	return int16(v + 0.5)
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
