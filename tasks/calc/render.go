package calc

// This file contains the framebuffer layout and drawing code.

import (
	"fmt"
	"image/color"

	"sparkcalc/hal"
	"sparkcalc/internal/calc"
	"sparkcalc/internal/fonts"
	"sparkcalc/internal/plot"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	headerHeight = 18
	panelHeight  = 72
	lineHeight   = 16
	minKeyHeight = 20
	keyGap       = 2
)

const formulaPrefix = "f(x) = "

type rect struct {
	x, y, w, h int16
}

type layout struct {
	header  rect
	panel   rect
	keypad  rect
	plot    rect
	formula rect
	status  rect

	keyW, keyH int16
}

// computeLayout stacks header, display panel, keypad, plot, formula and status lines.
// plotHeight <= 0 gives the plot half of the space left after the fixed rows; the keypad
// never shrinks below minKeyHeight per row.
func computeLayout(w, h, plotHeight int) layout {
	rest := h - headerHeight - panelHeight - 2*lineHeight
	if rest < 0 {
		rest = 0
	}
	if plotHeight <= 0 {
		plotHeight = rest / 2
	}
	if maxPlot := rest - calc.KeypadRows*minKeyHeight; plotHeight > maxPlot {
		plotHeight = maxPlot
	}
	if plotHeight < 0 {
		plotHeight = 0
	}
	keyH := (rest - plotHeight) / calc.KeypadRows
	plotHeight = rest - keyH*calc.KeypadRows

	var l layout
	y := 0
	next := func(height int) rect {
		r := rect{x: 0, y: int16(y), w: int16(w), h: int16(height)}
		y += height
		return r
	}
	l.header = next(headerHeight)
	l.panel = next(panelHeight)
	l.keypad = next(keyH * calc.KeypadRows)
	l.plot = next(plotHeight)
	l.formula = next(lineHeight)
	l.status = next(lineHeight)
	l.keyW = int16(w / calc.KeypadCols)
	l.keyH = int16(keyH)
	return l
}

func (l layout) button(row, col int) rect {
	r := rect{
		x: l.keypad.x + int16(col)*l.keyW,
		y: l.keypad.y + int16(row)*l.keyH,
		w: l.keyW,
		h: l.keyH,
	}
	if col == calc.KeypadCols-1 {
		r.w = l.keypad.w - r.x
	}
	return r
}

// render redraws everything except the plot region and presents the frame.
func (t *Task) render() {
	if t.d == nil {
		return
	}
	t.drawHeader()
	t.drawPanel()
	t.drawKeypad()
	t.drawFormula()
	t.drawStatus()
	_ = t.d.Display()
}

// renderPlot redraws the plot region with the current formula and theme.
func (t *Task) renderPlot() {
	if t.d == nil {
		return
	}
	r := t.l.plot
	if r.h <= 0 {
		return
	}
	formula := string(t.formula)
	canvas := plot.NewRaster(t.d, r.x, r.y, r.w, r.h)
	stats, err := t.plotter.Draw(canvas, formula, plot.Colors{
		Background: t.pal.Background,
		Grid:       t.pal.Grid,
		Axis:       t.pal.Axis,
		Function:   t.pal.Function,
	})
	t.lastStats = stats
	if err != nil {
		t.logf("calc: plot %q: %v", formula, err)
		t.message = "plot: cannot compile"
		return
	}
	if formula == "" {
		return
	}
	t.logf("calc: plot %q samples=%d skipped=%d breaks=%d", formula, stats.Samples, stats.Skipped, stats.Breaks)
	t.message = fmt.Sprintf("plot: %d samples, %d skipped", stats.Samples, stats.Skipped)
}

func (t *Task) drawHeader() {
	r := t.l.header
	t.fill(r, t.pal.Panel)
	t.writeLine(fonts.Small, r.x+4, r.y+r.h-5, t.title, t.pal.TextMuted)

	box := rect{x: r.x + r.w - 16, y: r.y + 4, w: 10, h: 10}
	label := "dark"
	lx := box.x - 6 - fonts.Width(fonts.Small, label)
	t.writeLine(fonts.Small, lx, r.y+r.h-5, label, t.pal.Text)
	t.outline(box, t.pal.Text, 1)
	if t.theme.Current().IsDark() {
		t.fill(rect{x: box.x + 2, y: box.y + 2, w: box.w - 4, h: box.h - 4}, t.pal.KeyAccent)
	}
}

func (t *Task) drawPanel() {
	r := t.l.panel
	t.fill(r, t.pal.Panel)
	pad := int16(6)
	maxW := r.w - 2*pad

	prev := fitTail(fonts.Medium, t.format.Format(t.builder.Previous()), maxW)
	t.writeLine(fonts.Medium, r.x+r.w-pad-fonts.Width(fonts.Medium, prev), r.y+22, prev, t.pal.TextMuted)

	cur := fitTail(fonts.Large, t.format.Format(t.builder.Current()), maxW)
	t.writeLine(fonts.Large, r.x+r.w-pad-fonts.Width(fonts.Large, cur), r.y+r.h-12, cur, t.pal.Text)
}

func (t *Task) drawKeypad() {
	t.fill(t.l.keypad, t.pal.Background)
	capH := int16(fonts.Medium.GetYAdvance()) * 5 / 8
	for row := range calc.Keypad {
		for col, b := range calc.Keypad[row] {
			r := t.l.button(row, col)
			inner := rect{x: r.x + keyGap, y: r.y + keyGap, w: r.w - 2*keyGap, h: r.h - 2*keyGap}
			t.fill(inner, t.keyColor(b.Tag))
			if t.focus == focusKeypad && row == t.selRow && col == t.selCol {
				t.outline(inner, t.pal.Selection, 2)
			}
			w := fonts.Width(fonts.Medium, b.Label)
			t.writeLine(fonts.Medium, inner.x+(inner.w-w)/2, inner.y+(inner.h+capH)/2, b.Label, t.pal.KeyText)
		}
	}
}

func (t *Task) keyColor(tag calc.ButtonTag) color.RGBA {
	switch tag {
	case calc.TagNumber, calc.TagConstant:
		return t.pal.Key
	case calc.TagEquals:
		return t.pal.KeyAccent
	default:
		return t.pal.KeyOp
	}
}

func (t *Task) drawFormula() {
	r := t.l.formula
	bg := t.pal.Panel
	if t.focus == focusFormula {
		bg = t.pal.Key
	}
	t.fill(r, bg)

	maxW := r.w - 8
	start := 0
	for start < t.cursor && fonts.Width(fonts.Small, formulaPrefix+string(t.formula[start:t.cursor])) > maxW {
		start++
	}
	visible := fitHead(fonts.Small, formulaPrefix+string(t.formula[start:]), maxW)
	base := r.y + r.h - 4
	t.writeLine(fonts.Small, r.x+4, base, visible, t.pal.Text)

	if t.focus == focusFormula {
		cx := r.x + 4 + fonts.Width(fonts.Small, formulaPrefix+string(t.formula[start:t.cursor]))
		t.fill(rect{x: cx, y: r.y + 2, w: 1, h: r.h - 4}, t.pal.Selection)
	}
}

func (t *Task) drawStatus() {
	r := t.l.status
	t.fill(r, t.pal.Panel)
	msg := t.message
	if msg == "" {
		if t.focus == focusFormula {
			msg = "Enter plot  Tab keypad  F1 theme"
		} else {
			msg = "Space press  Tab formula  F1 theme"
		}
	}
	t.writeLine(fonts.Small, r.x+4, r.y+r.h-4, fitHead(fonts.Small, msg, r.w-8), t.pal.TextMuted)
}

func (t *Task) fill(r rect, c color.RGBA) {
	if r.w <= 0 || r.h <= 0 {
		return
	}
	_ = t.d.FillRectangle(r.x, r.y, r.w, r.h, c)
}

func (t *Task) outline(r rect, c color.RGBA, width int16) {
	t.fill(rect{x: r.x, y: r.y, w: r.w, h: width}, c)
	t.fill(rect{x: r.x, y: r.y + r.h - width, w: r.w, h: width}, c)
	t.fill(rect{x: r.x, y: r.y, w: width, h: r.h}, c)
	t.fill(rect{x: r.x + r.w - width, y: r.y, w: width, h: r.h}, c)
}

func (t *Task) writeLine(f tinyfont.Fonter, x, y int16, s string, c color.RGBA) {
	if s == "" {
		return
	}
	tinyfont.WriteLine(t.d, f, x, y, s, c)
}

// fitTail drops runes from the front of s until it fits in maxW.
func fitTail(f tinyfont.Fonter, s string, maxW int16) string {
	rs := []rune(s)
	for len(rs) > 0 && fonts.Width(f, string(rs)) > maxW {
		rs = rs[1:]
	}
	return string(rs)
}

// fitHead drops runes from the end of s until it fits in maxW.
func fitHead(f tinyfont.Fonter, s string, maxW int16) string {
	rs := []rune(s)
	for len(rs) > 0 && fonts.Width(f, string(rs)) > maxW {
		rs = rs[:len(rs)-1]
	}
	return string(rs)
}

// fbDisplay adapts an RGB565 framebuffer to drivers.Displayer.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.buffer()
	if buf == nil {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	p := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	buf := d.buffer()
	if buf == nil {
		return nil
	}
	w, h := d.fb.Width(), d.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	p := hal.RGB565(c.R, c.G, c.B)
	lo, hi := byte(p), byte(p>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbDisplay) buffer() []byte {
	if d.fb == nil {
		return nil
	}
	return d.fb.Buffer()
}
