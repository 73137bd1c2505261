package main

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"tinygo.org/x/drivers"
)

// brailleBits maps a dot inside a 2x4 cell to its bit in U+2800..U+28FF.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleCanvas is a drivers.Displayer made of braille cells, two dots wide and four dots
// tall. Pixels in the background color clear their dot; any other color sets it and
// becomes the cell color.
type brailleCanvas struct {
	cols, rows int
	bg         color.RGBA
	dots       []uint8
	colors     []color.RGBA
}

var _ drivers.Displayer = (*brailleCanvas)(nil)

func newBrailleCanvas(cols, rows int, bg color.RGBA) *brailleCanvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &brailleCanvas{
		cols:   cols,
		rows:   rows,
		bg:     bg,
		dots:   make([]uint8, cols*rows),
		colors: make([]color.RGBA, cols*rows),
	}
}

func (b *brailleCanvas) Size() (x, y int16) {
	return int16(b.cols * 2), int16(b.rows * 4)
}

func (b *brailleCanvas) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= b.cols*2 || iy >= b.rows*4 {
		return
	}
	cell := (iy/4)*b.cols + ix/2
	bit := brailleBits[iy%4][ix%2]
	if c == b.bg {
		b.dots[cell] &^= bit
		return
	}
	b.dots[cell] |= bit
	b.colors[cell] = c
}

func (b *brailleCanvas) Display() error { return nil }

// Render returns the canvas as lines of braille runes, colored in runs of equal cells.
func (b *brailleCanvas) Render() string {
	var out strings.Builder
	var run strings.Builder
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		var runColor color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(lipgloss.NewStyle().Foreground(hexColor(runColor)).Render(run.String()))
			run.Reset()
		}
		for col := 0; col < b.cols; col++ {
			i := row*b.cols + col
			c := b.colors[i]
			if b.dots[i] == 0 {
				c = b.bg
			}
			if c != runColor {
				flush()
				runColor = c
			}
			run.WriteRune(rune(0x2800) + rune(b.dots[i]))
		}
		flush()
	}
	return out.String()
}

// Plain returns the canvas without colors.
func (b *brailleCanvas) Plain() string {
	var out strings.Builder
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := 0; col < b.cols; col++ {
			out.WriteRune(rune(0x2800) + rune(b.dots[row*b.cols+col]))
		}
	}
	return out.String()
}
