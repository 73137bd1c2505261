// Package fonts provides the calculator's tinyfont faces, extended with the symbols the
// keypad and display use (÷ × π √ ±).
package fonts

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Faces used by the framebuffer UI.
//
// The returned fonts reuse an internal glyph; they are not safe for concurrent use.
var (
	Large  tinyfont.Fonter = WithSymbols(&freemono.Bold12pt7b, 2)
	Medium tinyfont.Fonter = WithSymbols(&freemono.Regular9pt7b, 1)
	Small  tinyfont.Fonter = WithSymbols(&proggy.TinySZ8pt7b, 1)
)

// symbolBitmaps are 8x8 glyphs, one byte per row, bit 7 leftmost.
var symbolBitmaps = map[rune][8]byte{
	'÷': {0x00, 0x18, 0x00, 0x7E, 0x00, 0x18, 0x00, 0x00},
	'×': {0x00, 0x42, 0x24, 0x18, 0x24, 0x42, 0x00, 0x00},
	'π': {0x00, 0x7F, 0x24, 0x24, 0x24, 0x24, 0x46, 0x00},
	'√': {0x07, 0x04, 0x04, 0x08, 0x88, 0x50, 0x20, 0x00},
	'±': {0x00, 0x18, 0x18, 0x7E, 0x18, 0x18, 0x7E, 0x00},
}

// Symbols is a Fonter that draws calculator symbols itself and defers every other rune to
// a base font.
type Symbols struct {
	base    tinyfont.Fonter
	scale   int16
	advance uint8
	g       symbolGlyph
}

// WithSymbols wraps base. scale multiplies the 8x8 symbol bitmaps; symbols advance like
// the base font's digits so monospace layouts stay aligned.
func WithSymbols(base tinyfont.Fonter, scale int16) *Symbols {
	if scale < 1 {
		scale = 1
	}
	f := &Symbols{base: base, scale: scale, advance: uint8(8 * scale)}
	if base != nil {
		if adv := base.GetGlyph('0').Info().XAdvance; adv > 0 {
			f.advance = adv
		}
	}
	return f
}

func (f *Symbols) GetYAdvance() uint8 {
	if f.base == nil {
		return uint8(9 * f.scale)
	}
	return f.base.GetYAdvance()
}

func (f *Symbols) GetGlyph(r rune) tinyfont.Glypher {
	if rows, ok := symbolBitmaps[r]; ok || f.base == nil {
		f.g = symbolGlyph{r: r, rows: rows, scale: f.scale, advance: f.advance}
		return &f.g
	}
	return f.base.GetGlyph(r)
}

type symbolGlyph struct {
	r       rune
	rows    [8]byte
	scale   int16
	advance uint8
}

// Draw paints the bitmap with its bottom row on the baseline y.
func (g *symbolGlyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	size := 8 * g.scale
	left := x + (int16(g.advance)-size)/2
	top := y - size + 1
	for row := int16(0); row < 8; row++ {
		bits := g.rows[row]
		for col := int16(0); col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			for dy := int16(0); dy < g.scale; dy++ {
				for dx := int16(0); dx < g.scale; dx++ {
					display.SetPixel(left+col*g.scale+dx, top+row*g.scale+dy, c)
				}
			}
		}
	}
}

func (g *symbolGlyph) Info() tinyfont.GlyphInfo {
	size := uint8(8 * g.scale)
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    size,
		Height:   size,
		XAdvance: g.advance,
		XOffset:  0,
		YOffset:  -int8(size) + 1,
	}
}

// Advance returns the horizontal advance of the widest ASCII digit in f, which the UI uses
// as the cell width for right-aligned numbers.
func Advance(f tinyfont.Fonter) int16 {
	_, w := tinyfont.LineWidth(f, "0")
	return int16(w)
}

// Width returns the rendered width of s in f.
func Width(f tinyfont.Fonter, s string) int16 {
	_, w := tinyfont.LineWidth(f, s)
	return int16(w)
}
