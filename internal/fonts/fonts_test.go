package fonts

import (
	"image/color"
	"testing"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

type pixelSet struct {
	w, h int16
	on   map[[2]int16]bool
}

func newPixelSet(w, h int16) *pixelSet {
	return &pixelSet{w: w, h: h, on: map[[2]int16]bool{}}
}

func (p *pixelSet) Size() (int16, int16) { return p.w, p.h }

func (p *pixelSet) SetPixel(x, y int16, _ color.RGBA) {
	p.on[[2]int16{x, y}] = true
}

func (p *pixelSet) Display() error { return nil }

func TestSymbolsDrawAboveBaseline(t *testing.T) {
	f := WithSymbols(&freemono.Regular9pt7b, 1)
	d := newPixelSet(64, 64)
	tinyfont.DrawChar(d, f, 10, 30, '÷', color.RGBA{A: 0xFF})

	if len(d.on) == 0 {
		t.Fatal("symbol drew nothing")
	}
	for p := range d.on {
		if p[1] > 30 || p[1] < 30-8 {
			t.Fatalf("pixel %v outside the glyph box", p)
		}
	}
}

func TestSymbolsAdvanceLikeDigits(t *testing.T) {
	for _, base := range []tinyfont.Fonter{&freemono.Regular9pt7b, &freemono.Bold12pt7b} {
		f := WithSymbols(base, 2)
		want := base.GetGlyph('0').Info().XAdvance
		for _, r := range "÷×π√±" {
			if got := f.GetGlyph(r).Info().XAdvance; got != want {
				t.Fatalf("advance(%q)=%d want %d", r, got, want)
			}
		}
		if got := f.GetGlyph('A').Info().Rune; got != 'A' {
			t.Fatalf("base glyph rune=%q", got)
		}
	}
}

func TestWidthCountsSymbols(t *testing.T) {
	if Width(Medium, "1 ÷ 2") != Width(Medium, "1 / 2") {
		t.Fatalf("symbol width differs from ASCII: %d vs %d", Width(Medium, "1 ÷ 2"), Width(Medium, "1 / 2"))
	}
	if Advance(Small) <= 0 {
		t.Fatal("small font has no advance")
	}
}
