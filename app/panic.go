package app

import (
	"fmt"
	"image/color"
	"strings"

	"sparkcalc/hal"
	"sparkcalc/internal/fonts"
	"sparkcalc/kernel"

	"tinygo.org/x/tinyfont"
)

var (
	panicBG = color.RGBA{R: 0x7F, G: 0x1D, B: 0x1D, A: 0xFF}
	panicFG = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// installPanicHandler replaces the calculator with a panic screen when any task crashes.
// The other tasks keep running so the host can still shut down.
func installPanicHandler(k *kernel.Kernel, h hal.HAL, version string) {
	k.OnPanic(func(info kernel.PanicInfo) {
		lines := panicLines(version, info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		if fb := h.Framebuffer(); fb != nil {
			drawPanic(fb, lines)
			_ = fb.Present()
		}
	})
}

func panicLines(version string, info kernel.PanicInfo) []string {
	title := "sparkcalc panic"
	if version != "" {
		title = "sparkcalc " + version + " panic"
	}
	lines := []string{
		title,
		fmt.Sprintf("task: %s (#%d) at tick %d", info.Task, info.TaskID, info.Tick),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
	}
	return lines
}

// drawPanic fills fb and writes lines top to bottom, wrapping at the screen width. Lines past
// the bottom edge are dropped.
func drawPanic(fb hal.Framebuffer, lines []string) {
	hal.Fill(fb, panicBG.R, panicBG.G, panicBG.B)
	d := panicDisplay{fb: fb}
	w, h := d.Size()

	font := fonts.Small
	lh := int16(font.GetYAdvance())
	if lh <= 0 {
		return
	}
	const margin = 4
	y := lh
	for _, line := range lines {
		for line != "" {
			if y > h {
				return
			}
			chunk, rest := wrapLine(font, line, w-2*margin)
			tinyfont.WriteLine(d, font, margin, y, chunk, panicFG)
			y += lh
			line = strings.TrimLeft(rest, " ")
		}
	}
}

// wrapLine splits s after the longest prefix that fits in maxW, keeping at least one rune.
func wrapLine(f tinyfont.Fonter, s string, maxW int16) (prefix, rest string) {
	rs := []rune(s)
	n := len(rs)
	for n > 1 && fonts.Width(f, string(rs[:n])) > maxW {
		n--
	}
	return string(rs[:n]), string(rs[n:])
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil {
		return
	}
	buf := d.fb.Buffer()
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

func (d panicDisplay) Display() error { return nil }
