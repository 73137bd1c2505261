//go:build !tinygo && cgo

package hal

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	// Scale multiplies the framebuffer size for the initial window size.
	Scale int
}

// RunWindow starts a desktop window that displays the framebuffer and forwards keyboard input.
// It blocks until the window closes.
func RunWindow(cfg Config, wcfg WindowConfig, newApp func(HAL) func() error) error {
	h := newHost(cfg)
	step := newApp(h)

	if wcfg.Scale <= 0 {
		wcfg.Scale = 1
	}
	if wcfg.Title == "" {
		wcfg.Title = "Calculator"
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(wcfg.Title)
	ebiten.SetWindowSize(h.fb.width*wcfg.Scale, h.fb.height*wcfg.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.t.advance(time.Now())
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := RGB888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
