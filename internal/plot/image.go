package plot

import (
	"image"
	"image/color"
)

// ImageDisplay adapts an *image.RGBA to drivers.Displayer.
type ImageDisplay struct {
	Img *image.RGBA
}

func NewImageDisplay(w, h int) *ImageDisplay {
	return &ImageDisplay{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (d *ImageDisplay) Size() (x, y int16) {
	b := d.Img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *ImageDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.Img.SetRGBA(int(x), int(y), c)
}

func (d *ImageDisplay) Display() error { return nil }
