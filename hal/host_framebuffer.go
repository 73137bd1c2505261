//go:build !tinygo

package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

// NewFramebuffer returns an in-memory RGB565 framebuffer.
//
// Present is a no-op; the window backend snapshots the buffer on every frame.
func NewFramebuffer(width, height int) Framebuffer {
	return newHostFramebuffer(width, height)
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int       { return f.width }
func (f *hostFramebuffer) Height() int      { return f.height }
func (f *hostFramebuffer) StrideBytes() int { return f.stride }
func (f *hostFramebuffer) Buffer() []byte   { return f.buf }
func (f *hostFramebuffer) Present() error   { return nil }

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
