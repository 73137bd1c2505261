//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 600
)

// Config selects the host devices.
type Config struct {
	Width  int
	Height int

	FlashPath string
	FlashSize uint32

	// Log receives log lines; nil means stdout.
	Log io.Writer
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	flash  Flash
}

// New returns a host HAL implementation.
//
// A flash image that cannot be opened is reported through the logger and replaced by a
// flash that fails every operation, so the calculator still runs without persistence.
func New(cfg Config) HAL {
	return newHost(cfg)
}

func newHost(cfg Config) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	logger := &hostLogger{w: w}

	var flash Flash = nullFlash{}
	if ff, err := OpenFlash(cfg.FlashPath, cfg.FlashSize); err != nil {
		logger.WriteLineString(fmt.Sprintf("hal: flash unavailable: %v", err))
	} else {
		flash = ff
	}

	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		flash:  flash,
	}
}

func (h *hostHAL) Logger() Logger           { return h.logger }
func (h *hostHAL) Framebuffer() Framebuffer { return h.fb }
func (h *hostHAL) Keyboard() Keyboard       { return h.kbd }
func (h *hostHAL) Flash() Flash             { return h.flash }
func (h *hostHAL) Ticks() <-chan uint64     { return h.t.Ticks() }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type nullFlash struct{}

func (nullFlash) SizeBytes() uint32       { return 0 }
func (nullFlash) EraseBlockBytes() uint32 { return hostFlashEraseBlockBytes }

func (nullFlash) ReadAt(_ []byte, _ uint32) (int, error) {
	return 0, ErrNotImplemented
}

func (nullFlash) WriteAt(_ []byte, _ uint32) (int, error) {
	return 0, ErrNotImplemented
}

func (nullFlash) Erase(_, _ uint32) error {
	return ErrNotImplemented
}
