// Package hal is the calculator's view of the machine it runs on.
package hal

import "errors"

var ErrNotImplemented = errors.New("not implemented")

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Framebuffer is an RGB565 pixel buffer plus a "present" hook. Pixels are little-endian
// rrrrrggggggbbbbb, StrideBytes apart row to row.
type Framebuffer interface {
	Width() int
	Height() int
	StrideBytes() int
	Buffer() []byte
	Present() error
}

// KeyCode names the non-printable keys the calculator reacts to.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is a keyboard event.
//
// Printable input arrives with Rune set and Code == KeyUnknown.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard delivers key events.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Flash is the non-volatile memory that holds the preferences region.
//
// Addresses and erase blocks only: erased bytes read as 0xFF and a write may only clear bits.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// HAL is everything the calculator takes from the machine. A method returns nil when the
// machine has no such device; Ticks are 1ms apart.
type HAL interface {
	Logger() Logger
	Framebuffer() Framebuffer
	Keyboard() Keyboard
	Flash() Flash
	Ticks() <-chan uint64
}
