//go:build !tinygo

package hal

import "testing"

func TestRGB565RoundTripExtremes(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
		r, g, b := RGB888From565(RGB565(c[0], c[1], c[2]))
		if r != c[0] || g != c[1] || b != c[2] {
			t.Fatalf("%v -> (%d,%d,%d)", c, r, g, b)
		}
	}
}

func TestPixelAt(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	Fill(fb, 0xFF, 0, 0)

	r, g, b := PixelAt(fb, 3, 2)
	if r != 0xFF || g != 0 || b != 0 {
		t.Fatalf("pixel=(%d,%d,%d) want red", r, g, b)
	}
	r, g, b = PixelAt(fb, 4, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("out of range pixel=(%d,%d,%d) want black", r, g, b)
	}
}

func TestHostTimeAdvance(t *testing.T) {
	ht := newHostTime()
	var now = timeAt(0)
	ht.advance(now)
	if got := <-ht.Ticks(); got != 1 {
		t.Fatalf("first tick=%d want 1", got)
	}

	ht.advance(timeAt(3 * TickDuration))
	for want := uint64(2); want <= 4; want++ {
		if got := <-ht.Ticks(); got != want {
			t.Fatalf("tick=%d want %d", got, want)
		}
	}
	select {
	case got := <-ht.Ticks():
		t.Fatalf("unexpected tick %d", got)
	default:
	}
}
