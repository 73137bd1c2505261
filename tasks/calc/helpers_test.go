package calc

import (
	"errors"
	"testing"

	"sparkcalc/hal"
	"sparkcalc/internal/theme"
	"sparkcalc/kernel"
)

type memStore struct {
	m    map[string]string
	fail bool
}

func (s *memStore) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *memStore) Set(key, value string) error {
	if s.fail {
		return errors.New("flash worn out")
	}
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[key] = value
	return nil
}

type funcTask func(ctx *kernel.Context)

func (f funcTask) Run(ctx *kernel.Context) { f(ctx) }

func newTestTask(t *testing.T, store *memStore) *Task {
	t.Helper()
	tk := New(Config{
		Framebuffer: hal.NewFramebuffer(400, 600),
		Theme:       theme.NewManager(store),
		Formula:     "x",
		PlotHeight:  200,
	})
	if !tk.start() {
		t.Fatal("start failed")
	}
	return tk
}

func typeKeys(tk *Task, s string) {
	tk.handleInput([]byte(s))
	tk.render()
}

// rgb565 quantizes c the way the framebuffer stores it.
func rgb565(r, g, b uint8) [3]uint8 {
	rr, gg, bb := hal.RGB888From565(hal.RGB565(r, g, b))
	return [3]uint8{rr, gg, bb}
}

func pixel(tk *Task, x, y int) [3]uint8 {
	r, g, b := hal.PixelAt(tk.fb, x, y)
	return [3]uint8{r, g, b}
}
