// Package theme tracks the light/dark preference and the colors that go with it.
package theme

import (
	"fmt"
	"image/color"
	"sync"
)

// Key is the preference key the theme is persisted under.
const Key = "calculator-theme"

// Theme is the UI color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse maps a persisted value to a Theme; anything but "dark" reads as Light.
func Parse(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool { return t == Dark }

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Store persists the theme preference.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Manager applies and persists the theme.
//
// Callbacks run synchronously on the goroutine that changed the theme.
type Manager struct {
	mu      sync.Mutex
	store   Store
	current Theme

	onApply  []func(Theme)
	onChange []func(Theme)
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, current: Light}
}

// OnApply registers fn to restyle the UI (style flag, toggle indicator) whenever a theme is applied.
func (m *Manager) OnApply(fn func(Theme)) {
	m.mu.Lock()
	m.onApply = append(m.onApply, fn)
	m.mu.Unlock()
}

// OnChange registers fn to run after the user changes the theme, e.g. to redraw the plot.
func (m *Manager) OnChange(fn func(Theme)) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

// Start reads the persisted theme (Light if none) and applies it.
func (m *Manager) Start() Theme {
	t := Light
	if m.store != nil {
		if v, ok := m.store.Get(Key); ok {
			t = Parse(v)
		}
	}

	m.mu.Lock()
	m.current = t
	apply := append([]func(Theme){}, m.onApply...)
	m.mu.Unlock()

	for _, fn := range apply {
		fn(t)
	}
	return t
}

// Current returns the applied theme.
func (m *Manager) Current() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Toggle switches to the other theme.
func (m *Manager) Toggle() (Theme, error) {
	t := m.Current().Other()
	return t, m.Set(t)
}

// Set persists t, applies it and runs the change callbacks. A persist failure is
// returned after the theme has been applied, so the UI stays consistent.
func (m *Manager) Set(t Theme) error {
	t = Parse(string(t))

	var err error
	if m.store != nil {
		if serr := m.store.Set(Key, string(t)); serr != nil {
			err = fmt.Errorf("theme: persist %s: %w", t, serr)
		}
	}

	m.mu.Lock()
	m.current = t
	apply := append([]func(Theme){}, m.onApply...)
	change := append([]func(Theme){}, m.onChange...)
	m.mu.Unlock()

	for _, fn := range apply {
		fn(t)
	}
	for _, fn := range change {
		fn(t)
	}
	return err
}

// Palette returns the colors for the applied theme.
func (m *Manager) Palette() Palette { return PaletteFor(m.Current()) }

// Palette is the set of colors a theme defines.
type Palette struct {
	// Plot colors.
	Background color.RGBA
	Grid       color.RGBA
	Axis       color.RGBA
	Function   color.RGBA

	// UI colors.
	Text      color.RGBA
	TextMuted color.RGBA
	Panel     color.RGBA
	Key       color.RGBA
	KeyOp     color.RGBA
	KeyAccent color.RGBA
	KeyText   color.RGBA
	Selection color.RGBA
}

var palettes = map[Theme]Palette{
	Light: {
		Background: hex(0xF9FAFB),
		Grid:       hex(0xE5E7EB),
		Axis:       hex(0x6B7280),
		Function:   hex(0x3B82F6),

		Text:      hex(0x111827),
		TextMuted: hex(0x6B7280),
		Panel:     hex(0xFFFFFF),
		Key:       hex(0xE5E7EB),
		KeyOp:     hex(0xD1D5DB),
		KeyAccent: hex(0x3B82F6),
		KeyText:   hex(0x111827),
		Selection: hex(0xF59E0B),
	},
	Dark: {
		Background: hex(0x111827),
		Grid:       hex(0x374151),
		Axis:       hex(0x9CA3AF),
		Function:   hex(0x60A5FA),

		Text:      hex(0xF9FAFB),
		TextMuted: hex(0x9CA3AF),
		Panel:     hex(0x1F2937),
		Key:       hex(0x374151),
		KeyOp:     hex(0x4B5563),
		KeyAccent: hex(0x2563EB),
		KeyText:   hex(0xF9FAFB),
		Selection: hex(0xFBBF24),
	},
}

// PaletteFor returns the colors for t.
func PaletteFor(t Theme) Palette { return palettes[Parse(string(t))] }

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}
