//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	Scale int
}

func RunWindow(_ Config, _ WindowConfig, _ func(h HAL) func() error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1, or use -headless)")
}
