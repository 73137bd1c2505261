// Package config loads the calculator's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// EnvFlashPath overrides Flash.Path when set.
const EnvFlashPath = "SPARKCALC_FLASH_PATH"

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "sparkcalc.toml"

type Config struct {
	// Locale is a BCP 47 tag for digit grouping, or "auto".
	Locale string `toml:"locale"`

	Window   Window   `toml:"window"`
	Headless Headless `toml:"headless"`
	Flash    Flash    `toml:"flash"`
	Plot     Plot     `toml:"plot"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Scale  int    `toml:"scale"`
	Title  string `toml:"title"`
}

type Headless struct {
	Enabled bool   `toml:"enabled"`
	Hz      int    `toml:"hz"`
	Ticks   uint64 `toml:"ticks"`
}

type Flash struct {
	Path string `toml:"path"`
	// Size is the size of a newly created image, in bytes.
	Size uint32 `toml:"size"`
	// PrefsOffset and PrefsSize select the preference region. A size of 0 uses the rest
	// of the image.
	PrefsOffset uint32 `toml:"prefs_offset"`
	PrefsSize   uint32 `toml:"prefs_size"`
}

type Plot struct {
	// Formula is plotted at startup.
	Formula string  `toml:"formula"`
	Scale   float64 `toml:"scale"`
	Height  int     `toml:"height"`
}

// PrefsRegion returns the preference region, resolving a zero size to the rest of the image.
func (f Flash) PrefsRegion() (off, size uint32) {
	if f.PrefsSize != 0 || f.PrefsOffset >= f.Size {
		return f.PrefsOffset, f.PrefsSize
	}
	return f.PrefsOffset, f.Size - f.PrefsOffset
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Locale: "en",
		Window: Window{
			Width:  400,
			Height: 600,
			Scale:  1,
			Title:  "Calculator",
		},
		Headless: Headless{Hz: 60},
		Flash: Flash{
			Path: "sparkcalc.flash",
			Size: 64 * 1024,
		},
		Plot: Plot{
			Formula: "sin(x)",
			Scale:   40,
			Height:  240,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A missing file is not
// an error when path is DefaultFile.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultFile:
	default:
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if v := os.Getenv(EnvFlashPath); v != "" {
		cfg.Flash.Path = v
	}
	return cfg, cfg.Validate()
}

// Decode merges TOML data into cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return err
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.Scale <= 0:
		return fmt.Errorf("config: window scale %d", c.Window.Scale)
	case c.Headless.Hz <= 0:
		return fmt.Errorf("config: headless hz %d", c.Headless.Hz)
	case c.Plot.Scale <= 0:
		return fmt.Errorf("config: plot scale %v", c.Plot.Scale)
	case c.Plot.Height < 0 || c.Plot.Height >= c.Window.Height:
		return fmt.Errorf("config: plot height %d for window height %d", c.Plot.Height, c.Window.Height)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
