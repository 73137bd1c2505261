// Command calc-tui runs the calculator and plotter in a terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sparkcalc/hal"
	"sparkcalc/internal/calc"
	"sparkcalc/internal/config"
	"sparkcalc/internal/display"
	"sparkcalc/internal/evaluator"
	"sparkcalc/internal/plot"
	"sparkcalc/internal/prefs"
	"sparkcalc/internal/theme"
)

// Terminal cells are two dots wide, so a unit spans fewer dots than on the framebuffer.
const defaultScale = 8

func main() {
	var (
		configPath = flag.String("config", "", "Config file (default "+config.DefaultFile+" if present).")
		flashPath  = flag.String("flash", "", "Flash image holding the preferences.")
		formula    = flag.String("formula", "", "Formula plotted at startup.")
		locale     = flag.String("locale", "", `Locale for digit grouping, e.g. "en", "de" or "auto".`)
		scale      = flag.Float64("scale", defaultScale, "Plot dots per unit.")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf(1, "%v", err)
	}
	if *flashPath != "" {
		cfg.Flash.Path = *flashPath
	}
	if *formula != "" {
		cfg.Plot.Formula = *formula
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *scale <= 0 {
		fatalf(2, "invalid -scale %v", *scale)
	}

	f, err := display.New(cfg.Locale)
	if err != nil {
		fatalf(2, "%v", err)
	}

	var store theme.Store
	flash, err := hal.OpenFlash(cfg.Flash.Path, cfg.Flash.Size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calc-tui: %v (theme will not persist)\n", err)
	} else {
		defer flash.Close()
		off, size := cfg.Flash.PrefsRegion()
		if ps, err := prefs.Open(flash, off, size); err != nil {
			fmt.Fprintf(os.Stderr, "calc-tui: %v (theme will not persist)\n", err)
		} else {
			store = ps
		}
	}

	eng := evaluator.New()
	p := plot.New(eng)
	p.Scale = *scale

	m := newModel(modelConfig{
		Builder:   calc.NewBuilder(eng),
		Formatter: f,
		Theme:     theme.NewManager(store),
		Plotter:   p,
		Formula:   cfg.Plot.Formula,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fatalf(1, "%v", err)
	}
}

func fatalf(code int, format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "calc-tui: "+format+"\n", args...)
	os.Exit(code)
}
