//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sparkcalc/app"
	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
	"sparkcalc/internal/config"
	"sparkcalc/proto"
)

func main() {
	configPath := flag.String("config", "", "Config file (default "+config.DefaultFile+" if present).")
	headless := flag.Bool("headless", false, "Run without a window.")
	hz := flag.Int("hz", 0, "Tick rate in headless mode.")
	ticks := flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flashPath := flag.String("flash", "", "Flash image holding the preferences.")
	formula := flag.String("formula", "", "Formula plotted at startup.")
	locale := flag.String("locale", "", `Locale for digit grouping, e.g. "en", "de" or "auto".`)
	version := flag.Bool("version", false, "Print the version and exit.")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "headless":
			cfg.Headless.Enabled = *headless
		case "hz":
			cfg.Headless.Hz = *hz
		case "ticks":
			cfg.Headless.Ticks = *ticks
		case "flash":
			cfg.Flash.Path = *flashPath
		case "formula":
			cfg.Plot.Formula = *formula
		case "locale":
			cfg.Locale = *locale
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	hcfg := hal.Config{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		FlashPath: cfg.Flash.Path,
		FlashSize: cfg.Flash.Size,
	}
	off, size := cfg.Flash.PrefsRegion()
	acfg := app.Config{
		Locale:      cfg.Locale,
		Formula:     cfg.Plot.Formula,
		PlotScale:   cfg.Plot.Scale,
		PlotHeight:  cfg.Plot.Height,
		Version:     buildinfo.Short(),
		PrefsOffset: off,
		PrefsSize:   size,
	}

	var sys *app.System
	newApp := func(h hal.HAL) func() error {
		s, err := app.Start(h, acfg)
		if err != nil {
			return func() error { return err }
		}
		sys = s
		return func() error { return nil }
	}

	if cfg.Headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, hcfg, hal.HeadlessConfig{Hz: cfg.Headless.Hz, Ticks: cfg.Headless.Ticks}, newApp)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(hcfg, hal.WindowConfig{Title: cfg.Window.Title, Scale: cfg.Window.Scale}, newApp)
	}
	if sys != nil {
		sys.Shutdown(proto.ShutdownHost)
		if err == nil && sys.Panicked() {
			err = errors.New("sparkcalc: a task panicked")
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
