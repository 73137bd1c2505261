//go:build !tinygo

// Command calcprefs inspects and edits the preferences stored in a calculator flash image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"sparkcalc/hal"
	"sparkcalc/internal/config"
	"sparkcalc/internal/prefs"
	"sparkcalc/internal/theme"
)

const usage = `usage: calcprefs [-config file] [-flash path] list
       calcprefs [-config file] [-flash path] get KEY
       calcprefs [-config file] [-flash path] set KEY VALUE
       calcprefs [-config file] [-flash path] unset KEY
       calcprefs [-config file] [-flash path] theme [light|dark]`

var (
	errUsage    = errors.New("usage")
	errNotFound = errors.New("not set")
)

func main() {
	configPath := flag.String("config", "", "Config file (default "+config.DefaultFile+" if present).")
	flashPath := flag.String("flash", "", "Flash image (overrides the config file).")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *flashPath != "" {
		cfg.Flash.Path = *flashPath
	}

	err = run(cfg.Flash, flag.Args(), os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(fc config.Flash, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	ff, err := hal.OpenFlash(fc.Path, fc.Size)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	off, size := fc.PrefsRegion()
	st, err := prefs.Open(ff, off, size)
	if err != nil {
		return err
	}

	switch cmd, rest := args[0], args[1:]; {
	case cmd == "list" && len(rest) == 0:
		for _, k := range st.Keys() {
			v, _ := st.Get(k)
			fmt.Fprintf(out, "%s=%s\n", k, v)
		}
	case cmd == "get" && len(rest) == 1:
		v, ok := st.Get(rest[0])
		if !ok {
			return fmt.Errorf("%s: %w", rest[0], errNotFound)
		}
		fmt.Fprintln(out, v)
	case cmd == "set" && len(rest) == 2:
		return st.Set(rest[0], rest[1])
	case cmd == "unset" && len(rest) == 1:
		return st.Delete(rest[0])
	case cmd == "theme" && len(rest) == 0:
		m := theme.NewManager(st)
		fmt.Fprintln(out, m.Start())
	case cmd == "theme" && len(rest) == 1:
		t := theme.Theme(rest[0])
		if t != theme.Light && t != theme.Dark {
			return fmt.Errorf("theme %q: %w", rest[0], errUsage)
		}
		return theme.NewManager(st).Set(t)
	default:
		return errUsage
	}
	return nil
}
