package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit and Date are set at build time via -ldflags, e.g.
//
//	-X sparkcalc/internal/buildinfo.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the header and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		return c
	}
	return "dev"
}

// String describes the build for -version output.
func String() string {
	return fmt.Sprintf("sparkcalc %s (commit %s, built %s)", Version, orUnknown(commit()), Date)
}

// commit prefers the ldflags value and falls back to the VCS stamp of the main module.
func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
