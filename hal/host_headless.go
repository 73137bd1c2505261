//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
}

// RunHeadless runs the calculator without opening a window.
//
// It returns nil after cfg.Ticks frames (0 = run until ctx is done).
func RunHeadless(ctx context.Context, cfg Config, hcfg HeadlessConfig, newApp func(HAL) func() error) error {
	if hcfg.Hz <= 0 {
		hcfg.Hz = 60
	}

	h := newHost(cfg)
	step := newApp(h)

	d := time.Second / time.Duration(hcfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", hcfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var frames uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			h.t.advance(now)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			frames++
			if hcfg.Ticks > 0 && frames >= hcfg.Ticks {
				return nil
			}
		}
	}
}
