//go:build !tinygo

package hal

import "time"

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func timeAt(d time.Duration) time.Time { return epoch.Add(d) }
