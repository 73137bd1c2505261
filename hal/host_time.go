//go:build !tinygo

package hal

import "time"

// TickDuration is the wall-clock length of one tick.
const TickDuration = time.Millisecond

type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// advance converts elapsed wall time into ticks. The first call emits one tick so that
// waiters see time moving immediately after startup.
func (t *hostTime) advance(now time.Time) {
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.emit(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / TickDuration)
	if n == 0 {
		return
	}
	t.acc %= TickDuration
	t.emit(n)
}

func (t *hostTime) emit(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
