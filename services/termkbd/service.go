package termkbd

import (
	"unicode/utf8"

	"sparkcalc/hal"
	"sparkcalc/kernel"
	"sparkcalc/proto"
)

const (
	// Ticks are 1ms on the host.
	repeatDelayTicks = 350
	repeatRateTicks  = 60
)

// vt100Keys maps non-printable keys to their terminal byte sequences.
var vt100Keys = map[hal.KeyCode]string{
	hal.KeyEnter:     "\r",
	hal.KeyEscape:    "\x1b",
	hal.KeyBackspace: "\x7f",
	hal.KeyTab:       "\t",
	hal.KeyUp:        "\x1b[A",
	hal.KeyDown:      "\x1b[B",
	hal.KeyRight:     "\x1b[C",
	hal.KeyLeft:      "\x1b[D",
	hal.KeyHome:      "\x1b[H",
	hal.KeyEnd:       "\x1b[F",
	hal.KeyDelete:    "\x1b[3~",
	hal.KeyF1:        "\x1bOP",
	hal.KeyF2:        "\x1bOQ",
	hal.KeyF3:        "\x1bOR",
}

// Service turns HAL key events into MsgTermInput byte streams.
type Service struct {
	kbd    hal.Keyboard
	outCap kernel.Capability

	pending []byte

	heldCode hal.KeyCode
	heldData []byte

	nextRepeatTick uint64
}

func New(kbd hal.Keyboard, inputCap kernel.Capability) *Service {
	return &Service{kbd: kbd, outCap: inputCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.kbd == nil {
		return
	}
	events := s.kbd.Events()
	if events == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleKeyEvent(ctx.NowTick(), ev)
			s.flush(ctx)
		case tick := <-tickCh:
			s.handleRepeat(tick)
			s.flush(ctx)
		}
	}
}

func (s *Service) handleKeyEvent(now uint64, ev hal.KeyEvent) {
	if !ev.Press {
		if s.heldData != nil && ev.Code == s.heldCode {
			s.heldData = nil
			s.nextRepeatTick = 0
		}
		return
	}

	data := vt100FromKey(ev)
	if len(data) == 0 {
		return
	}
	s.pending = append(s.pending, data...)

	if !repeatableKey(ev.Code) {
		return
	}
	s.heldCode = ev.Code
	s.heldData = append(s.heldData[:0], data...)
	s.nextRepeatTick = now + repeatDelayTicks
}

func (s *Service) handleRepeat(tick uint64) {
	if s.heldData == nil || tick < s.nextRepeatTick {
		return
	}
	s.pending = append(s.pending, s.heldData...)
	s.nextRepeatTick = tick + repeatRateTicks
}

func (s *Service) flush(ctx *kernel.Context) {
	if len(s.pending) == 0 {
		return
	}
	if !s.outCap.Valid() {
		s.pending = nil
		return
	}

	chunk := s.pending
	if len(chunk) > kernel.MaxMessageBytes {
		chunk = chunk[:kernel.MaxMessageBytes]
		// Keep multi-byte runes whole.
		for len(chunk) > 0 && !utf8.RuneStart(s.pending[len(chunk)]) {
			chunk = chunk[:len(chunk)-1]
		}
	}

	switch ctx.Send(s.outCap, uint16(proto.MsgTermInput), chunk) {
	case kernel.SendOK:
		s.pending = s.pending[len(chunk):]
	case kernel.SendErrQueueFull:
		// Retried on the next tick.
	default:
		s.pending = nil
	}
}

func repeatableKey(code hal.KeyCode) bool {
	switch code {
	case hal.KeyUp, hal.KeyDown, hal.KeyLeft, hal.KeyRight,
		hal.KeyBackspace, hal.KeyDelete:
		return true
	default:
		return false
	}
}

func vt100FromKey(ev hal.KeyEvent) []byte {
	if ev.Rune != 0 {
		return utf8.AppendRune(nil, ev.Rune)
	}
	if seq, ok := vt100Keys[ev.Code]; ok {
		return []byte(seq)
	}
	return nil
}
