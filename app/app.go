// Package app wires the kernel, services and the calculator task onto a HAL.
package app

import (
	"errors"
	"fmt"
	"sync"

	"sparkcalc/hal"
	"sparkcalc/internal/display"
	"sparkcalc/internal/evaluator"
	"sparkcalc/internal/prefs"
	"sparkcalc/internal/theme"
	"sparkcalc/kernel"
	"sparkcalc/proto"
	"sparkcalc/services/logger"
	"sparkcalc/services/termkbd"
	calctask "sparkcalc/tasks/calc"
)

// Config selects the calculator's startup state.
type Config struct {
	// Locale is a BCP 47 tag, "" for English or display.AutoLocale.
	Locale     string
	Formula    string
	PlotScale  float64
	PlotHeight int
	Version    string

	// PrefsOffset and PrefsSize locate the preferences region in flash.
	// PrefsSize == 0 disables persistence.
	PrefsOffset uint32
	PrefsSize   uint32
}

// System is a running calculator.
type System struct {
	k *kernel.Kernel

	mu      sync.Mutex
	closed  bool
	control chan request
	done    chan struct{}
}

var errNoFlash = errors.New("no flash")

type request struct {
	kind    proto.Kind
	payload []byte
}

// Start wires the services and the calculator task and starts the tick pump.
func Start(h hal.HAL, cfg Config) (*System, error) {
	f, err := display.New(cfg.Locale)
	if err != nil {
		return nil, err
	}

	var store theme.Store
	if cfg.PrefsSize > 0 {
		if ps, err := openPrefs(h, cfg); err != nil {
			logLine(h, fmt.Sprintf("prefs: %v (theme will not persist)", err))
		} else {
			store = ps
		}
	}

	k := kernel.New()
	installPanicHandler(k, h, cfg.Version)
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	k.AddTask("logger", logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask("calc", calctask.New(calctask.Config{
		Framebuffer: h.Framebuffer(),
		Inbox:       calcEP.Restrict(kernel.RightRecv),
		Log:         logEP.Restrict(kernel.RightSend),
		Engine:      evaluator.New(),
		Formatter:   f,
		Theme:       theme.NewManager(store),
		Formula:     cfg.Formula,
		PlotScale:   cfg.PlotScale,
		PlotHeight:  cfg.PlotHeight,
		Version:     cfg.Version,
	}))
	k.AddTask("termkbd", termkbd.New(h.Keyboard(), calcEP.Restrict(kernel.RightSend)))

	s := &System{
		k:       k,
		control: make(chan request, 4),
		done:    make(chan struct{}),
	}
	k.AddTask("control", &controlTask{
		to:   calcEP.Restrict(kernel.RightSend),
		log:  logEP.Restrict(kernel.RightSend),
		reqs: s.control,
		done: s.done,
	})

	if ch := h.Ticks(); ch != nil {
		go func() {
			for seq := range ch {
				k.TickTo(seq)
			}
		}()
	}
	return s, nil
}

// Plot asks the calculator task to plot formula.
func (s *System) Plot(formula string) {
	s.submit(request{kind: proto.MsgPlotFormula, payload: proto.PlotFormulaPayload(formula)})
}

// Shutdown stops the calculator task and waits until the request has been delivered.
// Later calls do nothing.
func (s *System) Shutdown(reason proto.ShutdownReason) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.control <- request{kind: proto.MsgAppShutdown, payload: proto.AppShutdownPayload(reason)}
	s.closed = true
	close(s.control)
	s.mu.Unlock()
	<-s.done
}

// Panicked reports whether a task crashed and the panic screen replaced the calculator.
func (s *System) Panicked() bool { return s.k.Panicked() }

func (s *System) submit(r request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.control <- r
}

func openPrefs(h hal.HAL, cfg Config) (*prefs.Store, error) {
	fl := h.Flash()
	if fl == nil || fl.SizeBytes() == 0 {
		return nil, errNoFlash
	}
	return prefs.Open(fl, cfg.PrefsOffset, cfg.PrefsSize)
}

func logLine(h hal.HAL, s string) {
	if l := h.Logger(); l != nil {
		l.WriteLineString(s)
	}
}

// controlRetryTicks bounds how long a host request waits for room in the calculator's inbox.
const controlRetryTicks = 250

// controlTask forwards host requests into the kernel.
type controlTask struct {
	to   kernel.Capability
	log  kernel.Capability
	reqs <-chan request
	done chan<- struct{}
}

func (t *controlTask) Run(ctx *kernel.Context) {
	defer close(t.done)
	for r := range t.reqs {
		res := ctx.SendRetry(t.to, uint16(r.kind), r.payload, controlRetryTicks)
		if res == kernel.SendOK {
			continue
		}
		line := fmt.Sprintf("app: %s request dropped (%s)", r.kind, res)
		_ = ctx.Send(t.log, uint16(proto.MsgLogLine), proto.LogLinePayload(line, kernel.MaxMessageBytes))
	}
}
