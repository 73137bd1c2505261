// Package calc is the framebuffer calculator task: keypad, display panel and plotter.
package calc

import (
	"fmt"

	"sparkcalc/hal"
	"sparkcalc/internal/calc"
	"sparkcalc/internal/display"
	"sparkcalc/internal/evaluator"
	"sparkcalc/internal/plot"
	"sparkcalc/internal/theme"
	"sparkcalc/kernel"
	"sparkcalc/proto"
)

type focus uint8

const (
	focusKeypad focus = iota
	focusFormula
)

// Config wires the task to the rest of the system.
type Config struct {
	// Framebuffer is drawn on. A nil framebuffer stops the task at startup.
	Framebuffer hal.Framebuffer
	// Inbox receives MsgTermInput, MsgPlotFormula and MsgAppShutdown.
	Inbox kernel.Capability
	// Log receives MsgLogLine. An invalid capability disables logging.
	Log kernel.Capability

	Engine    *evaluator.Engine
	Formatter *display.Formatter
	Theme     *theme.Manager

	// Formula is plotted at startup.
	Formula    string
	PlotScale  float64
	PlotHeight int
	Version    string
}

// Task implements the calculator UI on a framebuffer.
type Task struct {
	ep    kernel.Capability
	log   kernel.Capability
	ctx   *kernel.Context
	title string

	fb hal.Framebuffer
	d  *fbDisplay
	l  layout

	builder *calc.Builder
	format  *display.Formatter
	theme   *theme.Manager
	pal     theme.Palette
	plotter *plot.Plotter

	focus  focus
	selRow int
	selCol int

	formula []rune
	cursor  int

	plotHeight int
	message    string
	lastStats  plot.Stats

	inbuf []byte
	done  bool
}

func New(cfg Config) *Task {
	eng := cfg.Engine
	if eng == nil {
		eng = evaluator.New()
	}
	f := cfg.Formatter
	if f == nil {
		f, _ = display.New("")
	}
	tm := cfg.Theme
	if tm == nil {
		tm = theme.NewManager(nil)
	}
	p := plot.New(eng)
	if cfg.PlotScale > 0 {
		p.Scale = cfg.PlotScale
	}
	title := "sparkcalc"
	if cfg.Version != "" {
		title += " " + cfg.Version
	}
	selRow, selCol, _ := calc.FindButton("=")

	t := &Task{
		fb:         cfg.Framebuffer,
		ep:         cfg.Inbox,
		log:        cfg.Log,
		title:      title,
		builder:    calc.NewBuilder(eng),
		format:     f,
		theme:      tm,
		pal:        tm.Palette(),
		plotter:    p,
		selRow:     selRow,
		selCol:     selCol,
		formula:    []rune(cfg.Formula),
		plotHeight: cfg.PlotHeight,
	}
	t.cursor = len(t.formula)
	return t
}

func (t *Task) Run(ctx *kernel.Context) {
	t.ctx = ctx
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if !t.start() {
		t.logf("calc: no framebuffer")
		return
	}
	t.logf("calc: ready (%dx%d, %s, theme %s)", t.fb.Width(), t.fb.Height(), t.format.Locale(), t.theme.Current())

	for msg := range ch {
		t.handleMessage(msg)
		if t.done {
			return
		}
	}
}

// start lays out the framebuffer, applies the stored theme and draws the first frame.
func (t *Task) start() bool {
	if t.fb == nil {
		return false
	}
	t.d = newFBDisplay(t.fb)
	t.l = computeLayout(t.fb.Width(), t.fb.Height(), t.plotHeight)

	t.theme.OnApply(func(th theme.Theme) { t.pal = theme.PaletteFor(th) })
	t.theme.OnChange(t.themeChanged)
	t.theme.Start()

	t.renderPlot()
	t.render()
	return true
}

func (t *Task) handleMessage(msg kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgTermInput:
		t.handleInput(msg.Payload())
		t.render()
	case proto.MsgPlotFormula:
		formula, ok := proto.DecodePlotFormulaPayload(msg.Payload())
		if !ok {
			t.logf("calc: bad plot payload (%d bytes)", len(msg.Payload()))
			return
		}
		t.formula = []rune(formula)
		t.cursor = len(t.formula)
		t.renderPlot()
		t.render()
	case proto.MsgAppShutdown:
		reason, _ := proto.DecodeAppShutdownPayload(msg.Payload())
		t.logf("calc: shutdown (%s)", reason)
		t.done = true
	}
}

func (t *Task) handleInput(b []byte) {
	if len(b) == 0 {
		return
	}
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf
	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]
		t.handleKey(k)
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}

func (t *Task) themeChanged(th theme.Theme) {
	t.logf("calc: theme %s", th)
	t.renderPlot()
}

func (t *Task) toggleTheme() {
	th, err := t.theme.Toggle()
	if err != nil {
		t.logf("calc: %v", err)
		t.message = "theme not saved"
		return
	}
	t.message = "theme: " + string(th)
}

func (t *Task) plotFormula() {
	t.renderPlot()
}

func (t *Task) logf(format string, args ...any) {
	if t.ctx == nil || !t.log.Valid() {
		return
	}
	payload := proto.LogLinePayload(fmt.Sprintf(format, args...), kernel.MaxMessageBytes)
	_ = t.ctx.Send(t.log, uint16(proto.MsgLogLine), payload)
}
