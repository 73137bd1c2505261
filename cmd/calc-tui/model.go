package main

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sparkcalc/internal/calc"
	"sparkcalc/internal/display"
	"sparkcalc/internal/plot"
	"sparkcalc/internal/theme"
)

type focus int

const (
	focusKeypad focus = iota
	focusFormula
)

const (
	keyWidth   = 6
	panelWidth = calc.KeypadCols * keyWidth
	minPlotW   = 20
	minPlotH   = 8
)

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	panel     lipgloss.Style
	current   lipgloss.Style
	previous  lipgloss.Style
	key       lipgloss.Style
	keyOp     lipgloss.Style
	keyAccent lipgloss.Style
	selected  lipgloss.Style
	plot      lipgloss.Style
	formula   lipgloss.Style
	status    lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	key := lipgloss.NewStyle().Width(keyWidth).Align(lipgloss.Center).Foreground(hexColor(p.KeyText))
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(hexColor(p.Text)),
		muted:     lipgloss.NewStyle().Foreground(hexColor(p.TextMuted)),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(hexColor(p.Grid)).Background(hexColor(p.Panel)),
		current:   lipgloss.NewStyle().Width(panelWidth).Align(lipgloss.Right).Bold(true).Foreground(hexColor(p.Text)),
		previous:  lipgloss.NewStyle().Width(panelWidth).Align(lipgloss.Right).Foreground(hexColor(p.TextMuted)),
		key:       key.Background(hexColor(p.Key)),
		keyOp:     key.Background(hexColor(p.KeyOp)),
		keyAccent: key.Background(hexColor(p.KeyAccent)),
		selected:  key.Background(hexColor(p.Selection)).Bold(true),
		plot:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(hexColor(p.Grid)),
		formula:   lipgloss.NewStyle().Foreground(hexColor(p.Text)),
		status:    lipgloss.NewStyle().Foreground(hexColor(p.TextMuted)),
	}
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

type model struct {
	builder *calc.Builder
	format  *display.Formatter
	theme   *theme.Manager
	plotter *plot.Plotter

	input  textinput.Model
	focus  focus
	selRow int
	selCol int

	width  int
	height int

	st       styles
	plotView string
	stats    plot.Stats
	message  string
}

type modelConfig struct {
	Builder   *calc.Builder
	Formatter *display.Formatter
	Theme     *theme.Manager
	Plotter   *plot.Plotter
	Formula   string
}

func newModel(cfg modelConfig) *model {
	in := textinput.New()
	in.Prompt = "f(x) = "
	in.Placeholder = "sin(x)"
	in.CharLimit = 120
	in.SetValue(cfg.Formula)
	in.Blur()

	row, col, _ := calc.FindButton("=")
	m := &model{
		builder: cfg.Builder,
		format:  cfg.Formatter,
		theme:   cfg.Theme,
		plotter: cfg.Plotter,
		input:   in,
		selRow:  row,
		selCol:  col,
		width:   80,
		height:  24,
	}
	m.theme.OnApply(func(t theme.Theme) { m.st = newStyles(theme.PaletteFor(t)) })
	m.theme.OnChange(func(theme.Theme) { m.replot() })
	m.theme.Start()
	m.replot()
	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = m.plotCols() - len(m.input.Prompt)
		m.replot()
		return m, nil
	case tea.KeyMsg:
		m.message = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t", "f1":
			m.toggleTheme()
			return m, nil
		}
		if m.focus == focusFormula {
			return m.formulaKey(msg)
		}
		return m, m.keypadKey(msg)
	}
	return m, nil
}

func (m *model) keypadKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.report(m.builder.Compute())
	case "backspace":
		m.builder.Delete()
	case "esc":
		m.builder.Clear()
	case "tab", "f2":
		m.focus = focusFormula
		return m.input.Focus()
	case "up":
		m.move(-1, 0)
	case "down":
		m.move(1, 0)
	case "left":
		m.move(0, -1)
	case "right":
		m.move(0, 1)
	case " ":
		m.report(m.builder.Press(calc.Keypad[m.selRow][m.selCol]))
	default:
		if msg.Type != tea.KeyRunes {
			return nil
		}
		for _, r := range msg.Runes {
			if b, ok := calc.KeyButton(r); ok {
				m.report(m.builder.Press(b))
			}
		}
	}
	return nil
}

func (m *model) formulaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.replot()
		return m, nil
	case "tab", "f2", "esc":
		m.focus = focusKeypad
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) move(dr, dc int) {
	m.selRow = min(max(m.selRow+dr, 0), calc.KeypadRows-1)
	m.selCol = min(max(m.selCol+dc, 0), calc.KeypadCols-1)
}

func (m *model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, calc.ErrNotFinite):
		m.message = "result is not finite"
	default:
		m.message = "cannot evaluate"
	}
}

func (m *model) toggleTheme() {
	t, err := m.theme.Toggle()
	if err != nil {
		m.message = "theme not saved: " + err.Error()
		return
	}
	m.message = "theme: " + string(t)
}

func (m *model) plotCols() int {
	return max(m.width-panelWidth-6, minPlotW)
}

func (m *model) plotRows() int {
	return max(m.height-6, minPlotH)
}

// replot redraws the cached plot for the current formula, size and theme.
func (m *model) replot() {
	p := m.theme.Palette()
	canvas := newBrailleCanvas(m.plotCols(), m.plotRows(), p.Background)
	formula := m.input.Value()
	stats, err := m.plotter.Draw(plot.FullRaster(canvas), formula, plot.Colors{
		Background: p.Background,
		Grid:       p.Grid,
		Axis:       p.Axis,
		Function:   p.Function,
	})
	m.stats = stats
	m.plotView = canvas.Render()
	switch {
	case err != nil:
		m.message = "plot: cannot compile " + formula
	case formula != "":
		m.message = fmt.Sprintf("plot: %d samples, %d skipped", stats.Samples, stats.Skipped)
	}
}

func (m *model) View() string {
	check := "[ ]"
	if m.theme.Current().IsDark() {
		check = "[x]"
	}
	header := m.st.title.Render("sparkcalc") + "  " + m.st.muted.Render(check+" dark")

	panel := m.st.panel.Render(lipgloss.JoinVertical(lipgloss.Right,
		m.st.previous.Render(tail(m.format.Format(m.builder.Previous()), panelWidth)),
		m.st.current.Render(tail(m.format.Format(m.builder.Current()), panelWidth)),
	))

	rows := make([]string, 0, calc.KeypadRows)
	for r := range calc.Keypad {
		cells := make([]string, 0, calc.KeypadCols)
		for c, b := range calc.Keypad[r] {
			cells = append(cells, m.keyStyle(r, c, b.Tag).Render(b.Label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, panel, lipgloss.JoinVertical(lipgloss.Left, rows...))

	right := lipgloss.JoinVertical(lipgloss.Left, m.st.plot.Render(m.plotView), m.st.formula.Render(m.input.View()))

	status := m.message
	if status == "" {
		if m.focus == focusFormula {
			status = "enter plot · tab keypad · f1 theme · ctrl+c quit"
		} else {
			status = "space press · tab formula · f1 theme · ctrl+c quit"
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		m.st.status.Render(status),
	)
}

func (m *model) keyStyle(row, col int, tag calc.ButtonTag) lipgloss.Style {
	if m.focus == focusKeypad && row == m.selRow && col == m.selCol {
		return m.st.selected
	}
	switch tag {
	case calc.TagNumber, calc.TagConstant:
		return m.st.key
	case calc.TagEquals:
		return m.st.keyAccent
	default:
		return m.st.keyOp
	}
}

// tail keeps the last n runes of s.
func tail(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[len(rs)-n:])
}

var _ tea.Model = (*model)(nil)
