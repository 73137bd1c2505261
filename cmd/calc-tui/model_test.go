package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"sparkcalc/internal/calc"
	"sparkcalc/internal/display"
	"sparkcalc/internal/evaluator"
	"sparkcalc/internal/plot"
	"sparkcalc/internal/theme"
)

type mapStore struct {
	m    map[string]string
	fail bool
}

func (s *mapStore) Get(k string) (string, bool) {
	v, ok := s.m[k]
	return v, ok
}

func (s *mapStore) Set(k, v string) error {
	if s.fail {
		return errors.New("read-only")
	}
	s.m[k] = v
	return nil
}

func newTestModel(t *testing.T, store *mapStore) *model {
	t.Helper()
	f, err := display.New("en")
	require.NoError(t, err)
	eng := evaluator.New()
	p := plot.New(eng)
	p.Scale = defaultScale
	return newModel(modelConfig{
		Builder:   calc.NewBuilder(eng),
		Formatter: f,
		Theme:     theme.NewManager(store),
		Plotter:   p,
		Formula:   "x",
	})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(m *model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestTypingAndCompute(t *testing.T) {
	m := newTestModel(t, &mapStore{m: map[string]string{}})

	send(m, runes("1234*1000"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "1234000", m.builder.Current())
	require.Equal(t, "1234 * 1000 =", m.builder.Previous())
	require.Contains(t, m.View(), "1,234,000")

	send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "123400", m.builder.Current())

	send(m, tea.KeyMsg{Type: tea.KeyEsc}, runes("2/0="))
	require.Equal(t, calc.ErrorText, m.builder.Current())
	require.Equal(t, "result is not finite", m.message)
}

func TestSelectionAndSpace(t *testing.T) {
	m := newTestModel(t, &mapStore{m: map[string]string{}})
	send(m, runes("5"), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, "-5", m.builder.Current())
}

func TestFormulaFocusAndPlot(t *testing.T) {
	m := newTestModel(t, &mapStore{m: map[string]string{}})
	require.Equal(t, m.plotCols()*2, m.stats.Samples)

	send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusFormula, m.focus)

	send(m, runes("*x"))
	require.Equal(t, "x*x", m.input.Value())
	require.Equal(t, "", m.builder.Current())

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, strings.HasPrefix(m.message, "plot:"))

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, focusKeypad, m.focus)
}

func TestToggleTheme(t *testing.T) {
	store := &mapStore{m: map[string]string{}}
	m := newTestModel(t, store)
	before := m.plotView

	send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, theme.Dark, m.theme.Current())
	require.Equal(t, "dark", store.m[theme.Key])
	require.Contains(t, m.View(), "[x] dark")
	require.NotEmpty(t, before)

	store.fail = true
	send(m, tea.KeyMsg{Type: tea.KeyF1})
	require.Equal(t, theme.Light, m.theme.Current())
	require.True(t, strings.HasPrefix(m.message, "theme not saved"))
}

func TestWindowSizeReplots(t *testing.T) {
	m := newTestModel(t, &mapStore{m: map[string]string{}})
	send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Equal(t, (120-panelWidth-6)*2, m.stats.Samples)
	require.Equal(t, 34, strings.Count(m.plotView, "\n")+1)
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, &mapStore{m: map[string]string{}})
	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
