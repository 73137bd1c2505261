package calc

import (
	"errors"
	"unicode"

	"sparkcalc/internal/calc"
)

func (t *Task) handleKey(k key) {
	t.message = ""
	// F1 works in both focus modes.
	if k.kind == keyF1 {
		t.toggleTheme()
		return
	}
	if t.focus == focusFormula {
		t.formulaKey(k)
		return
	}
	t.keypadKey(k)
}

func (t *Task) keypadKey(k key) {
	switch k.kind {
	case keyEnter:
		t.compute()
	case keyBackspace:
		t.builder.Delete()
	case keyEsc:
		t.builder.Clear()
	case keyTab, keyF2:
		t.focus = focusFormula
	case keyUp:
		t.moveSelection(-1, 0)
	case keyDown:
		t.moveSelection(1, 0)
	case keyLeft:
		t.moveSelection(0, -1)
	case keyRight:
		t.moveSelection(0, 1)
	case keyRune:
		t.keypadRune(k.r)
	}
}

func (t *Task) keypadRune(r rune) {
	if r == ' ' {
		t.press(calc.Keypad[t.selRow][t.selCol])
		return
	}
	if b, ok := calc.KeyButton(r); ok {
		t.press(b)
	}
}

func (t *Task) press(b calc.Button) {
	t.report(t.builder.Press(b))
}

func (t *Task) compute() {
	t.report(t.builder.Compute())
}

// report turns a Compute error into a status message.
func (t *Task) report(err error) {
	switch {
	case err == nil:
		t.message = ""
	case errors.Is(err, calc.ErrNotFinite):
		t.message = "result is not finite"
	default:
		t.message = "cannot evaluate"
	}
}

func (t *Task) moveSelection(dr, dc int) {
	t.selRow = clampInt(t.selRow+dr, 0, calc.KeypadRows-1)
	t.selCol = clampInt(t.selCol+dc, 0, calc.KeypadCols-1)
}

func (t *Task) formulaKey(k key) {
	switch k.kind {
	case keyTab, keyF2, keyEsc:
		t.focus = focusKeypad
	case keyEnter:
		t.plotFormula()
	case keyLeft:
		if t.cursor > 0 {
			t.cursor--
		}
	case keyRight:
		if t.cursor < len(t.formula) {
			t.cursor++
		}
	case keyHome:
		t.cursor = 0
	case keyEnd:
		t.cursor = len(t.formula)
	case keyBackspace:
		if t.cursor > 0 {
			t.formula = append(t.formula[:t.cursor-1], t.formula[t.cursor:]...)
			t.cursor--
		}
	case keyDelete:
		if t.cursor < len(t.formula) {
			t.formula = append(t.formula[:t.cursor], t.formula[t.cursor+1:]...)
		}
	case keyRune:
		if !unicode.IsPrint(k.r) {
			return
		}
		t.formula = append(t.formula, 0)
		copy(t.formula[t.cursor+1:], t.formula[t.cursor:])
		t.formula[t.cursor] = k.r
		t.cursor++
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
