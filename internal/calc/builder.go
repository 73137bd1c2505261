// Package calc accumulates calculator keystrokes into an expression string.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrorText is shown in place of the expression after a failed evaluation.
const ErrorText = "Error"

// ErrNotFinite reports an evaluation that produced an infinity or NaN.
var ErrNotFinite = errors.New("calc: result is not finite")

// Evaluator computes the value of an expression written in display syntax.
type Evaluator interface {
	Evaluate(expression string) (float64, error)
}

// functionOps maps the keypad function labels to the call prefix they insert.
var functionOps = map[string]string{
	"sin": "sin(",
	"cos": "cos(",
	"tan": "tan(",
	"log": "log10(",
	"√":   "sqrt(",
	"ln":  "log(",
	"^":   "^(",
}

// Builder holds the in-progress expression and the label of the last evaluation.
type Builder struct {
	eval     Evaluator
	current  string
	previous string
}

func NewBuilder(eval Evaluator) *Builder {
	return &Builder{eval: eval}
}

// Current returns the expression being edited (or the last result).
func (b *Builder) Current() string { return b.current }

// Previous returns the "<expr> =" label of the last successful evaluation.
func (b *Builder) Previous() string { return b.previous }

func (b *Builder) Clear() {
	b.current = ""
	b.previous = ""
}

// Delete removes the last character of the expression.
func (b *Builder) Delete() {
	if b.current == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.current)
	b.current = b.current[:len(b.current)-size]
}

// AppendNumber appends a digit, a decimal point or a constant symbol.
//
// A leading "." becomes "0.", and a second "." in the same space-delimited segment is dropped.
func (b *Builder) AppendNumber(token string) {
	if token == "." {
		if b.current == "" || strings.HasSuffix(b.current, " ") {
			b.current += "0"
		}
		last := b.current[strings.LastIndexByte(b.current, ' ')+1:]
		if strings.Contains(last, ".") {
			return
		}
	}
	b.current += token
}

// ChooseOperation appends a function call prefix or a space-padded binary operator.
func (b *Builder) ChooseOperation(op string) {
	if call, ok := functionOps[op]; ok {
		b.current += call
		return
	}
	b.current += " " + op + " "
}

// Negate flips the sign of the last number in the expression.
func (b *Builder) Negate() {
	if b.current == "" {
		return
	}
	parts := splitKeepDelims(b.current)

	for i := len(parts) - 1; i >= 0; i-- {
		n := numberPrefix(parts[i])
		if n == 0 {
			continue
		}
		if i > 0 && parts[i-1] == "-" && unaryMinusAt(parts, i-1) {
			parts[i-1] = ""
		} else {
			v, err := strconv.ParseFloat(strings.Replace(parts[i][:n], "Infinity", "Inf", 1), 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return
			}
			parts[i] = FormatNumber(-v) + parts[i][n:]
		}
		b.current = strings.Join(parts, "")
		return
	}
}

// Compute evaluates the expression. On success the expression moves to the previous label
// and the rounded result replaces it; on failure the expression becomes ErrorText.
// The returned error is informational; the builder state already reflects it.
func (b *Builder) Compute() error {
	if b.current == "" {
		return nil
	}
	v, err := b.eval.Evaluate(b.current)
	if err == nil && (math.IsInf(v, 0) || math.IsNaN(v)) {
		err = fmt.Errorf("%w: %v", ErrNotFinite, v)
	}
	if err != nil {
		b.current = ErrorText
		return err
	}

	b.previous = b.current + " ="
	b.current = FormatNumber(roundResult(v))
	return nil
}

func isDelim(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '(', ')':
		return true
	}
	return unicode.IsSpace(r)
}

// splitKeepDelims splits s around single-rune delimiters, keeping each delimiter as its own
// element. Adjacent delimiters produce empty elements between them.
func splitKeepDelims(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if !isDelim(r) {
			continue
		}
		parts = append(parts, s[start:i], string(r))
		start = i + utf8.RuneLen(r)
	}
	return append(parts, s[start:])
}

// unaryMinusAt reports whether the "-" at parts[i] is a sign rather than a subtraction:
// it follows the start of the expression, whitespace, "(" or another operator.
func unaryMinusAt(parts []string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		p := parts[j]
		if p == "" {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(p)
		if unicode.IsSpace(r) {
			return true
		}
		switch p {
		case "(", "+", "-", "*", "/", "÷", "×", "^":
			return true
		}
		return false
	}
	return true
}
