package evaluator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var symbols = map[rune]string{
	'÷': "/",
	'×': "*",
}

// wordOperators are the engine's spelled-out operators. A number before one is not a product.
var wordOperators = map[string]bool{
	"and":        true,
	"or":         true,
	"not":        true,
	"in":         true,
	"matches":    true,
	"contains":   true,
	"startsWith": true,
	"endsWith":   true,
}

// Rewrite translates display syntax into the engine's.
//
// Display symbols get their engine spelling, every number literal is written as a float
// so arithmetic never runs in int64, and operands written side by side are multiplied:
// "2π" becomes "2.0*pi", "2x" becomes "2.0*x" and "(x)(x)" becomes "(x)*(x)". A name
// directly before "(" is a call.
func Rewrite(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	// operand is set while the last token was a number, a name that is not called, or ")".
	operand := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(r)
			i += size

		case isDigit(s[i]) || s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]):
			lit, n := scanNumber(s[i:])
			if operand {
				b.WriteByte('*')
			}
			b.WriteString(lit)
			operand = true
			i += n

		case r == '_' || unicode.IsLetter(r):
			name, n := scanName(s[i:])
			word := wordOperators[name]
			if operand && !word {
				b.WriteByte('*')
			}
			b.WriteString(name)
			i += n
			operand = !word && !strings.HasPrefix(strings.TrimLeftFunc(s[i:], unicode.IsSpace), "(")

		case r == '(':
			if operand {
				b.WriteByte('*')
			}
			b.WriteByte('(')
			operand = false
			i++

		case r == ')':
			b.WriteByte(')')
			operand = true
			i++

		case r == '"' || r == '\'' || r == '`':
			n := scanQuoted(s[i:])
			b.WriteString(s[i : i+n])
			operand = false
			i += n

		default:
			if sym, ok := symbols[r]; ok {
				b.WriteString(sym)
			} else {
				b.WriteRune(r)
			}
			operand = false
			i += size
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanNumber reads the literal at the start of s and returns it in float form with the
// number of bytes consumed. "12" becomes "12.0", ".5" becomes "0.5" and "3." becomes "3.0".
// An exponent is only taken when digits follow it, so "2e" leaves "e" for the constant.
func scanNumber(s string) (string, int) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intEnd := i
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	mantEnd := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}

	mant := s[:mantEnd]
	if intEnd == 0 {
		mant = "0" + mant
	}
	switch {
	case intEnd == mantEnd:
		mant += ".0"
	case strings.HasSuffix(mant, "."):
		mant += "0"
	}
	return mant + s[mantEnd:i], i
}

// scanName reads an identifier. π is always a name of its own, spelled pi.
func scanName(s string) (string, int) {
	if r, size := utf8.DecodeRuneInString(s); r == 'π' {
		return "pi", size
	}
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == 'π' || r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return s[:i], i
}

// scanQuoted returns the length of the string literal at the start of s, or len(s) when it
// is unterminated.
func scanQuoted(s string) int {
	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(s)
}
