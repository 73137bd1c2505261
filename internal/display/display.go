// Package display renders calculator strings for presentation.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// AutoLocale asks New to use the system locale.
const AutoLocale = "auto"

// Formatter groups the integer digits of numbers with the locale's thousands separator.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Formatter for a BCP 47 locale tag. An empty tag means English; AutoLocale
// detects the system locale and falls back to English when detection fails.
func New(tag string) (*Formatter, error) {
	var t language.Tag
	switch tag {
	case "":
		t = language.English
	case AutoLocale:
		t = DetectLocale()
	default:
		parsed, err := language.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("display: locale %q: %w", tag, err)
		}
		t = parsed
	}
	return &Formatter{tag: t, printer: message.NewPrinter(t)}, nil
}

// DetectLocale returns the system locale, or English if it cannot be determined.
func DetectLocale() language.Tag {
	name, err := locale.GetLocale()
	if err != nil || name == "" {
		return language.English
	}
	t, err := language.Parse(name)
	if err != nil {
		return language.English
	}
	return t
}

// Locale returns the tag the Formatter groups digits for.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Format renders the calculator's current expression.
//
// "Error" and "NaN" render as "Error". A plain number has its integer part grouped and its
// fraction kept as typed; ".5" renders as "0.5". Inside an expression every number is
// rendered the same way and everything else is kept verbatim.
func (f *Formatter) Format(s string) string {
	if s == "Error" || s == "NaN" {
		return "Error"
	}
	if isPlainNumber(s) {
		return f.formatNumber(s)
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	for i := 0; i < len(s); {
		if !isNumberByte(s[i]) || (i > 0 && isWordByte(s[i-1])) {
			j := i + 1
			// Digits glued to a name ("log10") belong to the name.
			for j < len(s) && isNumberByte(s[j]) && isWordByte(s[j-1]) {
				j++
			}
			b.WriteString(s[i:j])
			i = j
			continue
		}
		j := i
		for j < len(s) && isNumberByte(s[j]) {
			j++
		}
		b.WriteString(f.formatNumber(s[i:j]))
		i = j
	}
	return b.String()
}

func (f *Formatter) formatNumber(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		if hasFrac {
			return "0." + frac
		}
		return ""
	}
	if intPart == "-" {
		if hasFrac {
			return "-0." + frac
		}
		return s
	}

	v, err := strconv.ParseFloat(intPart, 64)
	if err != nil {
		return s
	}
	grouped := f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

// isPlainNumber reports whether s is an optionally negative decimal number without an
// exponent. Exponent forms such as "1e+21" are not plain and render verbatim.
func isPlainNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	dots := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '.':
			dots++
		case s[i] >= '0' && s[i] <= '9':
		default:
			return false
		}
	}
	return dots <= 1
}

func isNumberByte(c byte) bool { return c == '.' || (c >= '0' && c <= '9') }

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
