package calc

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way the calculator stores numbers: the shortest decimal that
// round-trips, switching to exponent form ("1e+21", "5e-7") outside [1e-6, 1e21).
// Negative zero renders as "0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		n, _ := strconv.Atoi(exp)
		if n < 0 {
			return mant + "e-" + strconv.Itoa(-n)
		}
		return mant + "e+" + strconv.Itoa(n)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundResult keeps ten fractional digits, dropping binary noise such as 0.1+0.2.
func roundResult(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 10, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// numberPrefix returns the length of the longest prefix of s that reads as an unsigned
// decimal number ("12", "3.", ".5", "1.5e3", "Infinity"). It returns 0 when s does not
// start with a number.
func numberPrefix(s string) int {
	if strings.HasPrefix(s, "Infinity") {
		return len("Infinity")
	}

	i := 0
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
