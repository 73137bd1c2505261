package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewrite(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2 ÷ 3 × π", "2.0 / 3.0 * pi"},
		{"sqrt(4)", "sqrt(4.0)"},
		{"log10(100 )", "log10(100.0 )"},
		{".5 + 3.", "0.5 + 3.0"},
		{"1e+21 - 2.5e-3", "1.0e+21 - 2.5e-3"},
		{"99999999999999999999", "99999999999999999999.0"},
		{"2π", "2.0*pi"},
		{"ππ", "pi*pi"},
		{"2x", "2.0*x"},
		{"2e", "2.0*e"},
		{"2 sin(x)", "2.0 *sin(x)"},
		{"(1 + 2)(3)", "(1.0 + 2.0)*(3.0)"},
		{"(x)2", "(x)*2.0"},
		{"x (1)", "x (1.0)"},
		{"x π", "x *pi"},
		{"3^(2", "3.0^(2.0"},
		{"x and 1", "x and 1.0"},
		{`"12"`, `"12"`},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Rewrite(tc.in), tc.in)
	}
}

func TestEvaluate(t *testing.T) {
	e := New()
	cases := []struct {
		in   string
		want float64
	}{
		{"1 + 2", 3},
		{"7 ÷ 2", 3.5},
		{"3 × 4", 12},
		{"2 ^ 10", 1024},
		{"log10(5)", math.Log10(5)},
		{"log(e)", 1},
		{"sqrt(16) + 1", 5},
		{"sin(π ÷ 2)", 1},
		{"-3 + -4", -7},
		{"(1 + 2) * 3", 9},
		{"2 ÷ 0", math.Inf(1)},
		{"2π", 2 * math.Pi},
		{"3(1 + 1)", 6},
		{"(1 + 1)(2 + 2)", 8},
		{"7 ÷ 2 × 2", 7},
	}
	for _, tc := range cases {
		got, err := e.Evaluate(tc.in)
		require.NoError(t, err, tc.in)
		require.InDelta(t, tc.want, got, 1e-12, tc.in)
	}
}

func TestEvaluateLargeIntegers(t *testing.T) {
	e := New()
	cases := []struct {
		in   string
		want float64
	}{
		{"9999999999 × 9999999999", 9999999999.0 * 9999999999.0},
		{"10000000000 × 10000000000", 1e20},
		{"9223372036854775807 + 1", 9223372036854775808.0},
		{"-9223372036854775807 - 10", -9223372036854775817.0},
		{"99999999999999999999", 1e20},
		{"2 ^ 64", 18446744073709551616.0},
	}
	for _, tc := range cases {
		got, err := e.Evaluate(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestEvaluateErrors(t *testing.T) {
	e := New()

	_, err := e.Evaluate("1 +")
	require.True(t, errors.Is(err, ErrParse), "got %v", err)

	_, err = e.Evaluate("")
	require.True(t, errors.Is(err, ErrParse), "got %v", err)

	_, err = e.Evaluate("Error")
	require.True(t, errors.Is(err, ErrParse), "got %v", err)

	_, err = e.Evaluate(`"text"`)
	require.True(t, errors.Is(err, ErrNotNumber), "got %v", err)

	_, err = e.Evaluate("sin(1, 2)")
	require.Error(t, err)
}

func TestCompileFuncBindsVariable(t *testing.T) {
	f, err := New().CompileFunc("x ^ 2 + 1", "x")
	require.NoError(t, err)

	for _, x := range []float64{-2, 0, 0.5, 3} {
		y, err := f(x)
		require.NoError(t, err)
		require.InDelta(t, x*x+1, y, 1e-12)
	}
}

func TestCompileFuncImpliedProduct(t *testing.T) {
	f, err := New().CompileFunc("2x + 3(x - 1)", "x")
	require.NoError(t, err)

	for _, x := range []float64{-1.5, 0, 2, 4e9} {
		y, err := f(x)
		require.NoError(t, err)
		require.InDelta(t, 2*x+3*(x-1), y, 1e-6)
	}
}

func TestProgramMissingValuesBindZero(t *testing.T) {
	p, err := New().Compile("x + y", "x", "y")
	require.NoError(t, err)

	got, err := p.Eval(5)
	require.NoError(t, err)
	require.Equal(t, 5.0, got)
}
