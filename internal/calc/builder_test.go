package calc

import (
	"errors"
	"strings"
	"testing"

	"sparkcalc/internal/evaluator"
)

func newBuilder() *Builder { return NewBuilder(evaluator.New()) }

func TestAppendNumberLeadingDecimal(t *testing.T) {
	b := newBuilder()
	b.AppendNumber(".")
	if got := b.Current(); got != "0." {
		t.Fatalf("current=%q want %q", got, "0.")
	}

	b.ChooseOperation("+")
	b.AppendNumber(".")
	if got := b.Current(); got != "0. + 0." {
		t.Fatalf("current=%q want %q", got, "0. + 0.")
	}
}

func TestAppendNumberSingleDecimalPerSegment(t *testing.T) {
	b := newBuilder()
	for _, tok := range []string{"1", ".", "2", ".", "3"} {
		b.AppendNumber(tok)
	}
	if got := b.Current(); got != "1.23" {
		t.Fatalf("current=%q want 1.23", got)
	}

	b.ChooseOperation("×")
	for _, tok := range []string{"4", ".", ".", "5"} {
		b.AppendNumber(tok)
	}
	if got := b.Current(); got != "1.23 × 4.5" {
		t.Fatalf("current=%q want %q", got, "1.23 × 4.5")
	}
}

// Every key sequence of up to six presses drawn from digits, "." and operators leaves at
// most one decimal point in each space-delimited segment.
func TestDecimalPointsStaySingleForAllSequences(t *testing.T) {
	keys := []func(*Builder){
		func(b *Builder) { b.AppendNumber("1") },
		func(b *Builder) { b.AppendNumber("0") },
		func(b *Builder) { b.AppendNumber(".") },
		func(b *Builder) { b.ChooseOperation("+") },
		func(b *Builder) { b.ChooseOperation("÷") },
		func(b *Builder) { b.Delete() },
	}
	const depth = 6

	seq := make([]int, depth)
	total := 1
	for i := 0; i < depth; i++ {
		total *= len(keys)
	}
	for n := 0; n < total; n++ {
		v := n
		for i := range seq {
			seq[i] = v % len(keys)
			v /= len(keys)
		}

		b := NewBuilder(stubEval{})
		for _, k := range seq {
			keys[k](b)
			for _, seg := range strings.Split(b.Current(), " ") {
				if strings.Count(seg, ".") > 1 {
					t.Fatalf("keys %v: segment %q in %q", seq, seg, b.Current())
				}
			}
		}
	}
}

func TestChooseOperation(t *testing.T) {
	cases := []struct {
		op   string
		want string
	}{
		{"sin", "sin("},
		{"cos", "cos("},
		{"tan", "tan("},
		{"log", "log10("},
		{"ln", "log("},
		{"√", "sqrt("},
		{"^", "^("},
		{"+", " + "},
		{"÷", " ÷ "},
		{"(", " ( "},
	}
	for _, tc := range cases {
		b := newBuilder()
		b.ChooseOperation(tc.op)
		if got := b.Current(); got != tc.want {
			t.Fatalf("ChooseOperation(%q)=%q want %q", tc.op, got, tc.want)
		}
	}
}

func TestDelete(t *testing.T) {
	b := newBuilder()
	b.Delete()
	if got := b.Current(); got != "" {
		t.Fatalf("current=%q want empty", got)
	}

	b.AppendNumber("2")
	b.AppendNumber("π")
	b.Delete()
	if got := b.Current(); got != "2" {
		t.Fatalf("current=%q want 2", got)
	}
}

func TestNegate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"3 + 4", "3 + -4"},
		{"3 + -4", "3 + 4"},
		{"5", "-5"},
		{"-5", "5"},
		{"sin(30", "sin(-30"},
		{"2.50", "-2.5"},
		{".5", "-0.5"},
		{"0", "0"},
		{"12 × π", "-12 × π"},
		{"Error", "Error"},
		{"π", "π"},
	}
	for _, tc := range cases {
		b := newBuilder()
		b.current = tc.in
		b.Negate()
		if got := b.Current(); got != tc.want {
			t.Fatalf("Negate(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNegateTwiceRestores(t *testing.T) {
	for _, in := range []string{"3 + 4", "7", "1 ÷ 8", "log10(5"} {
		b := newBuilder()
		b.current = in
		b.Negate()
		b.Negate()
		if got := b.Current(); got != in {
			t.Fatalf("Negate twice: %q -> %q", in, got)
		}
	}
}

func TestComputeLogBase10(t *testing.T) {
	b := newBuilder()
	b.ChooseOperation("log")
	b.AppendNumber("5")
	b.ChooseOperation(")")
	// ")" is not a function key, so it arrives space-padded.
	if got := b.Current(); got != "log10(5 ) " {
		t.Fatalf("current=%q", got)
	}

	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := b.Current(); got != "0.6989700043" {
		t.Fatalf("current=%q want 0.6989700043", got)
	}
	if got := b.Previous(); got != "log10(5 )  =" {
		t.Fatalf("previous=%q", got)
	}
}

func TestComputeDivideByZero(t *testing.T) {
	b := newBuilder()
	b.current = "2 ÷ 0"
	b.previous = "1 + 1 ="

	if err := b.Compute(); !errors.Is(err, ErrNotFinite) {
		t.Fatalf("Compute err=%v want ErrNotFinite", err)
	}
	if got := b.Current(); got != ErrorText {
		t.Fatalf("current=%q want %q", got, ErrorText)
	}
	if got := b.Previous(); got != "1 + 1 =" {
		t.Fatalf("previous=%q", got)
	}
}

func TestComputeParseError(t *testing.T) {
	b := newBuilder()
	b.current = "1 + "
	if err := b.Compute(); err == nil {
		t.Fatal("expected an error")
	}
	if got := b.Current(); got != ErrorText {
		t.Fatalf("current=%q want %q", got, ErrorText)
	}
	if got := b.Previous(); got != "" {
		t.Fatalf("previous=%q want empty", got)
	}
}

func TestComputeEmptyIsNoop(t *testing.T) {
	b := newBuilder()
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if b.Current() != "" || b.Previous() != "" {
		t.Fatalf("current=%q previous=%q", b.Current(), b.Previous())
	}
}

func TestComputeRoundsAndContinues(t *testing.T) {
	b := newBuilder()
	b.current = "0.1 + 0.2"
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if b.Current() != "0.3" || b.Previous() != "0.1 + 0.2 =" {
		t.Fatalf("current=%q previous=%q", b.Current(), b.Previous())
	}

	b.current = "1234 × 1000"
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := b.Current(); got != "1234000" {
		t.Fatalf("current=%q want 1234000", got)
	}

	// The result is ordinary input for further editing.
	b.Delete()
	b.AppendNumber(".")
	b.AppendNumber("5")
	if got := b.Current(); got != "123400.5" {
		t.Fatalf("current=%q want 123400.5", got)
	}
}

func TestComputeLargeIntegers(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10000000000 × 10000000000", "100000000000000000000"},
		{"9999999999 × 9999999999", "99999999980000000000"},
		{"9223372036854775807 + 1", "9223372036854776000"},
		{"99999999999999999999", "100000000000000000000"},
	}
	for _, tc := range cases {
		b := newBuilder()
		b.current = tc.in
		if err := b.Compute(); err != nil {
			t.Fatalf("Compute(%q): %v", tc.in, err)
		}
		if got := b.Current(); got != tc.want {
			t.Fatalf("Compute(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestComputeConstantAfterDigit(t *testing.T) {
	b := newBuilder()
	b.AppendNumber("2")
	b.AppendNumber("π")
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := b.Current(); got != "6.2831853072" {
		t.Fatalf("current=%q want 6.2831853072", got)
	}
	if got := b.Previous(); got != "2π =" {
		t.Fatalf("previous=%q", got)
	}

	b.Clear()
	b.AppendNumber("3")
	b.ChooseOperation("√")
	b.AppendNumber("4")
	b.ChooseOperation(")")
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute(%q): %v", b.Previous(), err)
	}
	if got := b.Current(); got != "6" {
		t.Fatalf("current=%q want 6", got)
	}
}

type stubEval struct {
	v   float64
	err error
}

func (s stubEval) Evaluate(string) (float64, error) { return s.v, s.err }

func TestComputeUsesEvaluator(t *testing.T) {
	b := NewBuilder(stubEval{v: 42})
	b.AppendNumber("1")
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := b.Current(); got != "42" {
		t.Fatalf("current=%q want 42", got)
	}

	boom := errors.New("boom")
	b = NewBuilder(stubEval{err: boom})
	b.AppendNumber("1")
	if err := b.Compute(); !errors.Is(err, boom) {
		t.Fatalf("Compute err=%v want boom", err)
	}
	if got := b.Current(); got != ErrorText {
		t.Fatalf("current=%q want %q", got, ErrorText)
	}
}

func TestClear(t *testing.T) {
	b := newBuilder()
	b.current = "1 + 2"
	if err := b.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b.Clear()
	if b.Current() != "" || b.Previous() != "" {
		t.Fatalf("current=%q previous=%q", b.Current(), b.Previous())
	}
}
