package evaluator

import (
	"fmt"
	"math"
)

type mathFunc struct {
	name string
	fn   func(float64) float64
}

// functions are the single-argument math functions exposed to expressions.
// log is the natural logarithm; log10 and log2 are explicit.
var functions = []mathFunc{
	{"sin", math.Sin},
	{"cos", math.Cos},
	{"tan", math.Tan},
	{"asin", math.Asin},
	{"acos", math.Acos},
	{"atan", math.Atan},
	{"sinh", math.Sinh},
	{"cosh", math.Cosh},
	{"tanh", math.Tanh},
	{"sqrt", math.Sqrt},
	{"cbrt", math.Cbrt},
	{"log", math.Log},
	{"log10", math.Log10},
	{"log2", math.Log2},
	{"exp", math.Exp},
}

func (f mathFunc) call() func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", f.name, len(params))
		}
		x, ok := toFloat(params[0])
		if !ok {
			return nil, fmt.Errorf("%s: argument is %T, not a number", f.name, params[0])
		}
		return f.fn(x), nil
	}
}
