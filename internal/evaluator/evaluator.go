// Package evaluator adapts the calculator's display syntax to the expr-lang/expr engine.
package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	// ErrParse reports an expression the engine could not compile.
	ErrParse = errors.New("evaluator: parse error")
	// ErrEval reports a runtime failure inside the engine.
	ErrEval = errors.New("evaluator: evaluation error")
	// ErrNotNumber reports a result that is not a real number.
	ErrNotNumber = errors.New("evaluator: result is not a number")
)

// Engine evaluates calculator expressions.
//
// An Engine is immutable after New and safe for concurrent use; the Programs it
// compiles are not.
type Engine struct {
	constants map[string]float64
	options   []expr.Option
}

// New returns an Engine with the scientific function set and the constants pi and e.
func New() *Engine {
	e := &Engine{constants: map[string]float64{
		"pi": math.Pi,
		"e":  math.E,
	}}
	for _, f := range functions {
		e.options = append(e.options, expr.Function(f.name, f.call()))
	}
	return e
}

// Evaluate rewrites and evaluates expression with no variables bound.
func (e *Engine) Evaluate(expression string) (float64, error) {
	p, err := e.Compile(expression)
	if err != nil {
		return 0, err
	}
	return p.Eval()
}

// Compile prepares expression for repeated evaluation. vars names the variables bound
// positionally by Program.Eval.
func (e *Engine) Compile(expression string, vars ...string) (*Program, error) {
	src := strings.TrimSpace(Rewrite(expression))
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}

	env := make(map[string]any, len(e.constants)+len(vars))
	for name, v := range e.constants {
		env[name] = v
	}
	for _, name := range vars {
		env[name] = 0.0
	}

	opts := make([]expr.Option, 0, len(e.options)+1)
	opts = append(opts, expr.Env(env))
	opts = append(opts, e.options...)
	prog, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Program{prog: prog, env: env, vars: vars}, nil
}

// CompileFunc compiles expression as a function of a single variable.
func (e *Engine) CompileFunc(expression, variable string) (func(float64) (float64, error), error) {
	p, err := e.Compile(expression, variable)
	if err != nil {
		return nil, err
	}
	return func(v float64) (float64, error) { return p.Eval(v) }, nil
}

// Program is a compiled expression. It reuses its environment between calls.
type Program struct {
	prog *vm.Program
	env  map[string]any
	vars []string
}

// Eval runs the program with values bound to the variables given to Compile, in order.
// Missing values bind to zero.
func (p *Program) Eval(values ...float64) (float64, error) {
	for i, name := range p.vars {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		p.env[name] = v
	}

	out, err := expr.Run(p.prog, p.env)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEval, err)
	}
	v, ok := toFloat(out)
	if !ok {
		return 0, fmt.Errorf("%w: %T", ErrNotNumber, out)
	}
	return v, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
