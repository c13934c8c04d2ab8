package expr

import (
	"fmt"
	"math"
)

// Evaluator is a compiled expression: a pure function of an argument vector.
type Evaluator func(x []float64) float64

// Compile lowers e to a closure over an argument vector whose entries
// correspond positionally to names. Every free symbol of e must appear in
// names. The returned evaluator allocates nothing and may be called from
// optimizer callbacks at arbitrary points.
func Compile(e Expr, names []string) (Evaluator, error) {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	for sym := range FreeSymbols(e) {
		if _, ok := idx[sym]; !ok {
			return nil, fmt.Errorf("expr: compile: unbound symbol %q", sym)
		}
	}
	return compileNode(e.Simplify(), idx), nil
}

func compileNode(e Expr, idx map[string]int) Evaluator {
	switch v := e.(type) {
	case *Num:
		c := v.v
		return func([]float64) float64 { return c }
	case *Sym:
		i := idx[v.name]
		return func(x []float64) float64 { return x[i] }
	case *Add:
		parts := make([]Evaluator, len(v.terms))
		for i, t := range v.terms {
			parts[i] = compileNode(t, idx)
		}
		return func(x []float64) float64 {
			acc := 0.0
			for _, p := range parts {
				acc += p(x)
			}
			return acc
		}
	case *Mul:
		parts := make([]Evaluator, len(v.factors))
		for i, f := range v.factors {
			parts[i] = compileNode(f, idx)
		}
		return func(x []float64) float64 {
			acc := 1.0
			for _, p := range parts {
				acc *= p(x)
			}
			return acc
		}
	case *Pow:
		base := compileNode(v.base, idx)
		if en, ok := v.exp.(*Num); ok {
			switch en.v {
			case 2:
				return func(x []float64) float64 { b := base(x); return b * b }
			case -1:
				return func(x []float64) float64 { return 1 / base(x) }
			case 0.5:
				return func(x []float64) float64 { return math.Sqrt(base(x)) }
			}
			c := en.v
			return func(x []float64) float64 { return math.Pow(base(x), c) }
		}
		exp := compileNode(v.exp, idx)
		return func(x []float64) float64 { return math.Pow(base(x), exp(x)) }
	case *Func:
		arg := compileNode(v.arg, idx)
		switch v.name {
		case "sin":
			return func(x []float64) float64 { return math.Sin(arg(x)) }
		case "cos":
			return func(x []float64) float64 { return math.Cos(arg(x)) }
		case "abs":
			return func(x []float64) float64 { return math.Abs(arg(x)) }
		case "sign":
			return func(x []float64) float64 {
				a := arg(x)
				if a > 0 {
					return 1
				}
				if a < 0 {
					return -1
				}
				return 0
			}
		case "ln":
			return func(x []float64) float64 { return math.Log(arg(x)) }
		}
	}
	panic(fmt.Sprintf("expr: compile: unsupported node %T", e))
}
