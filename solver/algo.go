package solver

import (
	"sort"

	"gonum.org/v1/gonum/optimize"
)

const defaultTolerance = 1e-9

// Algorithm describes one minimizer the solver can dispatch to, plus its
// derivative requirements and termination tunables. Tunables are exposed as
// a flat option map for external configuration.
type Algorithm struct {
	ID   int
	Name string

	// NeedsJacobian and NeedsHessian control how much symbolic
	// differentiation the solve performs before dispatch.
	NeedsJacobian bool
	NeedsHessian  bool

	Tolerance float64
	// GradientThreshold terminates gradient-based methods once the
	// objective gradient norm falls below it.
	GradientThreshold float64
	MaxIterations     int
	MaxFuncEvals      int

	method func(a *Algorithm) optimize.Method
}

// Options reports the non-zero tunables by name.
func (a *Algorithm) Options() map[string]any {
	out := map[string]any{"tol": a.Tolerance}
	if a.MaxIterations > 0 {
		out["maxiter"] = a.MaxIterations
	}
	if a.MaxFuncEvals > 0 {
		out["maxfev"] = a.MaxFuncEvals
	}
	return out
}

func (a *Algorithm) newMethod() optimize.Method { return a.method(a) }

var algorithms = []*Algorithm{
	{
		ID: 0, Name: "NelderMead",
		Tolerance:    defaultTolerance,
		MaxFuncEvals: 20000,
		method: func(*Algorithm) optimize.Method {
			return &optimize.NelderMead{}
		},
	},
	{
		ID: 1, Name: "GradientDescent",
		NeedsJacobian:     true,
		Tolerance:         defaultTolerance,
		GradientThreshold: 1e-8,
		MaxIterations:     5000,
		method: func(*Algorithm) optimize.Method {
			return &optimize.GradientDescent{}
		},
	},
	{
		ID: 2, Name: "CG",
		NeedsJacobian:     true,
		Tolerance:         defaultTolerance,
		GradientThreshold: 1e-8,
		MaxIterations:     5000,
		method: func(*Algorithm) optimize.Method {
			return &optimize.CG{}
		},
	},
	{
		ID: 3, Name: "BFGS",
		NeedsJacobian:     true,
		Tolerance:         defaultTolerance,
		GradientThreshold: 1e-8,
		MaxIterations:     2000,
		method: func(*Algorithm) optimize.Method {
			return &optimize.BFGS{}
		},
	},
	{
		ID: 4, Name: "LBFGS",
		NeedsJacobian:     true,
		Tolerance:         defaultTolerance,
		GradientThreshold: 1e-8,
		MaxIterations:     2000,
		method: func(*Algorithm) optimize.Method {
			return &optimize.LBFGS{}
		},
	},
	{
		ID: 5, Name: "Newton",
		NeedsJacobian:     true,
		NeedsHessian:      true,
		Tolerance:         defaultTolerance,
		GradientThreshold: 1e-8,
		MaxIterations:     1000,
		method: func(*Algorithm) optimize.Method {
			return &optimize.Newton{}
		},
	},
}

// Algorithms lists the registered minimizers sorted by name.
func Algorithms() []*Algorithm {
	out := make([]*Algorithm, len(algorithms))
	copy(out, algorithms)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AlgorithmByName finds a registered minimizer. The second return is false
// when the name is unknown.
func AlgorithmByName(name string) (*Algorithm, bool) {
	for _, a := range algorithms {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// DefaultAlgorithm is the minimizer used when none is chosen explicitly.
func DefaultAlgorithm() *Algorithm {
	a, _ := AlgorithmByName("BFGS")
	return a
}
