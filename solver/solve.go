package solver

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/parametriq/geosolver/expr"
)

// Solve adjusts the parameters of group so that every residual equation
// involving them is driven to zero. Parameters outside the group are held
// at their current values.
//
// Each pass rebuilds the symbolic equation set, then tries two reductions
// before falling back to the minimizer: an equation with exactly one free
// symbol is solved on its own in one dimension, and an equation with exactly
// two free symbols, linear in one, eliminates that symbol by substitution.
// Either reduction
// shrinks the system and restarts the pass. What remains is minimized as a
// sum of squares by the selected algorithm, and the result is accepted only
// if the objective actually reached zero within tolerance.
func (s *System) Solve(group int) error {
	s.stats = Stats{}
	log := s.log.With().Int("group", group).Str("algo", s.algo.Name).Logger()
	log.Debug().Msg("solve start")

	for {
		s.stats.Passes++
		free, table := s.resetAll(group)

		if len(free) == 0 {
			if s.stats.SingleSolved+s.stats.Eliminated > 0 {
				// Reductions discharged the whole group.
				s.finish(log)
				return nil
			}
			return errors.Wrapf(ErrEmptyGroup, "group %d has no parameters", group)
		}

		env := make(expr.Env, len(free))
		for _, p := range free {
			env[p.sym] = p.Val
		}

		eqs, err := s.collectEquations(group, env, table)
		if err != nil {
			return err
		}
		if len(eqs) == 0 {
			if s.stats.SingleSolved+s.stats.Eliminated > 0 {
				s.finish(log)
				return nil
			}
			return errors.Wrapf(ErrEmptyGroup, "group %d has no equations", group)
		}

		restart := false
		for _, eq := range eqs {
			syms := groupSymbols(eq, table)
			if len(syms) == 1 {
				p := table[syms[0]]
				if err := solveScalar(eq, p, s.algo.Tolerance); err != nil {
					return err
				}
				p.group = groupSolved
				s.stats.SingleSolved++
				log.Debug().Str("param", p.Name()).Float64("val", p.Val).
					Msg("solved single-symbol equation")
				restart = true
				break
			}
			if len(syms) != 2 {
				continue
			}
			if p, sol, ok := tryEliminate(eq, syms, table); ok {
				p.group = groupEliminated
				p.subExpr = sol
				s.stats.Eliminated++
				log.Debug().Str("param", p.Name()).Msg("eliminated by substitution")
				restart = true
				break
			}
		}
		if restart {
			continue
		}

		if err := s.minimize(log, eqs, free); err != nil {
			return err
		}
		s.finish(log)
		return nil
	}
}

// resetAll rebuilds every symbolic object for a fresh pass and returns the
// free parameters of the group plus a symbol lookup table.
func (s *System) resetAll(group int) ([]*Param, map[string]*Param) {
	for _, p := range s.params {
		p.reset(group)
	}
	// An eliminated parameter's substitution was recorded in terms of the
	// symbols that were free when it was derived; some of those are fixed
	// numbers now. Fold them in so equations see only live symbols.
	for _, p := range s.params {
		if p.group == groupEliminated && p.subExpr != nil {
			p.symObj = s.resolve(p.symObj)
		}
	}
	for _, e := range s.entities {
		e.reset(group)
	}
	for _, c := range s.constraints {
		c.reset(group)
	}

	var free []*Param
	table := make(map[string]*Param)
	for _, p := range s.params {
		if p.free {
			free = append(free, p)
			table[p.sym] = p
		}
	}
	return free, table
}

// resolve substitutes every non-free parameter symbol in e with that
// parameter's current symbolic object, repeating until no more apply.
func (s *System) resolve(e expr.Expr) expr.Expr {
	bySym := make(map[string]*Param, len(s.params))
	for _, p := range s.params {
		bySym[p.sym] = p
	}
	for range s.params {
		changed := false
		for name := range expr.FreeSymbols(e) {
			p, ok := bySym[name]
			if !ok || p.free {
				continue
			}
			e = e.Subst(name, p.symObj)
			changed = true
		}
		if !changed {
			break
		}
	}
	return e.Simplify()
}

// collectEquations gathers the residuals of the group's own entities and
// constraints, keeping only those that reference a free symbol of the group.
// Requests from other groups stay dormant even when they mention the
// group's parameters.
func (s *System) collectEquations(group int, env expr.Env, table map[string]*Param) ([]expr.Expr, error) {
	var eqs []expr.Expr
	add := func(name string, list []expr.Expr, err error) error {
		if err != nil {
			return errors.Wrapf(err, "equations of %s", name)
		}
		for _, e := range list {
			e = e.Simplify()
			if len(groupSymbols(e, table)) == 0 {
				continue
			}
			eqs = append(eqs, e)
		}
		return nil
	}
	for _, ent := range s.entities {
		if ent.Group() != group {
			continue
		}
		list, err := ent.equations(env)
		if err := add(ent.Name(), list, err); err != nil {
			return nil, err
		}
	}
	for _, c := range s.constraints {
		if c.Group() != group {
			continue
		}
		list, err := c.equations(env)
		if err := add(c.Name(), list, err); err != nil {
			return nil, err
		}
	}
	return eqs, nil
}

// groupSymbols is the sorted free symbols of e that belong to the group.
func groupSymbols(e expr.Expr, table map[string]*Param) []string {
	var out []string
	for _, name := range expr.SortedFreeSymbols(e) {
		if _, ok := table[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// solveScalar drives a single-unknown residual to zero with a
// one-dimensional simplex search, starting from the parameter's current
// value. The equation is a hard requirement: failure is fatal for the
// whole solve.
func solveScalar(eq expr.Expr, p *Param, tol float64) error {
	fn, err := expr.Compile(expr.PowOf(eq, expr.N(2)), []string{p.sym})
	if err != nil {
		return errors.Wrapf(ErrScalarSolve, "compiling %s: %v", p.Name(), err)
	}
	prob := optimize.Problem{Func: fn}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   tol,
			Iterations: 100,
		},
	}
	res, err := optimize.Minimize(prob, []float64{p.Val}, settings, &optimize.NelderMead{})
	if res == nil {
		return errors.Wrapf(ErrScalarSolve, "%s: %v", p.Name(), err)
	}
	if res.F > math.Sqrt(tol) {
		return errors.Wrapf(ErrScalarSolve, "%s: residual %g", p.Name(), res.F)
	}
	p.Val = res.X[0]
	return nil
}

// tryEliminate looks for a free symbol the equation is linear in and solves
// for it, preferring later-sorted symbols so earlier parameters survive as
// the retained unknowns.
func tryEliminate(eq expr.Expr, syms []string, table map[string]*Param) (*Param, expr.Expr, bool) {
	for i := len(syms) - 1; i >= 0; i-- {
		sol, ok := expr.SolveFor(eq, syms[i])
		if !ok {
			continue
		}
		return table[syms[i]], sol, true
	}
	return nil, nil, false
}

// minimize assembles the sum-of-squares objective, differentiates it as far
// as the algorithm requires, and dispatches. The solution is written back
// only when the residual is accepted.
func (s *System) minimize(log zerolog.Logger, eqs []expr.Expr, free []*Param) error {
	names := make([]string, len(free))
	x0 := make([]float64, len(free))
	for i, p := range free {
		names[i] = p.sym
		x0[i] = p.Val
	}
	s.stats.Residuals = len(eqs)
	s.stats.Unknowns = len(free)

	terms := make([]expr.Expr, len(eqs))
	for i, e := range eqs {
		terms[i] = expr.PowOf(e, expr.N(2))
	}
	obj := expr.AddOf(terms...)

	fn, err := expr.Compile(obj, names)
	if err != nil {
		return errors.Wrapf(ErrOptimization, "compiling objective: %v", err)
	}
	prob := optimize.Problem{Func: fn}

	var firsts []expr.Expr
	if s.algo.NeedsJacobian {
		firsts = make([]expr.Expr, len(names))
		grads := make([]expr.Evaluator, len(names))
		for i, n := range names {
			firsts[i] = obj.Diff(n).Simplify()
			g, err := expr.Compile(firsts[i], names)
			if err != nil {
				return errors.Wrapf(ErrOptimization, "compiling gradient of %s: %v", n, err)
			}
			grads[i] = g
		}
		prob.Grad = func(grad, x []float64) {
			for i, g := range grads {
				grad[i] = g(x)
			}
		}
	}
	if s.algo.NeedsHessian {
		n := len(names)
		seconds := make([]expr.Evaluator, n*n)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				h, err := expr.Compile(firsts[i].Diff(names[j]).Simplify(), names)
				if err != nil {
					return errors.Wrapf(ErrOptimization,
						"compiling hessian (%s,%s): %v", names[i], names[j], err)
				}
				seconds[i*n+j] = h
			}
		}
		prob.Hess = func(dst *mat.SymDense, x []float64) {
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					dst.SetSym(i, j, seconds[i*n+j](x))
				}
			}
		}
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   s.algo.Tolerance,
			Iterations: 100,
		},
		GradientThreshold: s.algo.GradientThreshold,
		MajorIterations:   s.algo.MaxIterations,
		FuncEvaluations:   s.algo.MaxFuncEvals,
	}
	log.Debug().Int("residuals", len(eqs)).Int("unknowns", len(free)).
		Msg("dispatching to minimizer")

	// Acceptance hinges on the residual the minimizer actually reached, not
	// its exit status: a linesearch that gives up at a zero of the objective
	// is still a solution, and a clean convergence report on a nonzero
	// residual is still a failure.
	res, err := optimize.Minimize(prob, x0, settings, s.algo.newMethod())
	if res == nil {
		return errors.Wrapf(ErrOptimization, "%s: %v", s.algo.Name, err)
	}
	if res.F > math.Sqrt(s.algo.Tolerance) {
		if err != nil {
			return errors.Wrapf(ErrOptimization, "%s: %v (residual %g)",
				s.algo.Name, err, res.F)
		}
		return errors.Wrapf(ErrOptimization,
			"%s stopped with residual %g (%s)", s.algo.Name, res.F, res.Status)
	}
	for i, p := range free {
		p.Val = res.X[i]
	}
	log.Debug().Float64("residual", res.F).Msg("minimizer accepted")
	return nil
}

// finish back-substitutes the final values into eliminated parameters.
func (s *System) finish(log zerolog.Logger) {
	env := make(expr.Env, len(s.params))
	for _, p := range s.params {
		env[p.sym] = p.Val
	}
	for _, p := range s.params {
		if p.group != groupEliminated || p.subExpr == nil {
			continue
		}
		if v, ok := p.symObj.EvalAt(env); ok {
			p.Val = v
		}
	}
	log.Info().
		Int("passes", s.stats.Passes).
		Int("singleSolved", s.stats.SingleSolved).
		Int("eliminated", s.stats.Eliminated).
		Int("residuals", s.stats.Residuals).
		Int("unknowns", s.stats.Unknowns).
		Msg("solve done")
}
