package expr

import "math"

// PolyCoeffs decomposes e as a polynomial in the named symbol, returning
// degree -> coefficient (coefficients may contain other symbols). ok is
// false when e depends on the symbol in a non-polynomial way (inside a
// function, a fractional or symbolic power, or a non-flattenable product).
func PolyCoeffs(e Expr, name string) (map[int]Expr, bool) {
	out := map[int]Expr{}
	if !accumCoeffs(e.Simplify(), name, out) {
		return nil, false
	}
	for d, c := range out {
		out[d] = c.Simplify()
	}
	return out, true
}

func accumCoeffs(e Expr, name string, out map[int]Expr) bool {
	if add, ok := e.(*Add); ok {
		for _, t := range add.terms {
			if !accumCoeffs(t, name, out) {
				return false
			}
		}
		return true
	}
	deg, coeff, ok := termDegree(e, name)
	if !ok {
		return false
	}
	addCoeff(out, deg, coeff)
	return true
}

// termDegree splits a single (non-Add) term into x^deg * coeff.
func termDegree(e Expr, name string) (int, Expr, bool) {
	if !dependsOn(e, name) {
		return 0, e, true
	}
	switch v := e.(type) {
	case *Sym:
		return 1, N(1), true
	case *Pow:
		base, isSym := v.base.(*Sym)
		if !isSym || base.name != name || dependsOn(v.exp, name) {
			return 0, nil, false
		}
		en, isNum := v.exp.(*Num)
		if !isNum {
			return 0, nil, false
		}
		d := en.v
		if d != math.Trunc(d) || d < 1 || d > 64 {
			return 0, nil, false
		}
		return int(d), N(1), true
	case *Mul:
		deg := 0
		coeff := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			fd, fc, ok := termDegree(f, name)
			if !ok {
				return 0, nil, false
			}
			deg += fd
			coeff = append(coeff, fc)
		}
		return deg, MulOf(coeff...), true
	}
	// Add nested under Mul, Func of the symbol, symbolic exponent.
	return 0, nil, false
}

func dependsOn(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

func addCoeff(out map[int]Expr, deg int, val Expr) {
	if prev, ok := out[deg]; ok {
		out[deg] = AddOf(prev, val)
	} else {
		out[deg] = val
	}
}

// Degree is the polynomial degree of e in the named symbol, or -1 when e is
// not polynomial in it.
func Degree(e Expr, name string) int {
	coeffs, ok := PolyCoeffs(e, name)
	if !ok {
		return -1
	}
	max := 0
	for d, c := range coeffs {
		if cn, isNum := c.(*Num); isNum && cn.IsZero() {
			continue
		}
		if d > max {
			max = d
		}
	}
	return max
}

// SolveFor solves e == 0 for the named symbol in closed form. It succeeds
// only when the equation is linear in the symbol, i.e. has exactly one
// solution; anything else (quadratic or higher, non-polynomial dependence,
// vanishing leading coefficient) reports ok=false and is left to the caller.
func SolveFor(e Expr, name string) (Expr, bool) {
	coeffs, ok := PolyCoeffs(e, name)
	if !ok {
		return nil, false
	}
	for d := range coeffs {
		if d > 1 {
			if cn, isNum := coeffs[d].(*Num); !isNum || !cn.IsZero() {
				return nil, false
			}
		}
	}
	c1, has1 := coeffs[1]
	if !has1 {
		return nil, false
	}
	if cn, isNum := c1.(*Num); isNum && cn.IsZero() {
		return nil, false
	}
	c0, has0 := coeffs[0]
	if !has0 {
		return N(0), true
	}
	return MulOf(N(-1), c0, PowOf(c1, N(-1))).Simplify(), true
}
