// Package expr is a small symbolic scalar kernel: expression trees over
// float64 coefficients with deterministic simplification, partial
// differentiation, substitution and numeric evaluation.
//
// It exists to serve the geometric constraint solver: residual equations are
// built symbolically so that gradients and Hessians can be derived exactly,
// then compiled to plain float evaluators for the optimizer.
package expr

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Env maps free symbol names to numeric values.
type Env map[string]float64

// Expr is a symbolic scalar expression. Implementations are immutable;
// Simplify and Subst return new trees.
type Expr interface {
	Simplify() Expr
	String() string
	// Subst replaces every occurrence of the named symbol with value.
	Subst(name string, value Expr) Expr
	// Diff is the partial derivative with respect to the named symbol.
	Diff(name string) Expr
	// EvalAt evaluates numerically under env. ok is false if an unbound
	// symbol remains or the value is not finite.
	EvalAt(env Env) (v float64, ok bool)
	Equal(other Expr) bool
}

// ============================================================
// Num — numeric constant
// ============================================================

type Num struct{ v float64 }

func N(v float64) *Num { return &Num{v: v} }

func (n *Num) Simplify() Expr               { return n }
func (n *Num) Subst(string, Expr) Expr      { return n }
func (n *Num) Diff(string) Expr             { return N(0) }
func (n *Num) EvalAt(Env) (float64, bool)   { return n.v, !math.IsNaN(n.v) && !math.IsInf(n.v, 0) }
func (n *Num) Float64() float64             { return n.v }
func (n *Num) IsZero() bool                 { return n.v == 0 }
func (n *Num) IsOne() bool                  { return n.v == 1 }
func (n *Num) Equal(other Expr) bool        { o, ok := other.(*Num); return ok && n.v == o.v }

func (n *Num) String() string {
	return strconv.FormatFloat(n.v, 'g', -1, 64)
}

// ============================================================
// Sym — free symbol
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) Name() string   { return s.name }

func (s *Sym) Subst(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

func (s *Sym) EvalAt(env Env) (float64, bool) {
	v, ok := env[s.name]
	return v, ok
}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

// AddOf builds a simplified sum. Nested sums are flattened, numeric terms
// folded, and like terms collected by their non-numeric part, so x + (-1)*x
// cancels to 0.
func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf is a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// NegOf is -e.
func NegOf(e Expr) Expr { return MulOf(N(-1), e) }

func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := 0.0
	coeffs := map[string]float64{}
	rests := map[string]Expr{}
	var order []string
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum += v.v
			continue
		}
		c, rest := splitCoeff(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			rests[key] = rest
		}
		coeffs[key] += c
	}
	var result []Expr
	sort.Strings(order)
	for _, key := range order {
		switch c := coeffs[key]; {
		case c == 0:
		case c == 1:
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(N(c), rests[key]))
		}
	}
	if numAccum != 0 {
		result = append(result, N(numAccum))
	}
	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff splits a simplified term into its leading numeric coefficient
// and the remaining factor. Simplified products carry at most one numeric
// factor and it comes first, so peeling it off leaves a canonical key for
// like-term collection.
func splitCoeff(e Expr) (float64, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) == 0 {
		return 1, e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return 1, e
	}
	rest := m.factors[1:]
	if len(rest) == 1 {
		return c.v, rest[0]
	}
	return c.v, &Mul{factors: rest}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) Subst(name string, value Expr) Expr {
	nt := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		nt[i] = t.Subst(name, value)
	}
	return AddOf(nt...)
}

func (a *Add) Diff(name string) Expr {
	dt := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dt[i] = t.Diff(name)
	}
	return AddOf(dt...)
}

func (a *Add) EvalAt(env Env) (float64, bool) {
	acc := 0.0
	for _, t := range a.terms {
		v, ok := t.EvalAt(env)
		if !ok {
			return 0, false
		}
		acc += v
	}
	return acc, !math.IsNaN(acc) && !math.IsInf(acc, 0)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

// MulOf builds a simplified product: flattened, numeric coefficient folded,
// remaining factors in a stable order.
func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf is a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := 1.0
	var others []Expr
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff *= v.v
		} else {
			others = append(others, f)
		}
	}
	if coeff == 0 {
		return N(0)
	}
	if len(others) == 0 {
		return N(coeff)
	}

	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff == 1 {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{N(coeff)}, others...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) Subst(name string, value Expr) Expr {
	nf := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		nf[i] = f.Subst(name, value)
	}
	return MulOf(nf...)
}

func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(name)
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...)
}

func (m *Mul) EvalAt(env Env) (float64, bool) {
	acc := 1.0
	for _, f := range m.factors {
		v, ok := f.EvalAt(env)
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, !math.IsNaN(acc) && !math.IsInf(acc, 0)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf is base^(1/2).
func SqrtOf(base Expr) Expr { return PowOf(base, N(0.5)) }

func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
		if bn, ok2 := base.(*Num); ok2 {
			v := math.Pow(bn.v, en.v)
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return N(v)
			}
			return &Pow{base: base, exp: exp}
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsZero() {
			return N(0)
		}
		if bn.IsOne() {
			return N(1)
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	}
	return baseStr + "^" + p.exp.String()
}

func (p *Pow) Subst(name string, value Expr) Expr {
	return PowOf(p.base.Subst(name, value), p.exp.Subst(name, value))
}

func (p *Pow) Diff(name string) Expr {
	du := p.base.Diff(name)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		// d(u^c) = c*u^(c-1)*du, valid for any constant c.
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	// General case d(u^v) = u^v * (dv*ln(u) + v*du/u). The solver only
	// differentiates with respect to Params, which never appear in an
	// exponent, so the constant-exponent branch above is the one exercised.
	dv := p.exp.Diff(name)
	logTerm := MulOf(dv, funcOf("ln", p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) EvalAt(env Env) (float64, bool) {
	b, ok1 := p.base.EvalAt(env)
	e, ok2 := p.exp.EvalAt(env)
	if !ok1 || !ok2 {
		return 0, false
	}
	v := math.Pow(b, e)
	return v, !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// ============================================================
// Func — named unary functions
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func SignOf(arg Expr) Expr { return funcOf("sign", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }

func evalFunc(name string, v float64) (float64, bool) {
	switch name {
	case "sin":
		return math.Sin(v), true
	case "cos":
		return math.Cos(v), true
	case "abs":
		return math.Abs(v), true
	case "sign":
		switch {
		case v > 0:
			return 1, true
		case v < 0:
			return -1, true
		}
		return 0, true
	case "ln":
		if v > 0 {
			return math.Log(v), true
		}
	}
	return 0, false
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if v, ok2 := evalFunc(f.name, n.v); ok2 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return N(v)
		}
	}
	if f.name == "abs" {
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 1 {
			if c, ok2 := m.factors[0].(*Num); ok2 && c.v < 0 {
				rest := append([]Expr{N(-c.v)}, m.factors[1:]...)
				return AbsOf(MulOf(rest...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Subst(name string, value Expr) Expr {
	return funcOf(f.name, f.arg.Subst(name, value)).Simplify()
}

func (f *Func) Diff(name string) Expr {
	du := f.arg.Diff(name)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = NegOf(SinOf(f.arg))
	case "abs":
		outer = SignOf(f.arg)
	case "sign":
		outer = N(0)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	default:
		panic(fmt.Sprintf("expr: no derivative rule for %q", f.name))
	}
	return MulOf(outer, du)
}

func (f *Func) EvalAt(env Env) (float64, bool) {
	v, ok := f.arg.EvalAt(env)
	if !ok {
		return 0, false
	}
	r, ok := evalFunc(f.name, v)
	return r, ok && !math.IsNaN(r) && !math.IsInf(r, 0)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

// ============================================================
// Free symbols
// ============================================================

// FreeSymbols returns the set of unbound symbol names appearing in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// SortedFreeSymbols returns FreeSymbols as a sorted slice, for callers that
// need deterministic iteration.
func SortedFreeSymbols(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
