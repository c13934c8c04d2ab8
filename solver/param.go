package solver

import "github.com/parametriq/geosolver/expr"

// Sentinel groups a Param is moved into once the reduction loop binds it.
// Excluded from every later pass of the current solve and from later solves
// of the original group.
const (
	groupSolved     = -1 // bound numerically by the single-symbol reduction
	groupEliminated = -2 // bound algebraically; carries a substitution expression
)

// Param is a named scalar unknown. Its identity is the unique symbol name;
// value and free/fixed state change across solves of different groups.
type Param struct {
	name string
	sym  string
	Val  float64

	group int
	free  bool

	// symObj is the expression entities see: the free symbol while this
	// param's group is being solved, otherwise its fixed numeric value, or
	// the recorded substitution for an eliminated param.
	symObj  expr.Expr
	subExpr expr.Expr
}

func (p *Param) Name() string { return p.name }
func (p *Param) Group() int   { return p.group }
func (p *Param) Free() bool   { return p.free }

// Expr is the parameter's current symbolic form. Valid between reset calls.
func (p *Param) Expr() expr.Expr { return p.symObj }

func (p *Param) reset(g int) {
	if p.group == g {
		p.symObj = expr.S(p.sym)
		p.free = true
		return
	}
	p.free = false
	if p.group == groupEliminated && p.subExpr != nil {
		// Inline the substitution so equations referencing this param are
		// rewritten in terms of the retained unknown.
		p.symObj = p.subExpr
		return
	}
	p.symObj = expr.N(p.Val)
}
