package expr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parametriq/geosolver/expr"
)

// ============================================================
// Num / Sym
// ============================================================

func TestNum_String(t *testing.T) {
	require.Equal(t, "42", expr.N(42).String())
	require.Equal(t, "-1.5", expr.N(-1.5).String())
}

func TestNum_Diff_IsZero(t *testing.T) {
	d := expr.N(5).Diff("x")
	require.Equal(t, "0", d.String())
}

func TestNum_EvalAt_NonFinite(t *testing.T) {
	_, ok := expr.N(math.Inf(1)).EvalAt(nil)
	require.False(t, ok)
}

func TestSym_Subst(t *testing.T) {
	x := expr.S("x")
	require.Equal(t, "3", x.Subst("x", expr.N(3)).String())
	require.Equal(t, "x", x.Subst("y", expr.N(3)).String())
}

func TestSym_Diff(t *testing.T) {
	require.Equal(t, "1", expr.S("x").Diff("x").String())
	require.Equal(t, "0", expr.S("x").Diff("y").String())
}

func TestSym_EvalAt_Unbound(t *testing.T) {
	_, ok := expr.S("x").EvalAt(expr.Env{"y": 1})
	require.False(t, ok)
}

// ============================================================
// Add
// ============================================================

func TestAdd_FoldsNumerics(t *testing.T) {
	e := expr.AddOf(expr.N(1), expr.S("x"), expr.N(2))
	require.Equal(t, "x + 3", e.String())
}

func TestAdd_CollectsLikeSymbols(t *testing.T) {
	e := expr.AddOf(expr.S("x"), expr.S("x"))
	require.Equal(t, "2*x", e.String())
}

func TestAdd_CancelsToZero(t *testing.T) {
	e := expr.SubOf(expr.S("x"), expr.S("x"))
	require.Equal(t, "0", e.String())
}

func TestAdd_CancelsScaledTerms(t *testing.T) {
	x := expr.S("x")
	e := expr.AddOf(expr.MulOf(expr.N(2), x), expr.MulOf(expr.N(-2), x))
	require.Equal(t, "0", e.String())
}

func TestAdd_CollectsCompoundTerms(t *testing.T) {
	sq := expr.PowOf(expr.S("x"), expr.N(2))
	e := expr.AddOf(sq, expr.MulOf(expr.N(2), sq))
	require.Equal(t, "3*x^2", e.String())

	xy := expr.MulOf(expr.S("x"), expr.S("y"))
	e = expr.SubOf(expr.MulOf(expr.N(5), xy), expr.MulOf(expr.N(5), xy))
	require.Equal(t, "0", e.String())
}

func TestAdd_Flattens(t *testing.T) {
	e := expr.AddOf(expr.AddOf(expr.S("x"), expr.N(1)), expr.N(2))
	require.Equal(t, "x + 3", e.String())
}

func TestAdd_Diff(t *testing.T) {
	e := expr.AddOf(expr.S("x"), expr.MulOf(expr.N(3), expr.S("y")))
	require.Equal(t, "1", e.Diff("x").String())
	require.Equal(t, "3", e.Diff("y").String())
}

func TestAdd_EvalAt(t *testing.T) {
	e := expr.AddOf(expr.S("x"), expr.S("y"), expr.N(1))
	v, ok := e.EvalAt(expr.Env{"x": 2, "y": 3})
	require.True(t, ok)
	require.Equal(t, 6.0, v)
}

// ============================================================
// Mul
// ============================================================

func TestMul_FoldsCoefficient(t *testing.T) {
	e := expr.MulOf(expr.N(2), expr.S("x"), expr.N(3))
	require.Equal(t, "6*x", e.String())
}

func TestMul_ZeroAnnihilates(t *testing.T) {
	e := expr.MulOf(expr.S("x"), expr.N(0))
	require.Equal(t, "0", e.String())
}

func TestMul_UnitCoefficientDrops(t *testing.T) {
	e := expr.MulOf(expr.N(1), expr.S("x"))
	require.Equal(t, "x", e.String())
}

func TestMul_StableFactorOrder(t *testing.T) {
	a := expr.MulOf(expr.S("b"), expr.S("a"))
	b := expr.MulOf(expr.S("a"), expr.S("b"))
	require.True(t, a.Equal(b))
	require.Equal(t, "a*b", a.String())
}

func TestMul_ProductRule(t *testing.T) {
	e := expr.MulOf(expr.S("x"), expr.S("y"))
	require.Equal(t, "y", e.Diff("x").String())
	require.Equal(t, "x", e.Diff("y").String())
}

func TestDivOf_EvalAt(t *testing.T) {
	e := expr.DivOf(expr.S("x"), expr.S("y"))
	v, ok := e.EvalAt(expr.Env{"x": 6, "y": 3})
	require.True(t, ok)
	require.InDelta(t, 2.0, v, 1e-12)
}

func TestDivOf_ByZeroNotFinite(t *testing.T) {
	e := expr.DivOf(expr.N(1), expr.S("y"))
	_, ok := e.EvalAt(expr.Env{"y": 0})
	require.False(t, ok)
}

// ============================================================
// Pow
// ============================================================

func TestPow_ConstantFolds(t *testing.T) {
	require.Equal(t, "8", expr.PowOf(expr.N(2), expr.N(3)).String())
}

func TestPow_ExponentIdentities(t *testing.T) {
	x := expr.S("x")
	require.Equal(t, "1", expr.PowOf(x, expr.N(0)).String())
	require.Equal(t, "x", expr.PowOf(x, expr.N(1)).String())
}

func TestPow_NestedMerges(t *testing.T) {
	e := expr.PowOf(expr.PowOf(expr.S("x"), expr.N(2)), expr.N(3))
	require.Equal(t, "x^6", e.String())
}

func TestPow_Diff(t *testing.T) {
	e := expr.PowOf(expr.S("x"), expr.N(2))
	require.Equal(t, "2*x", e.Diff("x").String())
}

func TestSqrt_Diff(t *testing.T) {
	e := expr.SqrtOf(expr.S("x"))
	d := e.Diff("x")
	v, ok := d.EvalAt(expr.Env{"x": 4})
	require.True(t, ok)
	require.InDelta(t, 0.25, v, 1e-12)
}

// ============================================================
// Func
// ============================================================

func TestFunc_ConstantFolds(t *testing.T) {
	require.Equal(t, "0", expr.SinOf(expr.N(0)).String())
	require.Equal(t, "1", expr.CosOf(expr.N(0)).String())
	require.Equal(t, "3", expr.AbsOf(expr.N(-3)).String())
}

func TestFunc_AbsPullsNegativeCoefficient(t *testing.T) {
	e := expr.AbsOf(expr.MulOf(expr.N(-2), expr.S("x")))
	require.Equal(t, "abs(2*x)", e.String())
}

func TestFunc_TrigDerivatives(t *testing.T) {
	x := expr.S("x")
	require.Equal(t, "cos(x)", expr.SinOf(x).Diff("x").String())
	d := expr.CosOf(x).Diff("x")
	v, ok := d.EvalAt(expr.Env{"x": math.Pi / 2})
	require.True(t, ok)
	require.InDelta(t, -1.0, v, 1e-12)
}

func TestFunc_AbsDerivativeIsSign(t *testing.T) {
	d := expr.AbsOf(expr.S("x")).Diff("x")
	v, ok := d.EvalAt(expr.Env{"x": -3})
	require.True(t, ok)
	require.Equal(t, -1.0, v)
}

func TestFunc_LnDomain(t *testing.T) {
	_, ok := expr.LnOf(expr.S("x")).EvalAt(expr.Env{"x": -1})
	require.False(t, ok)
}

// ============================================================
// Free symbols
// ============================================================

func TestFreeSymbols(t *testing.T) {
	e := expr.AddOf(
		expr.MulOf(expr.S("b"), expr.S("a")),
		expr.SinOf(expr.S("c")),
		expr.N(4),
	)
	require.Equal(t, []string{"a", "b", "c"}, expr.SortedFreeSymbols(e))
}

func TestFreeSymbols_AfterSubst(t *testing.T) {
	e := expr.AddOf(expr.S("x"), expr.S("y")).Subst("x", expr.N(2))
	require.Equal(t, []string{"y"}, expr.SortedFreeSymbols(e))
}
