package vec_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parametriq/geosolver/expr"
	"github.com/parametriq/geosolver/vec"
)

func evalAt(t *testing.T, v vec.Vec, env expr.Env) (float64, float64, float64) {
	t.Helper()
	x, y, z, ok := v.EvalAt(env)
	require.True(t, ok)
	return x, y, z
}

func TestVec_DotCross(t *testing.T) {
	a := vec.FromFloats(1, 0, 0)
	b := vec.FromFloats(0, 1, 0)

	d, ok := a.Dot(b).EvalAt(nil)
	require.True(t, ok)
	require.Equal(t, 0.0, d)

	x, y, z := evalAt(t, a.Cross(b), nil)
	require.Equal(t, [3]float64{0, 0, 1}, [3]float64{x, y, z})
}

func TestVec_CrossAnticommutes(t *testing.T) {
	a := vec.FromFloats(1, 2, 3)
	b := vec.FromFloats(4, 5, 6)
	x1, y1, z1 := evalAt(t, a.Cross(b), nil)
	x2, y2, z2 := evalAt(t, b.Cross(a), nil)
	require.Equal(t, [3]float64{x1, y1, z1}, [3]float64{-x2, -y2, -z2})
}

func TestVec_Magnitude(t *testing.T) {
	v := vec.FromFloats(3, 4, 0)
	m, ok := v.Magnitude().EvalAt(nil)
	require.True(t, ok)
	require.InDelta(t, 5.0, m, 1e-12)
}

func TestVec_NormalizeSymbolic(t *testing.T) {
	v := vec.New(expr.S("x"), expr.S("y"), expr.N(0))
	n := v.Normalize()
	m, ok := n.MagSquared().EvalAt(expr.Env{"x": 3, "y": 4})
	require.True(t, ok)
	require.InDelta(t, 1.0, m, 1e-12)
}

func TestVec_IsConstZero(t *testing.T) {
	require.True(t, vec.Zero().IsConstZero())
	require.True(t, vec.FromFloats(1, 2, 3).Sub(vec.FromFloats(1, 2, 3)).IsConstZero())
	require.False(t, vec.New(expr.S("x"), expr.N(0), expr.N(0)).IsConstZero())
}

func TestVec_MagnitudeDifferentiable(t *testing.T) {
	v := vec.New(expr.S("x"), expr.S("y"), expr.N(0))
	d := v.Magnitude().Diff("x")
	// d|v|/dx = x/|v|
	got, ok := d.EvalAt(expr.Env{"x": 3, "y": 4})
	require.True(t, ok)
	require.InDelta(t, 0.6, got, 1e-12)
}

// ============================================================
// Frames
// ============================================================

func TestFrame_RootIsIdentity(t *testing.T) {
	f := vec.Root()
	v := vec.FromFloats(1, 2, 3)
	x, y, z := evalAt(t, f.Rotate(v), nil)
	require.Equal(t, [3]float64{1, 2, 3}, [3]float64{x, y, z})
}

func TestFrame_IdentityQuaternion(t *testing.T) {
	f := vec.FromQuaternion(expr.N(1), expr.N(0), expr.N(0), expr.N(0))
	x, y, z := evalAt(t, f.I, nil)
	require.Equal(t, [3]float64{1, 0, 0}, [3]float64{x, y, z})
	x, y, z = evalAt(t, f.K, nil)
	require.Equal(t, [3]float64{0, 0, 1}, [3]float64{x, y, z})
}

func TestFrame_QuaternionZRotation(t *testing.T) {
	// 90 degrees about z: (w,x,y,z) = (cos45, 0, 0, sin45); maps e_x to e_y.
	h := math.Sqrt(2) / 2
	f := vec.FromQuaternion(expr.N(h), expr.N(0), expr.N(0), expr.N(h))
	x, y, z := evalAt(t, f.I, nil)
	require.InDelta(t, 0, x, 1e-12)
	require.InDelta(t, 1, y, 1e-12)
	require.InDelta(t, 0, z, 1e-12)
}

func TestFrame_AxisAngleMatchesQuaternion(t *testing.T) {
	angle := 0.8
	fa := vec.FromAxisAngle(expr.N(angle), vec.FromFloats(0, 0, 1))
	fq := vec.FromQuaternion(
		expr.N(math.Cos(angle/2)), expr.N(0), expr.N(0), expr.N(math.Sin(angle/2)),
	)
	for _, pair := range [][2]vec.Vec{{fa.I, fq.I}, {fa.J, fq.J}, {fa.K, fq.K}} {
		x1, y1, z1 := evalAt(t, pair[0], nil)
		x2, y2, z2 := evalAt(t, pair[1], nil)
		require.InDelta(t, x2, x1, 1e-12)
		require.InDelta(t, y2, y1, 1e-12)
		require.InDelta(t, z2, z1, 1e-12)
	}
}

func TestFrame_ExpressInvertsRotate(t *testing.T) {
	h := math.Sqrt(2) / 2
	f := vec.FromQuaternion(expr.N(h), expr.N(0), expr.N(h), expr.N(0))
	v := vec.FromFloats(1, 2, 3)
	x, y, z := evalAt(t, f.Express(f.Rotate(v)), nil)
	require.InDelta(t, 1, x, 1e-12)
	require.InDelta(t, 2, y, 1e-12)
	require.InDelta(t, 3, z, 1e-12)
}

func TestFrame_Project(t *testing.T) {
	f := vec.Root()
	x, y, z := evalAt(t, f.Project(vec.FromFloats(3, 4, 7)), nil)
	require.Equal(t, [3]float64{3, 4, 0}, [3]float64{x, y, z})
}

func TestFrame_ComposeWithIdentity(t *testing.T) {
	h := math.Sqrt(2) / 2
	f := vec.FromQuaternion(expr.N(h), expr.N(0), expr.N(0), expr.N(h)).
		Locate(vec.FromFloats(1, 1, 1))
	g := vec.Compose(f, vec.Root())
	x, y, z := evalAt(t, g.Origin, nil)
	require.Equal(t, [3]float64{1, 1, 1}, [3]float64{x, y, z})
	x, y, z = evalAt(t, g.I, nil)
	ix, iy, iz := evalAt(t, f.I, nil)
	require.InDelta(t, ix, x, 1e-12)
	require.InDelta(t, iy, y, 1e-12)
	require.InDelta(t, iz, z, 1e-12)
}
