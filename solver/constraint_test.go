package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parametriq/geosolver/expr"
	"github.com/parametriq/geosolver/vec"
)

// ============================================================
// Residual component selection
// ============================================================

func TestParallelResiduals_ComponentChoice(t *testing.T) {
	env := expr.Env{"u": 0.3, "v": 0.4, "w": 0.5}
	b := vec.New(expr.S("u"), expr.S("v"), expr.S("w"))

	eval := func(t *testing.T, e expr.Expr) float64 {
		t.Helper()
		v, ok := e.EvalAt(env)
		require.True(t, ok)
		return v
	}

	// Expected values are the cross-product components of a x b with the
	// component along the dominant axis of a dropped.
	cases := []struct {
		name   string
		a      vec.Vec
		r1, r2 float64
	}{
		{"x dominant keeps yz", vec.FromFloats(3, 1, 0.5), -1.35, 0.9},
		{"y dominant keeps zx", vec.FromFloats(1, 3, 0.5), -0.5, 1.3},
		{"z dominant keeps xy", vec.FromFloats(0.5, 1, 3), -0.7, 0.65},
		{"xy tie keeps zx", vec.FromFloats(2, 2, 1), 0.2, 0.6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parallelResiduals(env, tc.a, b)
			require.Len(t, res, 2)
			require.InDelta(t, tc.r1, eval(t, res[0]), 1e-12)
			require.InDelta(t, tc.r2, eval(t, res[1]), 1e-12)
		})
	}
}
