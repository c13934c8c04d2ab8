package sketch_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parametriq/geosolver/sketch"
	"github.com/parametriq/geosolver/solver"
)

const triangleTOML = `
algorithm = "BFGS"

[[points]]
name = "a"
at = [0.0, 0.0, 0.0]
pin = "xyz"

[[points]]
name = "b"
at = [2.8, 0.3, 0.0]
pin = "z"

[[points]]
name = "c"
at = [0.2, 3.9, 0.0]
pin = "z"

[[lines]]
name = "ab"
from = "a"
to = "b"

[[constraints]]
kind = "distance"
value = 3.0
points = ["a", "b"]

[[constraints]]
kind = "distance"
value = 4.0
points = ["a", "c"]

[[constraints]]
kind = "distance"
value = 5.0
points = ["b", "c"]
`

func pointDist(a, b *solver.Point3D) float64 {
	dx := a.X.Val - b.X.Val
	dy := a.Y.Val - b.Y.Val
	dz := a.Z.Val - b.Z.Val
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func TestSketch_TriangleRoundTrip(t *testing.T) {
	sk, err := sketch.Parse([]byte(triangleTOML))
	require.NoError(t, err)
	require.Equal(t, "BFGS", sk.Algorithm)

	s := solver.New("triangle")
	m, err := sk.Build(s)
	require.NoError(t, err)
	require.Len(t, m.Points, 3)
	require.Len(t, m.Lines, 1)

	require.NoError(t, s.Solve(sketch.MovableGroup))
	require.InDelta(t, 3, pointDist(m.Points["a"], m.Points["b"]), 1e-3)
	require.InDelta(t, 4, pointDist(m.Points["a"], m.Points["c"]), 1e-3)
	require.InDelta(t, 5, pointDist(m.Points["b"], m.Points["c"]), 1e-3)

	// The fully pinned point never moved.
	require.Equal(t, 0.0, m.Points["a"].X.Val)
}

func TestSketch_PinnedCoordinatesStayFixed(t *testing.T) {
	sk, err := sketch.Parse([]byte(triangleTOML))
	require.NoError(t, err)
	s := solver.New("pins")
	m, err := sk.Build(s)
	require.NoError(t, err)
	require.NoError(t, s.Solve(sketch.MovableGroup))
	require.Equal(t, 0.0, m.Points["b"].Z.Val)
	require.Equal(t, 0.0, m.Points["c"].Z.Val)
}

func TestSketch_UnknownAlgorithm(t *testing.T) {
	_, err := sketch.Parse([]byte(`
algorithm = "Simplex9000"
[[points]]
name = "a"
at = [0.0, 0.0, 0.0]
`))
	require.Error(t, err)
}

func TestSketch_BadPin(t *testing.T) {
	_, err := sketch.Parse([]byte(`
[[points]]
name = "a"
at = [0.0, 0.0, 0.0]
pin = "xw"
`))
	require.Error(t, err)
}

func TestSketch_WrongCoordinateCount(t *testing.T) {
	_, err := sketch.Parse([]byte(`
[[points]]
name = "a"
at = [0.0, 0.0]
`))
	require.Error(t, err)
}

func TestSketch_LineUnknownPoint(t *testing.T) {
	_, err := sketch.Parse([]byte(`
[[points]]
name = "a"
at = [0.0, 0.0, 0.0]

[[lines]]
name = "ab"
from = "a"
to = "b"
`))
	require.Error(t, err)
}

func TestSketch_DuplicatePoint(t *testing.T) {
	_, err := sketch.Parse([]byte(`
[[points]]
name = "a"
at = [0.0, 0.0, 0.0]

[[points]]
name = "a"
at = [1.0, 0.0, 0.0]
`))
	require.Error(t, err)
}

func TestSketch_UnknownConstraintKind(t *testing.T) {
	sk, err := sketch.Parse([]byte(`
[[points]]
name = "a"
at = [0.0, 0.0, 0.0]

[[constraints]]
kind = "teleport"
points = ["a", "a"]
`))
	require.NoError(t, err)
	s := solver.New("bad-kind")
	_, err = sk.Build(s)
	require.Error(t, err)
}

func TestSketch_ConstraintUnknownPoint(t *testing.T) {
	sk, err := sketch.Parse([]byte(`
[[points]]
name = "a"
at = [0.0, 0.0, 0.0]

[[constraints]]
kind = "distance"
value = 1.0
points = ["a", "zz"]
`))
	require.NoError(t, err)
	s := solver.New("bad-ref")
	_, err = sk.Build(s)
	require.Error(t, err)
}

func TestSketch_PerpendicularAndAngle(t *testing.T) {
	sk, err := sketch.Parse([]byte(`
[[points]]
name = "o"
at = [0.0, 0.0, 0.0]
pin = "xyz"

[[points]]
name = "x1"
at = [2.0, 0.0, 0.0]
pin = "xyz"

[[points]]
name = "p"
at = [1.1, 1.4, 0.0]
pin = "z"

[[lines]]
name = "base"
from = "o"
to = "x1"

[[lines]]
name = "arm"
from = "o"
to = "p"

[[constraints]]
kind = "perpendicular"
lines = ["base", "arm"]

[[constraints]]
kind = "distance"
value = 2.0
points = ["o", "p"]
`))
	require.NoError(t, err)
	s := solver.New("perp")
	m, err := sk.Build(s)
	require.NoError(t, err)
	require.NoError(t, s.Solve(sketch.MovableGroup))

	p := m.Points["p"]
	require.InDelta(t, 0, p.X.Val, 1e-2)
	require.InDelta(t, 2, math.Abs(p.Y.Val), 1e-2)
}
