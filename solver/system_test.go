package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================
// Factory validation
// ============================================================

func TestFactory_MissingArgument(t *testing.T) {
	s := New("factories")
	_, err := s.AddPointsCoincident(nil, nil)
	require.ErrorIs(t, err, ErrInvalidConstruction)

	_, err = s.AddPoint3D(nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

func TestFactory_TypedNilArgument(t *testing.T) {
	s := New("typed-nil")
	var line *LineSegment
	p, err := s.AddPoint3DV(0, 0, 0)
	require.NoError(t, err)
	_, err = s.AddPointOnLine(p, line)
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

func TestFactory_UnknownOption(t *testing.T) {
	s := New("unknown-opt")
	origin, err := s.AddPoint3DV(0, 0, 0)
	require.NoError(t, err)
	normal, err := s.AddNormal3DV(1, 0, 0, 0)
	require.NoError(t, err)
	w, err := s.AddWorkplane(origin, normal)
	require.NoError(t, err)

	// Point3D does not take a workplane.
	_, err = s.AddPoint3DV(0, 0, 0, OnWorkplane(w))
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

func TestFactory_DuplicateOption(t *testing.T) {
	s := New("dup-opt")
	a, err := s.AddPoint3DV(0, 0, 0)
	require.NoError(t, err)
	b, err := s.AddPoint3DV(1, 0, 0)
	require.NoError(t, err)
	c, err := s.AddPoint3DV(0, 1, 0)
	require.NoError(t, err)
	l1, err := s.AddLineSegment(a, b)
	require.NoError(t, err)
	l2, err := s.AddLineSegment(a, c)
	require.NoError(t, err)
	d, err := s.AddDistance(30)
	require.NoError(t, err)

	_, err = s.AddAngle(d, l1, l2, Supplement(), Supplement())
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

func TestFactory_GroupDefaultsToHandle(t *testing.T) {
	s := New("group-default")
	s.GroupHandle = 7
	p, err := s.AddParam("x", 1)
	require.NoError(t, err)
	require.Equal(t, 7, p.Group())

	q, err := s.AddParam("y", 1, InGroup(2))
	require.NoError(t, err)
	require.Equal(t, 2, q.Group())
}

func TestFactory_TranslateRejectsUnsupportedSource(t *testing.T) {
	s := New("translate")
	a, err := s.AddPoint3DV(0, 0, 0)
	require.NoError(t, err)
	b, err := s.AddPoint3DV(1, 0, 0)
	require.NoError(t, err)
	line, err := s.AddLineSegment(a, b)
	require.NoError(t, err)

	dx, err := s.AddParam("dx", 0)
	require.NoError(t, err)
	_, err = s.AddTranslate(line, dx, dx, dx)
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

// ============================================================
// Registry
// ============================================================

func TestRegistry_Variants(t *testing.T) {
	require.True(t, SupportedConstraint("PointsCoincident"))
	require.True(t, SupportedConstraint("EqualLineArcLength"))
	require.False(t, SupportedConstraint("NoSuchConstraint"))

	require.True(t, SupportedEntity("Workplane"))
	require.False(t, SupportedEntity("PointsCoincident"))
}

func TestRegistry_ListsAreSorted(t *testing.T) {
	cs := ConstraintVariants()
	require.NotEmpty(t, cs)
	for i := 1; i < len(cs); i++ {
		require.Less(t, cs[i-1], cs[i])
	}
}

// ============================================================
// Algorithms
// ============================================================

func TestAlgorithms_Lookup(t *testing.T) {
	a, ok := AlgorithmByName("BFGS")
	require.True(t, ok)
	require.True(t, a.NeedsJacobian)
	require.False(t, a.NeedsHessian)

	n, ok := AlgorithmByName("Newton")
	require.True(t, ok)
	require.True(t, n.NeedsHessian)

	_, ok = AlgorithmByName("Simplex9000")
	require.False(t, ok)
}

func TestAlgorithms_Default(t *testing.T) {
	require.Equal(t, "BFGS", DefaultAlgorithm().Name)

	s := New("algo-default")
	require.Equal(t, "BFGS", s.Algorithm().Name)
	nm, _ := AlgorithmByName("NelderMead")
	s.SetAlgorithm(nm)
	require.Equal(t, "NelderMead", s.Algorithm().Name)
}

func TestAlgorithms_Options(t *testing.T) {
	a, _ := AlgorithmByName("NelderMead")
	opts := a.Options()
	require.Contains(t, opts, "tol")
	require.Contains(t, opts, "maxfev")
	require.NotContains(t, opts, "maxiter")
}

func TestParam_Accessors(t *testing.T) {
	s := New("params")
	p, err := s.AddParam("width", 4.5, InGroup(3))
	require.NoError(t, err)
	require.Equal(t, "width", p.Name())
	require.Equal(t, 3, p.Group())
	require.Equal(t, 4.5, p.Val)
	require.False(t, p.Free())
	require.Len(t, s.Params(), 1)
}
