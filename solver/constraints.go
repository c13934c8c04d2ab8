package solver

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/parametriq/geosolver/expr"
)

// CircularEnt is an entity with a radius: a Circle or an ArcOfCircle.
type CircularEnt interface {
	Entity
	RadiusExpr() expr.Expr
}

// ============================================================
// Point constraints
// ============================================================

// PointsCoincident constrains two points to the same location, in-plane
// when a workplane is given.
type PointsCoincident struct {
	projc
	P1, P2 PointEnt
}

func (c *PointsCoincident) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.P1, c.P2)
	return vectorsEqual(c.Wrkpln != nil, e[0], e[1]), nil
}

func (s *System) AddPointsCoincident(p1, p2 PointEnt, options ...Option) (*PointsCoincident, error) {
	if err := requireArgs("PointsCoincident", p1, p2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointsCoincident", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &PointsCoincident{projc: s.newProjc(o), P1: p1, P2: p2}
	s.addConstraint(c)
	return c, nil
}

// PointsDistance constrains the (projected) distance between two points.
type PointsDistance struct {
	projc
	D      float64
	P1, P2 PointEnt
}

func (c *PointsDistance) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{
		expr.SubOf(distanceExpr(c.Wrkpln, c.P1, c.P2), expr.N(c.D)),
	}, nil
}

func (s *System) AddPointsDistance(d float64, p1, p2 PointEnt, options ...Option) (*PointsDistance, error) {
	if err := requireArgs("PointsDistance", p1, p2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointsDistance", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &PointsDistance{projc: s.newProjc(o), D: d, P1: p1, P2: p2}
	s.addConstraint(c)
	return c, nil
}

// PointsProjectDistance constrains the distance between two points measured
// along a line's direction.
type PointsProjectDistance struct {
	cbase
	D      float64
	P1, P2 PointEnt
	Line   *LineSegment
}

func (c *PointsProjectDistance) equations(expr.Env) ([]expr.Expr, error) {
	dp := c.P1.Pos().Sub(c.P2.Pos())
	pp := c.Line.Dir().Normalize()
	return []expr.Expr{expr.SubOf(dp.Dot(pp), expr.N(c.D))}, nil
}

func (s *System) AddPointsProjectDistance(d float64, p1, p2 PointEnt, line *LineSegment, options ...Option) (*PointsProjectDistance, error) {
	if err := requireArgs("PointsProjectDistance", p1, p2, line); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointsProjectDistance", nil, options)
	if err != nil {
		return nil, err
	}
	c := &PointsProjectDistance{cbase: s.newCbase(o), D: d, P1: p1, P2: p2, Line: line}
	s.addConstraint(c)
	return c, nil
}

// PointInPlane constrains a point to lie in a workplane.
type PointInPlane struct {
	cbase
	Pt  PointEnt
	Pln *Workplane
}

func (c *PointInPlane) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{pointPlaneDistance(c.Pt, c.Pln)}, nil
}

func (s *System) AddPointInPlane(pt PointEnt, pln *Workplane, options ...Option) (*PointInPlane, error) {
	if err := requireArgs("PointInPlane", pt, pln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointInPlane", nil, options)
	if err != nil {
		return nil, err
	}
	c := &PointInPlane{cbase: s.newCbase(o), Pt: pt, Pln: pln}
	s.addConstraint(c)
	return c, nil
}

// PointPlaneDistance constrains a point's signed offset from a workplane.
type PointPlaneDistance struct {
	cbase
	D   *Distance
	Pt  PointEnt
	Pln *Workplane
}

func (c *PointPlaneDistance) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{
		expr.SubOf(pointPlaneDistance(c.Pt, c.Pln), c.D.Scalar()),
	}, nil
}

func (s *System) AddPointPlaneDistance(d *Distance, pt PointEnt, pln *Workplane, options ...Option) (*PointPlaneDistance, error) {
	if err := requireArgs("PointPlaneDistance", d, pt, pln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointPlaneDistance", nil, options)
	if err != nil {
		return nil, err
	}
	c := &PointPlaneDistance{cbase: s.newCbase(o), D: d, Pt: pt, Pln: pln}
	s.addConstraint(c)
	return c, nil
}

// PointOnLine constrains a point onto a line segment's carrier line.
type PointOnLine struct {
	projc
	Pt   PointEnt
	Line *LineSegment
}

func (c *PointOnLine) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{pointLineDistance(c.Wrkpln, c.Pt, c.Line)}, nil
}

func (s *System) AddPointOnLine(pt PointEnt, line *LineSegment, options ...Option) (*PointOnLine, error) {
	if err := requireArgs("PointOnLine", pt, line); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointOnLine", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &PointOnLine{projc: s.newProjc(o), Pt: pt, Line: line}
	s.addConstraint(c)
	return c, nil
}

// PointLineDistance constrains the point-to-line distance. Squared on both
// sides to avoid a derivative singularity at zero distance.
type PointLineDistance struct {
	projc
	D    *Distance
	Pt   PointEnt
	Line *LineSegment
}

func (c *PointLineDistance) equations(expr.Env) ([]expr.Expr, error) {
	d := pointLineDistance(c.Wrkpln, c.Pt, c.Line)
	return []expr.Expr{
		expr.SubOf(expr.PowOf(d, expr.N(2)), expr.PowOf(c.D.Scalar(), expr.N(2))),
	}, nil
}

func (s *System) AddPointLineDistance(d *Distance, pt PointEnt, line *LineSegment, options ...Option) (*PointLineDistance, error) {
	if err := requireArgs("PointLineDistance", d, pt, line); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointLineDistance", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &PointLineDistance{projc: s.newProjc(o), D: d, Pt: pt, Line: line}
	s.addConstraint(c)
	return c, nil
}

// ============================================================
// Length constraints
// ============================================================

// EqualLength constrains two segments to equal length.
type EqualLength struct {
	projc
	L1, L2 *LineSegment
}

func (c *EqualLength) equations(expr.Env) ([]expr.Expr, error) {
	d1 := distanceExpr(c.Wrkpln, c.L1.P1, c.L1.P2)
	d2 := distanceExpr(c.Wrkpln, c.L2.P1, c.L2.P2)
	return []expr.Expr{expr.SubOf(d1, d2)}, nil
}

func (s *System) AddEqualLength(l1, l2 *LineSegment, options ...Option) (*EqualLength, error) {
	if err := requireArgs("EqualLength", l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("EqualLength", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &EqualLength{projc: s.newProjc(o), L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// LengthRatio constrains |l1| / |l2| to a ratio.
type LengthRatio struct {
	projc
	Ratio  *Distance
	L1, L2 *LineSegment
}

func (c *LengthRatio) equations(expr.Env) ([]expr.Expr, error) {
	d1 := distanceExpr(c.Wrkpln, c.L1.P1, c.L1.P2)
	d2 := distanceExpr(c.Wrkpln, c.L2.P1, c.L2.P2)
	return []expr.Expr{expr.SubOf(expr.DivOf(d1, d2), c.Ratio.Scalar())}, nil
}

func (s *System) AddLengthRatio(ratio *Distance, l1, l2 *LineSegment, options ...Option) (*LengthRatio, error) {
	if err := requireArgs("LengthRatio", ratio, l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("LengthRatio", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &LengthRatio{projc: s.newProjc(o), Ratio: ratio, L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// LengthDifference constrains |l1| - |l2| to a difference.
type LengthDifference struct {
	projc
	Diff   *Distance
	L1, L2 *LineSegment
}

func (c *LengthDifference) equations(expr.Env) ([]expr.Expr, error) {
	d1 := distanceExpr(c.Wrkpln, c.L1.P1, c.L1.P2)
	d2 := distanceExpr(c.Wrkpln, c.L2.P1, c.L2.P2)
	return []expr.Expr{expr.SubOf(expr.SubOf(d1, d2), c.Diff.Scalar())}, nil
}

func (s *System) AddLengthDifference(diff *Distance, l1, l2 *LineSegment, options ...Option) (*LengthDifference, error) {
	if err := requireArgs("LengthDifference", diff, l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("LengthDifference", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &LengthDifference{projc: s.newProjc(o), Diff: diff, L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// EqualLengthPointLineDistance constrains a segment's length to equal a
// point-to-line distance (both squared).
type EqualLengthPointLineDistance struct {
	projc
	Pt     PointEnt
	L1, L2 *LineSegment
}

func (c *EqualLengthPointLineDistance) equations(expr.Env) ([]expr.Expr, error) {
	d1 := distanceExpr(c.Wrkpln, c.L1.P1, c.L1.P2)
	d2 := pointLineDistance(c.Wrkpln, c.Pt, c.L2)
	return []expr.Expr{
		expr.SubOf(expr.PowOf(d1, expr.N(2)), expr.PowOf(d2, expr.N(2))),
	}, nil
}

func (s *System) AddEqualLengthPointLineDistance(pt PointEnt, l1, l2 *LineSegment, options ...Option) (*EqualLengthPointLineDistance, error) {
	if err := requireArgs("EqualLengthPointLineDistance", pt, l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("EqualLengthPointLineDistance", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &EqualLengthPointLineDistance{projc: s.newProjc(o), Pt: pt, L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// EqualPointLineDistance constrains two point-to-line distances to be equal
// (both squared).
type EqualPointLineDistance struct {
	projc
	P1, P2 PointEnt
	L1, L2 *LineSegment
}

func (c *EqualPointLineDistance) equations(expr.Env) ([]expr.Expr, error) {
	d1 := pointLineDistance(c.Wrkpln, c.P1, c.L1)
	d2 := pointLineDistance(c.Wrkpln, c.P2, c.L2)
	return []expr.Expr{
		expr.SubOf(expr.PowOf(d1, expr.N(2)), expr.PowOf(d2, expr.N(2))),
	}, nil
}

func (s *System) AddEqualPointLineDistance(p1 PointEnt, l1 *LineSegment, p2 PointEnt, l2 *LineSegment, options ...Option) (*EqualPointLineDistance, error) {
	if err := requireArgs("EqualPointLineDistance", p1, l1, p2, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("EqualPointLineDistance", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &EqualPointLineDistance{projc: s.newProjc(o), P1: p1, P2: p2, L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// ============================================================
// Angle constraints
// ============================================================

// Angle constrains the angle (in degrees) between two lines.
type Angle struct {
	projc
	Degree     *Distance
	L1, L2     *LineSegment
	supplement bool
}

func (c *Angle) equations(expr.Env) ([]expr.Expr, error) {
	cosine := directionCosine(c.Wrkpln, c.L1, c.L2, c.supplement)
	target := expr.CosOf(expr.MulOf(c.Degree.Scalar(), expr.N(math.Pi/180)))
	return []expr.Expr{expr.SubOf(cosine, target)}, nil
}

// AddAngle constrains the angle between l1 and l2 to degree. Options:
// OnWorkplane, Supplement, InGroup.
func (s *System) AddAngle(degree *Distance, l1, l2 *LineSegment, options ...Option) (*Angle, error) {
	if err := requireArgs("Angle", degree, l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Angle", []string{"workplane", "supplement"}, options)
	if err != nil {
		return nil, err
	}
	c := &Angle{projc: s.newProjc(o), Degree: degree, L1: l1, L2: l2, supplement: o.supplement}
	s.addConstraint(c)
	return c, nil
}

// Perpendicular constrains two lines to a right angle: the direction cosine
// itself is the residual.
type Perpendicular struct {
	projc
	L1, L2 *LineSegment
}

func (c *Perpendicular) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{directionCosine(c.Wrkpln, c.L1, c.L2, false)}, nil
}

func (s *System) AddPerpendicular(l1, l2 *LineSegment, options ...Option) (*Perpendicular, error) {
	if err := requireArgs("Perpendicular", l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Perpendicular", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &Perpendicular{projc: s.newProjc(o), L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// EqualAngle constrains angle(l1,l2) == angle(l3,l4).
type EqualAngle struct {
	projc
	L1, L2, L3, L4 *LineSegment
	supplement     bool
}

func (c *EqualAngle) equations(expr.Env) ([]expr.Expr, error) {
	a1 := directionCosine(c.Wrkpln, c.L1, c.L2, c.supplement)
	a2 := directionCosine(c.Wrkpln, c.L3, c.L4, false)
	return []expr.Expr{expr.SubOf(a1, a2)}, nil
}

func (s *System) AddEqualAngle(l1, l2, l3, l4 *LineSegment, options ...Option) (*EqualAngle, error) {
	if err := requireArgs("EqualAngle", l1, l2, l3, l4); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("EqualAngle", []string{"workplane", "supplement"}, options)
	if err != nil {
		return nil, err
	}
	c := &EqualAngle{projc: s.newProjc(o), L1: l1, L2: l2, L3: l3, L4: l4, supplement: o.supplement}
	s.addConstraint(c)
	return c, nil
}

// Parallel constrains two line directions to be parallel. On a workplane
// the residual is the cross product against the plane normal; in 3D two
// cross-product components are chosen by the max-magnitude rule. Operands
// swap when the first one belongs to the solving group, so the driven
// entity stays on the right of the cross product.
type Parallel struct {
	projc
	L1, L2 *LineSegment
}

func (c *Parallel) equations(env expr.Env) ([]expr.Expr, error) {
	l1, l2 := c.L1, c.L2
	if l1.Group() == c.solvingGroup {
		l1, l2 = l2, l1
	}
	if c.Wrkpln == nil {
		return parallelResiduals(env, l1.Dir(), l2.Dir()), nil
	}
	cross := l1.Dir().Cross(l2.Dir())
	return []expr.Expr{cross.Dot(c.Wrkpln.Normal.Dir())}, nil
}

func (s *System) AddParallel(l1, l2 *LineSegment, options ...Option) (*Parallel, error) {
	if err := requireArgs("Parallel", l1, l2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Parallel", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &Parallel{projc: s.newProjc(o), L1: l1, L2: l2}
	s.addConstraint(c)
	return c, nil
}

// SameOrientation aligns two orientation frames. The normal directions use
// the parallel residual selection; a third residual picks whichever of the
// two basis dot products is currently smaller in magnitude.
type SameOrientation struct {
	cbase
	N1, N2 NormalEnt
}

func (c *SameOrientation) equations(env expr.Env) ([]expr.Expr, error) {
	n1, n2 := c.N1, c.N2
	if n1.Group() == c.solvingGroup {
		n1, n2 = n2, n1
	}
	f1, f2 := n1.Frame(), n2.Frame()
	eqs := parallelResiduals(env, f1.K, f2.K)
	d1 := f1.I.Dot(f2.J)
	d2 := f1.I.Dot(f2.I)
	v1, ok1 := d1.EvalAt(env)
	v2, ok2 := d2.EvalAt(env)
	if ok1 && ok2 && math.Abs(v1) < math.Abs(v2) {
		eqs = append(eqs, d1)
	} else {
		eqs = append(eqs, d2)
	}
	return eqs, nil
}

func (s *System) AddSameOrientation(n1, n2 NormalEnt, options ...Option) (*SameOrientation, error) {
	if err := requireArgs("SameOrientation", n1, n2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("SameOrientation", nil, options)
	if err != nil {
		return nil, err
	}
	c := &SameOrientation{cbase: s.newCbase(o), N1: n1, N2: n2}
	s.addConstraint(c)
	return c, nil
}

// ============================================================
// Symmetry and alignment constraints
// ============================================================

// Symmetric constrains p1 and p2 to be mirror images through pln: their
// midpoint lies at the plane origin and their in-plane projections
// coincide.
type Symmetric struct {
	projc
	P1, P2 PointEnt
	Pln    *Workplane
}

func (c *Symmetric) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.P1, c.P2)
	m := e[0].Add(e[1]).Scale(expr.N(0.5))

	var eqs []expr.Expr
	eqs = append(eqs, vectorsEqual(false, m, c.Pln.Frame().Origin)...)

	p := projectPoints(c.Pln, c.P1, c.P2)
	eqs = append(eqs, vectorsEqual(true, p[0], p[1])...)
	return eqs, nil
}

func (s *System) AddSymmetric(p1, p2 PointEnt, pln *Workplane, options ...Option) (*Symmetric, error) {
	if err := requireArgs("Symmetric", p1, p2, pln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Symmetric", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &Symmetric{projc: s.newProjc(o), P1: p1, P2: p2, Pln: pln}
	s.addConstraint(c)
	return c, nil
}

// SymmetricHorizontal constrains p1 and p2 to mirror across the workplane's
// vertical axis.
type SymmetricHorizontal struct {
	cbase
	P1, P2 PointEnt
	Pln    *Workplane
}

func (c *SymmetricHorizontal) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Pln, c.P1, c.P2)
	return []expr.Expr{
		expr.AddOf(e[0].X, e[1].X),
		expr.SubOf(e[0].Y, e[1].Y),
	}, nil
}

func (s *System) AddSymmetricHorizontal(p1, p2 PointEnt, wrkpln *Workplane, options ...Option) (*SymmetricHorizontal, error) {
	if err := requireArgs("SymmetricHorizontal", p1, p2, wrkpln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("SymmetricHorizontal", nil, options)
	if err != nil {
		return nil, err
	}
	c := &SymmetricHorizontal{cbase: s.newCbase(o), P1: p1, P2: p2, Pln: wrkpln}
	s.addConstraint(c)
	return c, nil
}

// SymmetricVertical constrains p1 and p2 to mirror across the workplane's
// horizontal axis.
type SymmetricVertical struct {
	cbase
	P1, P2 PointEnt
	Pln    *Workplane
}

func (c *SymmetricVertical) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Pln, c.P1, c.P2)
	return []expr.Expr{
		expr.SubOf(e[0].X, e[1].X),
		expr.AddOf(e[0].Y, e[1].Y),
	}, nil
}

func (s *System) AddSymmetricVertical(p1, p2 PointEnt, wrkpln *Workplane, options ...Option) (*SymmetricVertical, error) {
	if err := requireArgs("SymmetricVertical", p1, p2, wrkpln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("SymmetricVertical", nil, options)
	if err != nil {
		return nil, err
	}
	c := &SymmetricVertical{cbase: s.newCbase(o), P1: p1, P2: p2, Pln: wrkpln}
	s.addConstraint(c)
	return c, nil
}

// SymmetricLine constrains the segment p1-p2 to be perpendicular to a line,
// projected onto a workplane.
type SymmetricLine struct {
	cbase
	P1, P2 PointEnt
	Line   *LineSegment
	Pln    *Workplane
}

func (c *SymmetricLine) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Pln, c.P1, c.P2, c.Line.P1, c.Line.P2)
	return []expr.Expr{e[0].Sub(e[1]).Dot(e[2].Sub(e[3]))}, nil
}

func (s *System) AddSymmetricLine(p1, p2 PointEnt, line *LineSegment, wrkpln *Workplane, options ...Option) (*SymmetricLine, error) {
	if err := requireArgs("SymmetricLine", p1, p2, line, wrkpln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("SymmetricLine", nil, options)
	if err != nil {
		return nil, err
	}
	c := &SymmetricLine{cbase: s.newCbase(o), P1: p1, P2: p2, Line: line, Pln: wrkpln}
	s.addConstraint(c)
	return c, nil
}

// MidPoint constrains a point to the midpoint of a segment.
type MidPoint struct {
	projc
	Pt   PointEnt
	Line *LineSegment
}

func (c *MidPoint) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.Pt, c.Line.P1, c.Line.P2)
	mid := e[1].Add(e[2]).Scale(expr.N(0.5))
	return vectorsEqual(c.Wrkpln != nil, e[0], mid), nil
}

func (s *System) AddMidPoint(pt PointEnt, line *LineSegment, options ...Option) (*MidPoint, error) {
	if err := requireArgs("MidPoint", pt, line); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("MidPoint", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &MidPoint{projc: s.newProjc(o), Pt: pt, Line: line}
	s.addConstraint(c)
	return c, nil
}

// PointsHorizontal constrains two points to equal in-plane u coordinate.
type PointsHorizontal struct {
	projc
	P1, P2 PointEnt
}

func (c *PointsHorizontal) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.P1, c.P2)
	return []expr.Expr{expr.SubOf(e[0].X, e[1].X)}, nil
}

func (s *System) AddPointsHorizontal(p1, p2 PointEnt, options ...Option) (*PointsHorizontal, error) {
	if err := requireArgs("PointsHorizontal", p1, p2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointsHorizontal", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &PointsHorizontal{projc: s.newProjc(o), P1: p1, P2: p2}
	s.addConstraint(c)
	return c, nil
}

// PointsVertical constrains two points to equal in-plane v coordinate.
type PointsVertical struct {
	projc
	P1, P2 PointEnt
}

func (c *PointsVertical) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.P1, c.P2)
	return []expr.Expr{expr.SubOf(e[0].Y, e[1].Y)}, nil
}

func (s *System) AddPointsVertical(p1, p2 PointEnt, options ...Option) (*PointsVertical, error) {
	if err := requireArgs("PointsVertical", p1, p2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointsVertical", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &PointsVertical{projc: s.newProjc(o), P1: p1, P2: p2}
	s.addConstraint(c)
	return c, nil
}

// LineHorizontal constrains a segment's endpoints to equal u coordinate.
type LineHorizontal struct {
	projc
	Line *LineSegment
}

func (c *LineHorizontal) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.Line.P1, c.Line.P2)
	return []expr.Expr{expr.SubOf(e[0].X, e[1].X)}, nil
}

func (s *System) AddLineHorizontal(line *LineSegment, options ...Option) (*LineHorizontal, error) {
	if err := requireArgs("LineHorizontal", line); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("LineHorizontal", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &LineHorizontal{projc: s.newProjc(o), Line: line}
	s.addConstraint(c)
	return c, nil
}

// LineVertical constrains a segment's endpoints to equal v coordinate.
type LineVertical struct {
	projc
	Line *LineSegment
}

func (c *LineVertical) equations(expr.Env) ([]expr.Expr, error) {
	e := projectPoints(c.Wrkpln, c.Line.P1, c.Line.P2)
	return []expr.Expr{expr.SubOf(e[0].Y, e[1].Y)}, nil
}

func (s *System) AddLineVertical(line *LineSegment, options ...Option) (*LineVertical, error) {
	if err := requireArgs("LineVertical", line); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("LineVertical", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &LineVertical{projc: s.newProjc(o), Line: line}
	s.addConstraint(c)
	return c, nil
}

// ============================================================
// Circle constraints
// ============================================================

// Diameter constrains a circle's diameter.
type Diameter struct {
	cbase
	D *Distance
	C CircularEnt
}

func (c *Diameter) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{
		expr.SubOf(expr.MulOf(expr.N(2), c.C.RadiusExpr()), c.D.Scalar()),
	}, nil
}

func (s *System) AddDiameter(d *Distance, circ CircularEnt, options ...Option) (*Diameter, error) {
	if err := requireArgs("Diameter", d, circ); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Diameter", nil, options)
	if err != nil {
		return nil, err
	}
	c := &Diameter{cbase: s.newCbase(o), D: d, C: circ}
	s.addConstraint(c)
	return c, nil
}

// PointOnCircle constrains a point to the cylinder through the circle: its
// in-plane distance from the center equals the radius.
type PointOnCircle struct {
	cbase
	Pt     PointEnt
	Circle *Circle
}

func (c *PointOnCircle) equations(expr.Env) ([]expr.Expr, error) {
	f := c.Circle.Normal.Frame()
	ep := f.Project(c.Pt.Pos())
	ec := f.Project(c.Circle.Center.Pos())
	return []expr.Expr{
		expr.SubOf(c.Circle.RadiusExpr(), ep.Sub(ec).Magnitude()),
	}, nil
}

func (s *System) AddPointOnCircle(pt PointEnt, circle *Circle, options ...Option) (*PointOnCircle, error) {
	if err := requireArgs("PointOnCircle", pt, circle); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("PointOnCircle", nil, options)
	if err != nil {
		return nil, err
	}
	c := &PointOnCircle{cbase: s.newCbase(o), Pt: pt, Circle: circle}
	s.addConstraint(c)
	return c, nil
}

// EqualRadius constrains two circles or arcs to equal radius.
type EqualRadius struct {
	cbase
	C1, C2 CircularEnt
}

func (c *EqualRadius) equations(expr.Env) ([]expr.Expr, error) {
	return []expr.Expr{expr.SubOf(c.C1.RadiusExpr(), c.C2.RadiusExpr())}, nil
}

func (s *System) AddEqualRadius(c1, c2 CircularEnt, options ...Option) (*EqualRadius, error) {
	if err := requireArgs("EqualRadius", c1, c2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("EqualRadius", nil, options)
	if err != nil {
		return nil, err
	}
	c := &EqualRadius{cbase: s.newCbase(o), C1: c1, C2: c2}
	s.addConstraint(c)
	return c, nil
}

// EqualLineArcLength would constrain a segment's length to an arc's length.
type EqualLineArcLength struct {
	projc
	Line *LineSegment
	Arc  *ArcOfCircle
}

func (c *EqualLineArcLength) equations(expr.Env) ([]expr.Expr, error) {
	return nil, errors.Wrap(ErrUnimplemented, "EqualLineArcLength")
}

func (s *System) AddEqualLineArcLength(line *LineSegment, arc *ArcOfCircle, options ...Option) (*EqualLineArcLength, error) {
	if err := requireArgs("EqualLineArcLength", line, arc); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("EqualLineArcLength", []string{"workplane"}, options)
	if err != nil {
		return nil, err
	}
	c := &EqualLineArcLength{projc: s.newProjc(o), Line: line, Arc: arc}
	s.addConstraint(c)
	return c, nil
}
