package solver

import (
	"math"

	"github.com/parametriq/geosolver/expr"
	"github.com/parametriq/geosolver/vec"
)

// Constraint is a relation between entities producing scalar residuals that
// are zero exactly when the relation holds. Constraints never reference each
// other and are agnostic to how the residuals are solved.
type Constraint interface {
	Name() string
	Group() int

	reset(g int)
	// equations emits the residuals under the current solving group. env
	// carries the current numeric value of every free parameter; a few
	// variants use it to pick residual components by magnitude.
	equations(env expr.Env) ([]expr.Expr, error)
}

// cbase is the bookkeeping shared by constraints without extra reset needs.
type cbase struct{ base }

func (c *cbase) reset(g int) { c.resetBase(g) }

// projc is the base for constraints that optionally project onto a
// workplane.
type projc struct {
	cbase
	Wrkpln *Workplane
}

// ============================================================
// Geometric helpers
// ============================================================

// projectPoints returns each point's position, projected onto w when w is
// non-nil, otherwise passed through in full 3D.
func projectPoints(w *Workplane, pts ...PointEnt) []vec.Vec {
	out := make([]vec.Vec, len(pts))
	if w == nil {
		for i, p := range pts {
			out[i] = p.Pos()
		}
		return out
	}
	f := w.Frame()
	for i, p := range pts {
		out[i] = f.Project(p.Pos())
	}
	return out
}

// vectorsEqual emits componentwise equality residuals: two components for
// projected vectors, three otherwise.
func vectorsEqual(projected bool, v1, v2 vec.Vec) []expr.Expr {
	if projected {
		return []expr.Expr{
			expr.SubOf(v1.X, v2.X),
			expr.SubOf(v1.Y, v2.Y),
		}
	}
	return []expr.Expr{
		expr.SubOf(v1.X, v2.X),
		expr.SubOf(v1.Y, v2.Y),
		expr.SubOf(v1.Z, v2.Z),
	}
}

// distanceExpr is |p1 - p2| after projection.
func distanceExpr(w *Workplane, p1, p2 PointEnt) expr.Expr {
	e := projectPoints(w, p1, p2)
	return e[0].Sub(e[1]).Magnitude()
}

// pointPlaneDistance is the signed out-of-plane offset of pt from pln.
func pointPlaneDistance(pt PointEnt, pln *Workplane) expr.Expr {
	f := pln.Frame()
	return pt.Pos().Sub(f.Origin).Dot(f.K)
}

// pointLineDistance is the point-to-line distance |ab x ap| / |ab| after
// projection.
func pointLineDistance(w *Workplane, pt PointEnt, line *LineSegment) expr.Expr {
	e := projectPoints(w, pt, line.P1, line.P2)
	ep, ea, eb := e[0], e[1], e[2]
	eab := ea.Sub(eb)
	return expr.DivOf(eab.Cross(ea.Sub(ep)).Magnitude(), eab.Magnitude())
}

// directionCosine is the cosine of the angle between two line directions
// after projection; supplement flips the first direction.
func directionCosine(w *Workplane, l1, l2 *LineSegment, supplement bool) expr.Expr {
	e := projectPoints(w, l1.P1, l1.P2, l2.P1, l2.P2)
	v1 := e[0].Sub(e[1])
	if supplement {
		v1 = v1.Neg()
	}
	v2 := e[2].Sub(e[3])
	return expr.DivOf(
		v1.Dot(v2),
		expr.MulOf(v1.Magnitude(), v2.Magnitude()),
	)
}

// parallelResiduals emits two components of the cross product a x b, chosen
// by the largest-magnitude component of a at the current numeric point. The
// component aligned with a is dropped: it stays near zero for any b and
// conditions the system poorly. Ties resolve toward the later axis.
func parallelResiduals(env expr.Env, a, b vec.Vec) []expr.Expr {
	r := a.Cross(b)
	ax, ay, az, _ := a.EvalAt(env)
	x, y, z := math.Abs(ax), math.Abs(ay), math.Abs(az)
	switch {
	case x > y && x > z:
		return []expr.Expr{r.Y, r.Z}
	case y > z:
		return []expr.Expr{r.Z, r.X}
	default:
		return []expr.Expr{r.X, r.Y}
	}
}
