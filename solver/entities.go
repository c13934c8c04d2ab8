package solver

import (
	"github.com/cockroachdb/errors"
	"github.com/parametriq/geosolver/expr"
	"github.com/parametriq/geosolver/vec"
)

// ============================================================
// Point2D / Point3D
// ============================================================

// Point3D is a point with root-frame coordinates held by three Params.
type Point3D struct {
	base
	X, Y, Z *Param

	pos memo[vec.Vec]
}

func (p *Point3D) reset(g int) { p.resetBase(g); p.pos.clear() }

func (p *Point3D) Pos() vec.Vec {
	return p.pos.get(func() vec.Vec {
		return vec.New(p.X.Expr(), p.Y.Expr(), p.Z.Expr())
	})
}

func (p *Point3D) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

// AddPoint3D makes a 3D point from existing Params. Options: InGroup.
func (s *System) AddPoint3D(x, y, z *Param, options ...Option) (*Point3D, error) {
	if err := requireArgs("Point3D", x, y, z); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Point3D", nil, options)
	if err != nil {
		return nil, err
	}
	p := &Point3D{base: s.newBase(o.group), X: x, Y: y, Z: z}
	s.addEntity(p)
	return p, nil
}

// AddPoint3DV makes a 3D point with freshly created coordinate Params seeded
// from numeric values. Options: InGroup.
func (s *System) AddPoint3DV(x, y, z float64, options ...Option) (*Point3D, error) {
	o, err := s.buildOpts("Point3D", nil, options)
	if err != nil {
		return nil, err
	}
	p := &Point3D{
		base: s.newBase(o.group),
		X:    s.newParamTagged("Point3D.x", x, o.group),
		Y:    s.newParamTagged("Point3D.y", y, o.group),
		Z:    s.newParamTagged("Point3D.z", z, o.group),
	}
	s.addEntity(p)
	return p, nil
}

// Point2D is a point on a workplane with in-plane coordinates (u,v).
type Point2D struct {
	base
	Plane *Workplane
	U, V  *Param

	pos memo[vec.Vec]
}

func (p *Point2D) reset(g int) { p.resetBase(g); p.pos.clear() }

// Pos is the point's root-frame position: the plane origin plus u,v along
// the plane's in-plane basis vectors.
func (p *Point2D) Pos() vec.Vec {
	return p.pos.get(func() vec.Vec {
		f := p.Plane.Frame()
		return f.Origin.Add(f.I.Scale(p.U.Expr())).Add(f.J.Scale(p.V.Expr()))
	})
}

func (p *Point2D) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

// AddPoint2D makes a workplane point from existing Params. Options: InGroup.
func (s *System) AddPoint2D(wrkpln *Workplane, u, v *Param, options ...Option) (*Point2D, error) {
	if err := requireArgs("Point2D", wrkpln, u, v); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Point2D", nil, options)
	if err != nil {
		return nil, err
	}
	p := &Point2D{base: s.newBase(o.group), Plane: wrkpln, U: u, V: v}
	s.addEntity(p)
	return p, nil
}

// AddPoint2DV makes a workplane point with freshly created (u,v) Params.
func (s *System) AddPoint2DV(wrkpln *Workplane, u, v float64, options ...Option) (*Point2D, error) {
	if err := requireArgs("Point2D", wrkpln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Point2D", nil, options)
	if err != nil {
		return nil, err
	}
	p := &Point2D{
		base:  s.newBase(o.group),
		Plane: wrkpln,
		U:     s.newParamTagged("Point2D.u", u, o.group),
		V:     s.newParamTagged("Point2D.v", v, o.group),
	}
	s.addEntity(p)
	return p, nil
}

// ============================================================
// Normals
// ============================================================

// Normal3D is an orientation given by a rotation quaternion (w,x,y,z). It
// owns the unit-norm condition on its components and emits it as its own
// equation regardless of which constraints reference it.
type Normal3D struct {
	base
	QW, QX, QY, QZ *Param

	frame memo[vec.Frame]
}

func (n *Normal3D) reset(g int) { n.resetBase(g); n.frame.clear() }

func (n *Normal3D) Frame() vec.Frame {
	return n.frame.get(func() vec.Frame {
		return vec.FromQuaternion(n.QW.Expr(), n.QX.Expr(), n.QY.Expr(), n.QZ.Expr())
	})
}

// Dir is the normal direction: the oriented frame's third basis vector.
func (n *Normal3D) Dir() vec.Vec { return n.Frame().K }

func (n *Normal3D) equations(expr.Env) ([]expr.Expr, error) {
	norm := expr.SqrtOf(expr.AddOf(
		expr.PowOf(n.QW.Expr(), expr.N(2)),
		expr.PowOf(n.QX.Expr(), expr.N(2)),
		expr.PowOf(n.QY.Expr(), expr.N(2)),
		expr.PowOf(n.QZ.Expr(), expr.N(2)),
	))
	return []expr.Expr{expr.SubOf(norm, expr.N(1))}, nil
}

// AddNormal3D makes an orientation from existing quaternion Params.
func (s *System) AddNormal3D(qw, qx, qy, qz *Param, options ...Option) (*Normal3D, error) {
	if err := requireArgs("Normal3D", qw, qx, qy, qz); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Normal3D", nil, options)
	if err != nil {
		return nil, err
	}
	n := &Normal3D{base: s.newBase(o.group), QW: qw, QX: qx, QY: qy, QZ: qz}
	s.addEntity(n)
	return n, nil
}

// AddNormal3DV makes an orientation with freshly created quaternion Params.
func (s *System) AddNormal3DV(qw, qx, qy, qz float64, options ...Option) (*Normal3D, error) {
	o, err := s.buildOpts("Normal3D", nil, options)
	if err != nil {
		return nil, err
	}
	n := &Normal3D{
		base: s.newBase(o.group),
		QW:   s.newParamTagged("Normal3D.qw", qw, o.group),
		QX:   s.newParamTagged("Normal3D.qx", qx, o.group),
		QY:   s.newParamTagged("Normal3D.qy", qy, o.group),
		QZ:   s.newParamTagged("Normal3D.qz", qz, o.group),
	}
	s.addEntity(n)
	return n, nil
}

// Normal2D is the orientation of an existing workplane.
type Normal2D struct {
	base
	Plane *Workplane
}

func (n *Normal2D) reset(g int) { n.resetBase(g) }

func (n *Normal2D) Frame() vec.Frame { return n.Plane.Normal.Frame() }

func (n *Normal2D) Dir() vec.Vec { return n.Frame().K }

func (n *Normal2D) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

// AddNormal2D makes a normal bound to a workplane's orientation.
func (s *System) AddNormal2D(wrkpln *Workplane, options ...Option) (*Normal2D, error) {
	if err := requireArgs("Normal2D", wrkpln); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Normal2D", nil, options)
	if err != nil {
		return nil, err
	}
	n := &Normal2D{base: s.newBase(o.group), Plane: wrkpln}
	s.addEntity(n)
	return n, nil
}

// ============================================================
// Distance
// ============================================================

// Distance is a scalar entity: either a fixed numeric value or a Param.
type Distance struct {
	base
	val float64
	P   *Param
}

func (d *Distance) reset(g int) { d.resetBase(g) }

func (d *Distance) Scalar() expr.Expr {
	if d.P != nil {
		return d.P.Expr()
	}
	return expr.N(d.val)
}

func (d *Distance) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

// AddDistance makes a fixed scalar distance.
func (s *System) AddDistance(d float64, options ...Option) (*Distance, error) {
	o, err := s.buildOpts("Distance", nil, options)
	if err != nil {
		return nil, err
	}
	e := &Distance{base: s.newBase(o.group), val: d}
	s.addEntity(e)
	return e, nil
}

// AddDistanceV makes a variable distance backed by a fresh Param seeded
// from d.
func (s *System) AddDistanceV(d float64, options ...Option) (*Distance, error) {
	o, err := s.buildOpts("Distance", nil, options)
	if err != nil {
		return nil, err
	}
	e := &Distance{base: s.newBase(o.group), P: s.newParamTagged("Distance.d", d, o.group)}
	s.addEntity(e)
	return e, nil
}

// ============================================================
// LineSegment
// ============================================================

type LineSegment struct {
	base
	P1, P2 PointEnt

	dir memo[vec.Vec]
}

func (l *LineSegment) reset(g int) { l.resetBase(g); l.dir.clear() }

// Dir is the segment's direction vector p1 - p2.
func (l *LineSegment) Dir() vec.Vec {
	return l.dir.get(func() vec.Vec { return l.P1.Pos().Sub(l.P2.Pos()) })
}

func (l *LineSegment) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

func (s *System) AddLineSegment(p1, p2 PointEnt, options ...Option) (*LineSegment, error) {
	if err := requireArgs("LineSegment", p1, p2); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("LineSegment", nil, options)
	if err != nil {
		return nil, err
	}
	l := &LineSegment{base: s.newBase(o.group), P1: p1, P2: p2}
	s.addEntity(l)
	return l, nil
}

// ============================================================
// ArcOfCircle / Circle
// ============================================================

// ArcOfCircle is a circular arc on a workplane. It owns the equal-radius
// condition between its start and end points and emits it as its own
// equation.
type ArcOfCircle struct {
	base
	Plane              *Workplane
	Center, Start, End PointEnt

	proj memo[[3]vec.Vec]
}

func (a *ArcOfCircle) reset(g int) { a.resetBase(g); a.proj.clear() }

func (a *ArcOfCircle) projected() [3]vec.Vec {
	return a.proj.get(func() [3]vec.Vec {
		f := a.Plane.Frame()
		return [3]vec.Vec{
			f.Project(a.Center.Pos()),
			f.Project(a.Start.Pos()),
			f.Project(a.End.Pos()),
		}
	})
}

func (a *ArcOfCircle) Radius() expr.Expr {
	p := a.projected()
	return p[0].Sub(p[1]).Magnitude()
}

func (a *ArcOfCircle) RadiusExpr() expr.Expr { return a.Radius() }

func (a *ArcOfCircle) equations(expr.Env) ([]expr.Expr, error) {
	p := a.projected()
	endRadius := p[0].Sub(p[2]).Magnitude()
	return []expr.Expr{expr.SubOf(a.Radius(), endRadius)}, nil
}

func (s *System) AddArcOfCircle(wrkpln *Workplane, center, start, end PointEnt, options ...Option) (*ArcOfCircle, error) {
	if err := requireArgs("ArcOfCircle", wrkpln, center, start, end); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("ArcOfCircle", nil, options)
	if err != nil {
		return nil, err
	}
	a := &ArcOfCircle{base: s.newBase(o.group), Plane: wrkpln, Center: center, Start: start, End: end}
	s.addEntity(a)
	return a, nil
}

type Circle struct {
	base
	Center PointEnt
	Normal NormalEnt
	Radius *Distance
}

func (c *Circle) reset(g int) { c.resetBase(g) }

func (c *Circle) RadiusExpr() expr.Expr { return c.Radius.Scalar() }

func (c *Circle) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

func (s *System) AddCircle(center PointEnt, normal NormalEnt, radius *Distance, options ...Option) (*Circle, error) {
	if err := requireArgs("Circle", center, normal, radius); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Circle", nil, options)
	if err != nil {
		return nil, err
	}
	c := &Circle{base: s.newBase(o.group), Center: center, Normal: normal, Radius: radius}
	s.addEntity(c)
	return c, nil
}

// AddCircleV makes a circle whose radius is a fresh variable Param.
func (s *System) AddCircleV(center PointEnt, normal NormalEnt, radius float64, options ...Option) (*Circle, error) {
	if err := requireArgs("Circle", center, normal); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Circle", nil, options)
	if err != nil {
		return nil, err
	}
	r := &Distance{base: s.newBase(o.group), P: s.newParamTagged("Circle.radius", radius, o.group)}
	s.addEntity(r)
	c := &Circle{base: s.newBase(o.group), Center: center, Normal: normal, Radius: r}
	s.addEntity(c)
	return c, nil
}

// ============================================================
// Workplane
// ============================================================

// Workplane is a 2D reference frame: an origin point plus an orientation.
type Workplane struct {
	base
	Origin PointEnt
	Normal *Normal3D

	frame memo[vec.Frame]
}

func (w *Workplane) reset(g int) { w.resetBase(g); w.frame.clear() }

func (w *Workplane) Frame() vec.Frame {
	return w.frame.get(func() vec.Frame {
		return w.Normal.Frame().Locate(w.Origin.Pos())
	})
}

func (w *Workplane) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

func (s *System) AddWorkplane(origin PointEnt, normal *Normal3D, options ...Option) (*Workplane, error) {
	if err := requireArgs("Workplane", origin, normal); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Workplane", nil, options)
	if err != nil {
		return nil, err
	}
	w := &Workplane{base: s.newBase(o.group), Origin: origin, Normal: normal}
	s.addEntity(w)
	return w, nil
}

// ============================================================
// Translate / Transform
// ============================================================

// Translate shifts a source point by (dx,dy,dz). Translating a normal has
// no effect on its orientation; the source passes through with a warning,
// for compatibility with solvespace semantics.
type Translate struct {
	base
	Src        Entity
	Dx, Dy, Dz *Param

	pos memo[vec.Vec]
}

func (t *Translate) reset(g int) { t.resetBase(g); t.pos.clear() }

func (t *Translate) delta() vec.Vec {
	return vec.New(t.Dx.Expr(), t.Dy.Expr(), t.Dz.Expr())
}

func (t *Translate) Pos() vec.Vec {
	return t.pos.get(func() vec.Vec {
		if p, ok := t.Src.(PointEnt); ok {
			return p.Pos().Add(t.delta())
		}
		return t.Src.(NormalEnt).Frame().K
	})
}

func (t *Translate) Frame() vec.Frame {
	if n, ok := t.Src.(NormalEnt); ok {
		return n.Frame()
	}
	return vec.Root()
}

func (t *Translate) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

func (s *System) AddTranslate(src Entity, dx, dy, dz *Param, options ...Option) (*Translate, error) {
	if err := requireArgs("Translate", src, dx, dy, dz); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Translate", nil, options)
	if err != nil {
		return nil, err
	}
	switch src.(type) {
	case PointEnt:
	case NormalEnt:
		s.log.Warn().Str("entity", src.Name()).Msg("translating a normal has no effect")
	default:
		return nil, errors.Wrapf(ErrInvalidConstruction,
			"unsupported source %T when making Translate", src)
	}
	t := &Translate{base: s.newBase(o.group), Src: src, Dx: dx, Dy: dy, Dz: dz}
	s.addEntity(t)
	return t, nil
}

// Transform rotates a source point by a quaternion (or angle+axis when
// constructed with AsAxisAngle) and then shifts it by (dx,dy,dz). A normal
// source is rotated but not shifted.
type Transform struct {
	base
	Src            Entity
	Dx, Dy, Dz     *Param
	QW, QX, QY, QZ *Param
	axisAngle      bool

	pos   memo[vec.Vec]
	frame memo[vec.Frame]
}

func (t *Transform) reset(g int) { t.resetBase(g); t.pos.clear(); t.frame.clear() }

func (t *Transform) rotation() vec.Frame {
	if t.axisAngle {
		axis := vec.New(t.QX.Expr(), t.QY.Expr(), t.QZ.Expr())
		return vec.FromAxisAngle(t.QW.Expr(), axis)
	}
	return vec.FromQuaternion(t.QW.Expr(), t.QX.Expr(), t.QY.Expr(), t.QZ.Expr())
}

func (t *Transform) Pos() vec.Vec {
	return t.pos.get(func() vec.Vec {
		if p, ok := t.Src.(PointEnt); ok {
			delta := vec.New(t.Dx.Expr(), t.Dy.Expr(), t.Dz.Expr())
			return t.rotation().Rotate(p.Pos()).Add(delta)
		}
		return t.Frame().K
	})
}

func (t *Transform) Frame() vec.Frame {
	return t.frame.get(func() vec.Frame {
		if n, ok := t.Src.(NormalEnt); ok {
			return vec.Compose(n.Frame(), t.rotation())
		}
		return t.rotation()
	})
}

func (t *Transform) equations(expr.Env) ([]expr.Expr, error) { return nil, nil }

// AddTransform makes a rotate-then-translate of src. Options: InGroup,
// AsAxisAngle.
func (s *System) AddTransform(src Entity, dx, dy, dz, qw, qx, qy, qz *Param, options ...Option) (*Transform, error) {
	if err := requireArgs("Transform", src, dx, dy, dz, qw, qx, qy, qz); err != nil {
		return nil, err
	}
	o, err := s.buildOpts("Transform", []string{"axisAngle"}, options)
	if err != nil {
		return nil, err
	}
	switch src.(type) {
	case PointEnt:
	case NormalEnt:
	default:
		return nil, errors.Wrapf(ErrInvalidConstruction,
			"unsupported source %T when making Transform", src)
	}
	t := &Transform{
		base: s.newBase(o.group), Src: src,
		Dx: dx, Dy: dy, Dz: dz,
		QW: qw, QX: qx, QY: qy, QZ: qz,
		axisAngle: o.axisAngle,
	}
	s.addEntity(t)
	return t, nil
}
