package vec

import "github.com/parametriq/geosolver/expr"

// Frame is an oriented coordinate frame: three basis axes and an origin, all
// expressed in root coordinates. Every frame-dependent computation receives
// its frame explicitly; there is no global reference singleton.
type Frame struct {
	I, J, K Vec
	Origin  Vec
}

// Root is the identity frame at the origin. A solver system holds one and
// threads it through entity construction.
func Root() Frame {
	return Frame{
		I:      FromFloats(1, 0, 0),
		J:      FromFloats(0, 1, 0),
		K:      FromFloats(0, 0, 1),
		Origin: Zero(),
	}
}

// FromQuaternion orients a frame by the rotation quaternion (w,x,y,z). The
// unit-norm condition is not enforced here; the owning Normal3D entity emits
// it as an equation.
func FromQuaternion(w, x, y, z expr.Expr) Frame {
	two := expr.N(2)
	xx := expr.MulOf(x, x)
	yy := expr.MulOf(y, y)
	zz := expr.MulOf(z, z)
	xy := expr.MulOf(x, y)
	xz := expr.MulOf(x, z)
	yz := expr.MulOf(y, z)
	wx := expr.MulOf(w, x)
	wy := expr.MulOf(w, y)
	wz := expr.MulOf(w, z)

	return Frame{
		I: Vec{
			X: expr.SubOf(expr.N(1), expr.MulOf(two, expr.AddOf(yy, zz))),
			Y: expr.MulOf(two, expr.AddOf(xy, wz)),
			Z: expr.MulOf(two, expr.SubOf(xz, wy)),
		},
		J: Vec{
			X: expr.MulOf(two, expr.SubOf(xy, wz)),
			Y: expr.SubOf(expr.N(1), expr.MulOf(two, expr.AddOf(xx, zz))),
			Z: expr.MulOf(two, expr.AddOf(yz, wx)),
		},
		K: Vec{
			X: expr.MulOf(two, expr.AddOf(xz, wy)),
			Y: expr.MulOf(two, expr.SubOf(yz, wx)),
			Z: expr.SubOf(expr.N(1), expr.MulOf(two, expr.AddOf(xx, yy))),
		},
		Origin: Zero(),
	}
}

// FromAxisAngle orients a frame by a rotation of angle (radians) about axis,
// via the Rodrigues formula. The axis is normalized symbolically.
func FromAxisAngle(angle expr.Expr, axis Vec) Frame {
	u := axis.Normalize()
	c := expr.CosOf(angle)
	s := expr.SinOf(angle)
	omc := expr.SubOf(expr.N(1), c)

	rot := func(e Vec) Vec {
		// R e = e cosθ + (u×e) sinθ + u (u·e)(1-cosθ)
		return e.Scale(c).
			Add(u.Cross(e).Scale(s)).
			Add(u.Scale(expr.MulOf(u.Dot(e), omc)))
	}
	return Frame{
		I:      rot(FromFloats(1, 0, 0)),
		J:      rot(FromFloats(0, 1, 0)),
		K:      rot(FromFloats(0, 0, 1)),
		Origin: Zero(),
	}
}

// Locate returns a copy of the frame anchored at origin.
func (f Frame) Locate(origin Vec) Frame {
	f.Origin = origin
	return f
}

// Compose chains two frames: child's axes and origin are interpreted in
// parent-local coordinates, and the result is expressed in root coordinates.
func Compose(parent, child Frame) Frame {
	return Frame{
		I:      parent.Rotate(child.I),
		J:      parent.Rotate(child.J),
		K:      parent.Rotate(child.K),
		Origin: parent.Origin.Add(parent.Rotate(child.Origin)),
	}
}

// Express returns the coordinates of v in the frame's basis.
func (f Frame) Express(v Vec) Vec {
	return Vec{X: v.Dot(f.I), Y: v.Dot(f.J), Z: v.Dot(f.K)}
}

// Rotate maps frame-local coordinates back to root coordinates.
func (f Frame) Rotate(v Vec) Vec {
	return f.I.Scale(v.X).Add(f.J.Scale(v.Y)).Add(f.K.Scale(v.Z))
}

// Project drops the out-of-plane component: the in-plane coordinates of v
// with respect to the frame's first two basis vectors.
func (f Frame) Project(v Vec) Vec {
	return Vec{X: v.Dot(f.I), Y: v.Dot(f.J), Z: expr.N(0)}
}
