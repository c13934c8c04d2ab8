// Package vec provides 3-vector and coordinate-frame algebra over symbolic
// scalars from the expr package. All operations return expression trees, so
// geometric quantities stay differentiable with respect to any free symbol.
package vec

import "github.com/parametriq/geosolver/expr"

// Vec is a 3-vector with symbolic components, expressed in root coordinates.
type Vec struct {
	X, Y, Z expr.Expr
}

func New(x, y, z expr.Expr) Vec { return Vec{X: x, Y: y, Z: z} }

func Zero() Vec { return Vec{X: expr.N(0), Y: expr.N(0), Z: expr.N(0)} }

// FromFloats builds a constant vector.
func FromFloats(x, y, z float64) Vec {
	return Vec{X: expr.N(x), Y: expr.N(y), Z: expr.N(z)}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{
		X: expr.AddOf(v.X, o.X),
		Y: expr.AddOf(v.Y, o.Y),
		Z: expr.AddOf(v.Z, o.Z),
	}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{
		X: expr.SubOf(v.X, o.X),
		Y: expr.SubOf(v.Y, o.Y),
		Z: expr.SubOf(v.Z, o.Z),
	}
}

func (v Vec) Scale(s expr.Expr) Vec {
	return Vec{
		X: expr.MulOf(s, v.X),
		Y: expr.MulOf(s, v.Y),
		Z: expr.MulOf(s, v.Z),
	}
}

func (v Vec) Neg() Vec { return v.Scale(expr.N(-1)) }

func (v Vec) Dot(o Vec) expr.Expr {
	return expr.AddOf(
		expr.MulOf(v.X, o.X),
		expr.MulOf(v.Y, o.Y),
		expr.MulOf(v.Z, o.Z),
	)
}

func (v Vec) Cross(o Vec) Vec {
	return Vec{
		X: expr.SubOf(expr.MulOf(v.Y, o.Z), expr.MulOf(v.Z, o.Y)),
		Y: expr.SubOf(expr.MulOf(v.Z, o.X), expr.MulOf(v.X, o.Z)),
		Z: expr.SubOf(expr.MulOf(v.X, o.Y), expr.MulOf(v.Y, o.X)),
	}
}

// MagSquared is |v|^2; cheaper to differentiate than Magnitude and exact at
// zero.
func (v Vec) MagSquared() expr.Expr { return v.Dot(v) }

func (v Vec) Magnitude() expr.Expr { return expr.SqrtOf(v.MagSquared()) }

// Normalize divides by the magnitude. The result is undefined when the
// vector can vanish; callers guard with constraints.
func (v Vec) Normalize() Vec {
	inv := expr.PowOf(v.MagSquared(), expr.N(-0.5))
	return v.Scale(inv)
}

// IsConstZero reports whether every component simplifies to the constant 0.
func (v Vec) IsConstZero() bool {
	for _, c := range []expr.Expr{v.X, v.Y, v.Z} {
		n, ok := c.Simplify().(*expr.Num)
		if !ok || !n.IsZero() {
			return false
		}
	}
	return true
}

// EvalAt evaluates the components numerically under env.
func (v Vec) EvalAt(env expr.Env) (x, y, z float64, ok bool) {
	x, ok1 := v.X.EvalAt(env)
	y, ok2 := v.Y.EvalAt(env)
	z, ok3 := v.Z.EvalAt(env)
	return x, y, z, ok1 && ok2 && ok3
}
