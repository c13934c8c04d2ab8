package solver

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/parametriq/geosolver/expr"
	"github.com/parametriq/geosolver/vec"
)

// Entity is a geometric object with a lazily derived symbolic position or
// orientation. An entity may contribute equations of its own (for example
// the quaternion unit-norm condition) independent of any user constraint.
type Entity interface {
	Name() string
	Group() int

	reset(g int)
	// equations returns the entity's own invariant residuals under the
	// current solving group, if any. env carries the current numeric value
	// of every free parameter.
	equations(env expr.Env) ([]expr.Expr, error)
}

// PointEnt is an entity with a position vector.
type PointEnt interface {
	Entity
	Pos() vec.Vec
}

// NormalEnt is an entity with an orientation frame.
type NormalEnt interface {
	Entity
	Frame() vec.Frame
}

// base carries the bookkeeping shared by every entity and constraint.
type base struct {
	name         string
	group        int
	solvingGroup int
}

func (b *base) Name() string {
	if b.name == "" {
		return "<unknown>"
	}
	return b.name
}

func (b *base) Group() int { return b.group }

func (b *base) resetBase(g int) { b.solvingGroup = g }

// memo is a two-state expression cache: Unset or Computed. reset clears it
// so symbolic objects are recomputed against the new solving group.
type memo[T any] struct {
	v  T
	ok bool
}

func (m *memo[T]) get(compute func() T) T {
	if !m.ok {
		m.v = compute()
		m.ok = true
	}
	return m.v
}

func (m *memo[T]) clear() {
	var zero T
	m.v = zero
	m.ok = false
}

// ============================================================
// Factory options
// ============================================================

// Option is an optional named argument accepted by entity and constraint
// factories. Each variant accepts a fixed, documented subset; passing an
// option a variant does not accept, or passing the same option twice, is
// ErrInvalidConstruction.
type Option func(*factoryOpts) error

type factoryOpts struct {
	allowed map[string]bool

	group    int
	groupSet bool

	wrkpln    *Workplane
	wrkplnSet bool

	supplement    bool
	supplementSet bool

	axisAngle    bool
	axisAngleSet bool
}

func (o *factoryOpts) set(name string, isSet *bool) error {
	if !o.allowed[name] {
		return errors.Wrapf(ErrInvalidConstruction, "unknown option %q", name)
	}
	if *isSet {
		return errors.Wrapf(ErrInvalidConstruction, "duplicate option %q", name)
	}
	*isSet = true
	return nil
}

// InGroup overrides the creation group (default: the system's GroupHandle).
func InGroup(g int) Option {
	return func(o *factoryOpts) error {
		if err := o.set("group", &o.groupSet); err != nil {
			return err
		}
		o.group = g
		return nil
	}
}

// OnWorkplane makes a constraint operate on projections onto w instead of
// in full 3D.
func OnWorkplane(w *Workplane) Option {
	return func(o *factoryOpts) error {
		if err := o.set("workplane", &o.wrkplnSet); err != nil {
			return err
		}
		o.wrkpln = w
		return nil
	}
}

// Supplement measures the supplementary angle (flips one direction vector).
func Supplement() Option {
	return func(o *factoryOpts) error {
		if err := o.set("supplement", &o.supplementSet); err != nil {
			return err
		}
		o.supplement = true
		return nil
	}
}

// AsAxisAngle interprets a Transform's (qw,qx,qy,qz) as angle plus rotation
// axis instead of a quaternion.
func AsAxisAngle() Option {
	return func(o *factoryOpts) error {
		if err := o.set("axisAngle", &o.axisAngleSet); err != nil {
			return err
		}
		o.axisAngle = true
		return nil
	}
}

// buildOpts validates the option list against the variant's accepted set and
// applies the system defaults.
func (s *System) buildOpts(variant string, accepted []string, options []Option) (*factoryOpts, error) {
	o := &factoryOpts{allowed: make(map[string]bool, len(accepted)+1)}
	o.allowed["group"] = true // every variant takes a group override
	for _, a := range accepted {
		o.allowed[a] = true
	}
	for _, opt := range options {
		if err := opt(o); err != nil {
			return nil, errors.Wrapf(err, "making %s", variant)
		}
	}
	if !o.groupSet || o.group == 0 {
		o.group = s.GroupHandle
	}
	return o, nil
}

func requireArgs(variant string, args ...any) error {
	for i, a := range args {
		if isNilArg(a) {
			return errors.Wrapf(ErrInvalidConstruction,
				"missing argument %d when making %s", i+1, variant)
		}
	}
	return nil
}

func isNilArg(a any) bool {
	if a == nil {
		return true
	}
	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
