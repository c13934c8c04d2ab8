// Package solver implements a parametric geometric constraint solver.
// Entities and constraints emit symbolic residual equations over named
// scalar parameters; Solve reduces the system algebraically where it can
// and dispatches the remainder to a numeric minimizer as a sum of squares.
package solver

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/parametriq/geosolver/logger"
	"github.com/parametriq/geosolver/vec"
)

// Stats counts what the most recent Solve did. Useful for verifying that
// the reduction path fired.
type Stats struct {
	Passes       int // reduction passes over the equation set
	SingleSolved int // parameters bound by the one-dimensional reduction
	Eliminated   int // parameters bound by algebraic substitution
	Residuals    int // residual equations handed to the minimizer
	Unknowns     int // free parameters handed to the minimizer
}

// System owns parameters, entities and constraints, partitioned into
// numbered groups. Each Solve call targets one group; everything outside it
// is held fixed. A System is not safe for concurrent use.
type System struct {
	// NameTag labels the system in log output.
	NameTag string

	// GroupHandle is the group assigned to new objects unless overridden
	// with InGroup.
	GroupHandle int

	algo *Algorithm
	root vec.Frame

	params      []*Param
	entities    []Entity
	constraints []Constraint

	stats  Stats
	log    zerolog.Logger
	symSeq int
}

// New makes an empty system with group handle 1 and the default minimizer.
func New(tag string) *System {
	return &System{
		NameTag:     tag,
		GroupHandle: 1,
		algo:        DefaultAlgorithm(),
		root:        vec.Root(),
		log:         logger.Logger().With().Str("system", tag).Logger(),
	}
}

// SetAlgorithm switches the minimizer used by subsequent Solve calls.
func (s *System) SetAlgorithm(a *Algorithm) {
	if a != nil {
		s.algo = a
	}
}

// Algorithm is the currently selected minimizer.
func (s *System) Algorithm() *Algorithm { return s.algo }

// Root is the identity reference frame.
func (s *System) Root() vec.Frame { return s.root }

// Stats reports counters from the most recent Solve.
func (s *System) Stats() Stats { return s.stats }

// Params lists every parameter the system owns, in creation order.
func (s *System) Params() []*Param { return s.params }

// AddParam makes a named parameter seeded with v. Options: InGroup.
func (s *System) AddParam(name string, v float64, options ...Option) (*Param, error) {
	o, err := s.buildOpts("Param", nil, options)
	if err != nil {
		return nil, err
	}
	return s.newParamTagged(name, v, o.group), nil
}

// newParamTagged makes a parameter whose symbol name is unique within the
// system. tag is a human-readable prefix; the sequence number disambiguates.
func (s *System) newParamTagged(tag string, v float64, group int) *Param {
	s.symSeq++
	p := &Param{
		name:  tag,
		sym:   fmt.Sprintf("_%d_%s", s.symSeq, tag),
		Val:   v,
		group: group,
	}
	s.params = append(s.params, p)
	return p
}

func (s *System) newBase(group int) base {
	return base{group: group}
}

func (s *System) newCbase(o *factoryOpts) cbase {
	return cbase{base: s.newBase(o.group)}
}

func (s *System) newProjc(o *factoryOpts) projc {
	return projc{cbase: s.newCbase(o), Wrkpln: o.wrkpln}
}

func (s *System) addEntity(e Entity) {
	s.entities = append(s.entities, e)
}

func (s *System) addConstraint(c Constraint) {
	s.constraints = append(s.constraints, c)
}
