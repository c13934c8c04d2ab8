package solver

import "github.com/cockroachdb/errors"

// Sentinel error kinds. Callers classify failures with errors.Is.
var (
	// ErrInvalidConstruction reports a bad factory call: missing required
	// argument, duplicate option, or an option the variant does not accept.
	ErrInvalidConstruction = errors.New("invalid construction")

	// ErrEmptyGroup reports a solve target with no parameters, or one that
	// produced no residual equations before any reduction succeeded.
	ErrEmptyGroup = errors.New("empty solving group")

	// ErrScalarSolve reports that the one-dimensional reduction failed to
	// drive a single-unknown residual to zero. Fatal: the equation states a
	// required relation and cannot be dropped.
	ErrScalarSolve = errors.New("scalar solve failed")

	// ErrOptimization reports non-convergence (or convergence to a nonzero
	// residual) of the general nonlinear solve.
	ErrOptimization = errors.New("optimization failed")

	// ErrUnimplemented reports a constraint variant whose equation is not
	// defined yet.
	ErrUnimplemented = errors.New("constraint equation not implemented")
)
