package lattice

import "errors"

// Construction contract violations. Iterate itself performs no I/O and has
// no recoverable error conditions.
var (
	// ErrBadStencil indicates a stencil violating a structural invariant.
	ErrBadStencil = errors.New("lattice: invalid stencil")

	// ErrBadSize indicates a grid dimension with a non-positive size.
	ErrBadSize = errors.New("lattice: invalid grid size")

	// ErrDimensionMismatch indicates construction arguments whose lengths
	// disagree with the stencil's dimensionality.
	ErrDimensionMismatch = errors.New("lattice: dimension mismatch")

	// ErrBadScheme indicates an unrecognized boundary scheme name.
	ErrBadScheme = errors.New("lattice: unknown boundary scheme")
)
