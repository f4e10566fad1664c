package lattice

import (
	"fmt"
	"math"
)

// Stencil defines a discrete-velocity set: B lattice vectors in N-dimensional
// integer space, their quadrature weights, and the lattice sound speed
// squared. The solver relies on the set being closed under negation, which
// [Stencil.Validate] enforces.
type Stencil struct {
	Vectors [][]int
	Weights []float64
	CS2     float64
}

// Dims returns the spatial dimensionality of the stencil.
func (s Stencil) Dims() int {
	if len(s.Vectors) == 0 {
		return 0
	}
	return len(s.Vectors[0])
}

// Directions returns the number of discrete velocities.
func (s Stencil) Directions() int { return len(s.Vectors) }

// Validate checks the structural invariants the solver relies on: a rest
// vector, non-negative weights summing to one, and closure under full and
// per-axis negation. Bounce-back and specular reflection locate their target
// populations by vector lookup, so a stencil missing a reflection partner
// would corrupt state silently.
func (s Stencil) Validate() error {
	if len(s.Vectors) == 0 {
		return fmt.Errorf("%w: no lattice vectors", ErrBadStencil)
	}
	n := s.Dims()
	for i, c := range s.Vectors {
		if len(c) != n {
			return fmt.Errorf("%w: vector %d has %d components, want %d", ErrBadStencil, i, len(c), n)
		}
	}
	if len(s.Weights) != len(s.Vectors) {
		return fmt.Errorf("%w: %d weights for %d vectors", ErrBadStencil, len(s.Weights), len(s.Vectors))
	}
	if s.CS2 <= 0 {
		return fmt.Errorf("%w: sound speed squared %v", ErrBadStencil, s.CS2)
	}
	sum := 0.0
	for i, w := range s.Weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v at %d", ErrBadStencil, w, i)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrBadStencil, sum)
	}
	if s.direction(make([]int, n)) < 0 {
		return fmt.Errorf("%w: missing rest vector", ErrBadStencil)
	}
	probe := make([]int, n)
	for _, c := range s.Vectors {
		for d := range probe {
			probe[d] = -c[d]
		}
		if s.direction(probe) < 0 {
			return fmt.Errorf("%w: no bounce-back partner for %v", ErrBadStencil, c)
		}
		for d := 0; d < n; d++ {
			copy(probe, c)
			probe[d] = -c[d]
			if s.direction(probe) < 0 {
				return fmt.Errorf("%w: no specular partner for %v about axis %d", ErrBadStencil, c, d)
			}
		}
	}
	return nil
}

// direction returns the index of the lattice vector equal to c, or -1.
func (s Stencil) direction(c []int) int {
	for i, v := range s.Vectors {
		match := true
		for d := range v {
			if v[d] != c[d] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// D2Q9 returns the two-dimensional nine-velocity stencil.
//
// Vector index layout:
//
//	6   2   5
//	  \ | /
//	3 — 0 — 1
//	  / | \
//	7   4   8
func D2Q9() Stencil {
	return Stencil{
		Vectors: [][]int{
			{0, 0},
			{1, 0}, {0, 1}, {-1, 0}, {0, -1},
			{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
		},
		Weights: []float64{
			4.0 / 9.0,
			1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
			1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
		},
		CS2: 1.0 / 3.0,
	}
}
