// Package geometry provides obstacle shape predicates that are rasterized
// into the solver's obstacle mask before a simulation starts.
package geometry

import "github.com/csnje/lbflow/internal/lattice"

// Shape is an obstacle outline in continuous grid coordinates.
type Shape interface {
	// CharacteristicLength is the reference length used when computing the
	// relaxation time for a target Reynolds number.
	CharacteristicLength() float64

	// Contains reports whether the shape covers a position.
	Contains(p []float64) bool
}

// Stamp rasterizes shapes into the lattice obstacle mask. A cell becomes
// solid when any shape contains its position; all other cells are cleared.
func Stamp(l *lattice.Lattice, shapes ...Shape) {
	size := l.Size()
	pos := make([]int, len(size))
	dims := make([]bool, len(size))
	for d := range dims {
		dims[d] = true
	}
	p := make([]float64, len(size))
	for {
		for d, v := range pos {
			p[d] = float64(v)
		}
		solid := false
		for _, s := range shapes {
			if s.Contains(p) {
				solid = true
				break
			}
		}
		l.SetObstacle(pos, solid)
		if !lattice.Advance(pos, size, dims) {
			break
		}
	}
}
