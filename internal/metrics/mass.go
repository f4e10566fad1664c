// Package metrics provides per-tick diagnostics computed from the lattice
// macroscopic fields. Each metric stores its most recent observation;
// obstacle cells are excluded since their state is inert.
package metrics

import "github.com/csnje/lbflow/internal/lattice"

// Mass sums density over all fluid cells. On closed boundary configurations
// it is conserved, which makes it the primary sanity diagnostic.
type Mass struct {
	last float64
}

func NewMass() *Mass { return &Mass{} }

func (m *Mass) Name() string { return "mass" }

func (m *Mass) Observe(l *lattice.Lattice, _ int) {
	size := l.Size()
	pos := make([]int, len(size))
	dims := make([]bool, len(size))
	for d := range dims {
		dims[d] = true
	}
	sum := 0.0
	for {
		if !l.Obstacle(pos) {
			sum += l.Density(pos)
		}
		if !lattice.Advance(pos, size, dims) {
			break
		}
	}
	m.last = sum
}

func (m *Mass) Value() float64 { return m.last }

func (m *Mass) Reset() { m.last = 0 }
