package metrics

import (
	"math"

	"github.com/csnje/lbflow/internal/lattice"
)

// Momentum reports the magnitude of the total momentum vector, the sum of
// density times velocity over all fluid cells.
type Momentum struct {
	last float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(l *lattice.Lattice, _ int) {
	size := l.Size()
	pos := make([]int, len(size))
	dims := make([]bool, len(size))
	for d := range dims {
		dims[d] = true
	}
	total := make([]float64, len(size))
	for {
		if !l.Obstacle(pos) {
			rho := l.Density(pos)
			u := l.VelocityVector(pos)
			for d := range total {
				total[d] += rho * u[d]
			}
		}
		if !lattice.Advance(pos, size, dims) {
			break
		}
	}
	sum := 0.0
	for _, v := range total {
		sum += v * v
	}
	m.last = math.Sqrt(sum)
}

func (m *Momentum) Value() float64 { return m.last }

func (m *Momentum) Reset() { m.last = 0 }
