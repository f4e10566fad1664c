package metrics

import "github.com/csnje/lbflow/internal/lattice"

// PeakSpeed reports the largest velocity magnitude over all fluid cells.
// A runaway value flags a numerically unstable relaxation time.
type PeakSpeed struct {
	last float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(l *lattice.Lattice, _ int) {
	size := l.Size()
	pos := make([]int, len(size))
	dims := make([]bool, len(size))
	for d := range dims {
		dims[d] = true
	}
	peak := 0.0
	for {
		if !l.Obstacle(pos) {
			if v := l.Velocity(pos); v > peak {
				peak = v
			}
		}
		if !lattice.Advance(pos, size, dims) {
			break
		}
	}
	p.last = peak
}

func (p *PeakSpeed) Value() float64 { return p.last }

func (p *PeakSpeed) Reset() { p.last = 0 }
