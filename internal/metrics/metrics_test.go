package metrics

import (
	"math"
	"testing"

	"github.com/csnje/lbflow/internal/lattice"
)

func newLattice(t *testing.T, size []int, density float64, velocity []float64) *lattice.Lattice {
	t.Helper()
	bounds := [][2]lattice.Scheme{
		{lattice.Periodic, lattice.Periodic},
		{lattice.Periodic, lattice.Periodic},
	}
	l, err := lattice.New(lattice.D2Q9(), size, bounds, density, velocity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestMass(t *testing.T) {
	l := newLattice(t, []int{6, 4}, 1.5, []float64{0, 0})

	m := NewMass()
	m.Observe(l, 1)
	if want := 1.5 * 24; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("Value = %v, want %v", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("Value after Reset = %v, want 0", m.Value())
	}
}

func TestMassSkipsObstacles(t *testing.T) {
	l := newLattice(t, []int{4, 4}, 2.0, []float64{0, 0})
	l.SetObstacle([]int{1, 1}, true)

	m := NewMass()
	m.Observe(l, 1)
	if want := 2.0 * 15; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("Value = %v, want %v", m.Value(), want)
	}
}

func TestMomentum(t *testing.T) {
	l := newLattice(t, []int{5, 4}, 1.0, []float64{0.1, 0})

	m := NewMomentum()
	m.Observe(l, 1)
	if want := 0.1 * 20; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("Value = %v, want %v", m.Value(), want)
	}
}

func TestPeakSpeed(t *testing.T) {
	l := newLattice(t, []int{5, 4}, 1.0, []float64{0.06, 0.08})

	p := NewPeakSpeed()
	p.Observe(l, 1)
	if math.Abs(p.Value()-0.1) > 1e-12 {
		t.Errorf("Value = %v, want 0.1", p.Value())
	}
}
