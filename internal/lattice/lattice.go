package lattice

import (
	"fmt"
	"math"
)

// Lattice holds the per-cell distribution functions and macroscopic fields of
// a BGK lattice Boltzmann simulation. The grid size, stencil, and boundary
// configuration are fixed at construction; cell state mutates only through
// [Lattice.Iterate] and the obstacle mask through [Lattice.SetObstacle].
type Lattice struct {
	stencil Stencil
	size    []int
	bounds  [][2]Scheme
	cells   int

	// Flat per-cell storage keeps records contiguous. f and fpost are
	// separate buffers so collision reads never alias streaming writes.
	f     []float64 // cells × B populations, pre-collision
	fpost []float64 // cells × B populations, relaxed pre-streaming
	rho   []float64 // cells
	u     []float64 // cells × N

	solid []bool

	// Reference state refreshed onto Inflow hyperplanes each tick.
	srcF   []float64
	srcRho float64
	srcU   []float64
}

// New constructs a lattice with every cell seeded at the equilibrium of the
// given uniform density and velocity. The same state becomes the reference
// for Inflow boundaries. bounds supplies a (low, high) scheme pair per
// dimension.
func New(st Stencil, size []int, bounds [][2]Scheme, density float64, velocity []float64) (*Lattice, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	n := st.Dims()
	if len(size) != n {
		return nil, fmt.Errorf("%w: %d sizes for %d dimensions", ErrDimensionMismatch, len(size), n)
	}
	if len(bounds) != n {
		return nil, fmt.Errorf("%w: %d boundary pairs for %d dimensions", ErrDimensionMismatch, len(bounds), n)
	}
	if len(velocity) != n {
		return nil, fmt.Errorf("%w: %d velocity components for %d dimensions", ErrDimensionMismatch, len(velocity), n)
	}
	cells := 1
	for d, sz := range size {
		if sz < 1 {
			return nil, fmt.Errorf("%w: dimension %d has size %d", ErrBadSize, d, sz)
		}
		cells *= sz
	}

	b := st.Directions()
	l := &Lattice{
		stencil: st,
		size:    append([]int(nil), size...),
		bounds:  append([][2]Scheme(nil), bounds...),
		cells:   cells,
		f:       make([]float64, cells*b),
		fpost:   make([]float64, cells*b),
		rho:     make([]float64, cells),
		u:       make([]float64, cells*n),
		solid:   make([]bool, cells),
		srcF:    make([]float64, b),
		srcRho:  density,
		srcU:    append([]float64(nil), velocity...),
	}
	l.equilibrium(l.srcF, density, velocity)
	for c := 0; c < cells; c++ {
		copy(l.f[c*b:(c+1)*b], l.srcF)
		l.rho[c] = density
		copy(l.u[c*n:(c+1)*n], velocity)
	}
	return l, nil
}

// Dims returns the spatial dimensionality of the grid.
func (l *Lattice) Dims() int { return l.stencil.Dims() }

// Size returns a copy of the per-dimension grid sizes.
func (l *Lattice) Size() []int { return append([]int(nil), l.size...) }

// Cells returns the total number of grid cells.
func (l *Lattice) Cells() int { return l.cells }

// Iterate advances the simulation one tick: BGK collision, streaming,
// derived-quantity update, then inflow/outflow maintenance. Each phase sweeps
// the whole grid before the next begins. The relaxation time tau must be at
// least 0.5 for numerical stability.
func (l *Lattice) Iterate(tau float64) {
	l.collide(tau)
	l.stream()
	l.derive()
	l.refreshOpenBoundaries()
}

// equilibrium fills feq with the second-order expansion of the Maxwell
// distribution for the given density and velocity.
func (l *Lattice) equilibrium(feq []float64, rho float64, u []float64) {
	cs2 := l.stencil.CS2
	cs2x2 := cs2 + cs2
	cs4x2 := 2 * cs2 * cs2
	uu := dot(u, u)
	for i, c := range l.stencil.Vectors {
		cu := 0.0
		for d, v := range c {
			cu += float64(v) * u[d]
		}
		feq[i] = l.stencil.Weights[i] * rho * (1 + cu/cs2 + cu*cu/cs4x2 - uu/cs2x2)
	}
}

func (l *Lattice) collide(tau float64) {
	b := l.stencil.Directions()
	n := l.stencil.Dims()
	feq := make([]float64, b)
	for c := 0; c < l.cells; c++ {
		if l.solid[c] {
			continue
		}
		l.equilibrium(feq, l.rho[c], l.u[c*n:(c+1)*n])
		f := l.f[c*b : (c+1)*b]
		fpost := l.fpost[c*b : (c+1)*b]
		for i := range f {
			fpost[i] = f[i] - (f[i]-feq[i])/tau
		}
	}
}

func (l *Lattice) stream() {
	n := l.stencil.Dims()
	b := l.stencil.Directions()
	pos := make([]int, n)
	all := make([]bool, n)
	for d := range all {
		all[d] = true
	}
	dst := make([]int, n)
	vec := make([]int, n)
	for {
		idx := Index(pos, l.size)
		if l.solid[idx] {
			if !Advance(pos, l.size, all) {
				break
			}
			continue
		}

		for i, c := range l.stencil.Vectors {
			valid, remapped, bounce := true, false, false
			for d, v := range c {
				vec[d] = v
				switch next := pos[d] + v; {
				case next < 0:
					switch l.bounds[d][0] {
					case Periodic:
						dst[d] = l.size[d] - 1
					case BounceBack:
						bounce = true
					case SpecularReflection:
						dst[d] = pos[d]
						vec[d] = -v
						remapped = true
					default:
						valid = false
					}
				case next >= l.size[d]:
					switch l.bounds[d][1] {
					case Periodic:
						dst[d] = 0
					case BounceBack:
						bounce = true
					case SpecularReflection:
						dst[d] = pos[d]
						vec[d] = -v
						remapped = true
					default:
						valid = false
					}
				default:
					dst[d] = next
				}
			}

			// Any solid destination reflects, whatever the boundary says.
			if valid && !bounce && l.solid[Index(dst, l.size)] {
				bounce = true
			}
			if bounce {
				copy(dst, pos)
				for d, v := range c {
					vec[d] = -v
				}
				remapped = true
				valid = true
			}
			if !valid {
				// Inflow/outflow sides drop the population here; phase 4
				// rewrites those hyperplanes.
				continue
			}

			to := i
			if remapped {
				to = l.stencil.direction(vec)
				if to < 0 {
					panic(fmt.Sprintf("lattice: no direction for reflected vector %v", vec))
				}
			}
			l.f[Index(dst, l.size)*b+to] = l.fpost[idx*b+i]
		}

		if !Advance(pos, l.size, all) {
			break
		}
	}
}

func (l *Lattice) derive() {
	b := l.stencil.Directions()
	n := l.stencil.Dims()
	for c := 0; c < l.cells; c++ {
		if l.solid[c] {
			continue
		}
		f := l.f[c*b : (c+1)*b]
		rho := 0.0
		for _, v := range f {
			rho += v
		}
		l.rho[c] = rho

		u := l.u[c*n : (c+1)*n]
		for d := range u {
			u[d] = 0
		}
		if rho <= 0 {
			continue
		}
		for i, cv := range l.stencil.Vectors {
			for d, v := range cv {
				u[d] += float64(v) * f[i]
			}
		}
		for d := range u {
			u[d] /= rho
		}
	}
}

func (l *Lattice) refreshOpenBoundaries() {
	n := l.stencil.Dims()
	for d, pair := range l.bounds {
		for side, scheme := range pair {
			if scheme != Inflow && scheme != Outflow {
				continue
			}
			pos := make([]int, n)
			dims := make([]bool, n)
			for k := range dims {
				dims[k] = true
			}
			dims[d] = false
			inward := 1
			if side == 1 {
				pos[d] = l.size[d] - 1
				inward = -1
			}
			for {
				idx := Index(pos, l.size)
				if !l.solid[idx] {
					if scheme == Inflow {
						l.setCell(idx, l.srcF, l.srcRho, l.srcU)
					} else {
						pos[d] += inward
						src := Index(pos, l.size)
						pos[d] -= inward
						l.copyCell(idx, src)
					}
				}
				if !Advance(pos, l.size, dims) {
					break
				}
			}
		}
	}
}

func (l *Lattice) setCell(idx int, f []float64, rho float64, u []float64) {
	b := l.stencil.Directions()
	n := l.stencil.Dims()
	copy(l.f[idx*b:(idx+1)*b], f)
	l.rho[idx] = rho
	copy(l.u[idx*n:(idx+1)*n], u)
}

func (l *Lattice) copyCell(dst, src int) {
	b := l.stencil.Directions()
	n := l.stencil.Dims()
	copy(l.f[dst*b:(dst+1)*b], l.f[src*b:(src+1)*b])
	l.rho[dst] = l.rho[src]
	copy(l.u[dst*n:(dst+1)*n], l.u[src*n:(src+1)*n])
}

// Density returns the density at pos. Obstacle cells report their last
// computed value.
func (l *Lattice) Density(pos []int) float64 { return l.rho[Index(pos, l.size)] }

// VelocityVector returns a copy of the velocity vector at pos.
func (l *Lattice) VelocityVector(pos []int) []float64 {
	n := l.stencil.Dims()
	idx := Index(pos, l.size)
	out := make([]float64, n)
	copy(out, l.u[idx*n:(idx+1)*n])
	return out
}

// Velocity returns the velocity magnitude at pos.
func (l *Lattice) Velocity(pos []int) float64 {
	n := l.stencil.Dims()
	idx := Index(pos, l.size)
	u := l.u[idx*n : (idx+1)*n]
	return math.Sqrt(dot(u, u))
}

// Vorticity returns the unnormalized central difference dv/dx - du/dy at pos.
// Positions on the outer ring of the grid report zero rather than a one-sided
// difference; this is a known approximation kept for compatibility with the
// rendering pipeline. Neighbours are read regardless of the obstacle mask, so
// obstacle-adjacent values can be meaningless and callers mask them out.
// Panics for grids that are not two-dimensional.
func (l *Lattice) Vorticity(pos []int) float64 {
	if l.stencil.Dims() != 2 {
		panic("lattice: vorticity implemented for 2-D lattices only")
	}
	for d, p := range pos {
		if p < 1 || p > l.size[d]-2 {
			return 0
		}
	}
	x, y := pos[0], pos[1]
	return l.uComp2(x+1, y, 1) - l.uComp2(x-1, y, 1) - l.uComp2(x, y+1, 0) + l.uComp2(x, y-1, 0)
}

// uComp2 reads one velocity component on a 2-D grid.
func (l *Lattice) uComp2(x, y, d int) float64 {
	return l.u[(y*l.size[0]+x)*2+d]
}

// Obstacle reports whether the cell at pos is solid.
func (l *Lattice) Obstacle(pos []int) bool { return l.solid[Index(pos, l.size)] }

// SetObstacle marks the cell at pos as solid or fluid. Intended to be called
// before the simulation starts; flipping cells mid-run changes the physical
// meaning abruptly.
func (l *Lattice) SetObstacle(pos []int, v bool) { l.solid[Index(pos, l.size)] = v }

// RelaxationTime computes the BGK relaxation time that realizes the given
// Reynolds number for a flow speed and characteristic obstacle length.
// Values approach 0.5 in the zero-viscosity limit.
func (l *Lattice) RelaxationTime(velocity, characteristicLength, reynolds float64) float64 {
	return characteristicLength*velocity/(l.stencil.CS2*reynolds) + 0.5
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i, v := range a {
		sum += v * b[i]
	}
	return sum
}
