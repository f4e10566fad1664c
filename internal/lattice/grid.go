package lattice

// Index returns the flat slice offset for a grid position. The grid is
// row-major with dimension 0 varying fastest; every sweep in the package uses
// this same linearization.
func Index(pos, size []int) int {
	idx, mult := pos[0], size[0]
	for d := 1; d < len(size); d++ {
		idx += mult * pos[d]
		mult *= size[d]
	}
	return idx
}

// Advance increments pos odometer-style over the enabled dimensions, carrying
// into the next enabled dimension on overflow. Disabled dimensions are held
// fixed, which turns a full-grid sweep into a boundary-hyperplane sweep. It
// reports whether a position remains.
func Advance(pos, size []int, dims []bool) bool {
	for d := range pos {
		if !dims[d] {
			continue
		}
		pos[d]++
		if pos[d] < size[d] {
			return true
		}
		pos[d] = 0
	}
	return false
}
