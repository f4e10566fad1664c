package lattice

import "fmt"

// Scheme selects the treatment of one boundary side of one grid dimension.
type Scheme int

const (
	// Periodic wraps populations leaving one side onto the opposite side.
	Periodic Scheme = iota
	// BounceBack reflects populations straight back along their reversed
	// velocity vector (no-slip wall).
	BounceBack
	// SpecularReflection mirrors only the velocity component normal to the
	// boundary (free-slip wall).
	SpecularReflection
	// Inflow pins the boundary hyperplane to the reference state supplied at
	// construction.
	Inflow
	// Outflow copies the adjacent interior cell onto the boundary hyperplane
	// (zero-gradient extrapolation).
	Outflow
)

var schemeNames = [...]string{
	Periodic:           "periodic",
	BounceBack:         "bounce-back",
	SpecularReflection: "specular",
	Inflow:             "inflow",
	Outflow:            "outflow",
}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// ParseScheme converts a configuration tag to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if n == name {
			return Scheme(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadScheme, name)
}
