package geometry

import "math"

// NACA4 describes a 4-digit NACA airfoil outline in two dimensions.
type NACA4 struct {
	pos       [2]float64
	chord     float64
	camber    float64 // maximum camber, fraction of chord
	camberPos float64 // location of maximum camber, fraction of chord
	thickness float64 // maximum thickness, fraction of chord
	attack    float64 // angle of attack, radians
}

// NewNACA4 builds an airfoil at pos (leading edge) with the given chord
// length, camber/thickness parameters, and angle of attack. A NACA 2412 at 8
// degrees is NewNACA4(pos, chord, 0.02, 0.4, 0.12, 8*math.Pi/180).
func NewNACA4(pos [2]float64, chord, camber, camberPos, thickness, attack float64) *NACA4 {
	return &NACA4{
		pos:       pos,
		chord:     chord,
		camber:    camber,
		camberPos: camberPos,
		thickness: thickness,
		attack:    attack,
	}
}

// CharacteristicLength returns the chord length.
func (a *NACA4) CharacteristicLength() float64 { return a.chord }

func (a *NACA4) Contains(p []float64) bool {
	// Translate and scale to unit chord.
	x := (p[0] - a.pos[0]) / a.chord
	y := (p[1] - a.pos[1]) / a.chord

	if x*x+y*y > 1 {
		return false
	}

	// Rotate onto the chord axis.
	x, y = rotate2(x, y, a.attack)

	// Mean camber line at x.
	var yc float64
	switch {
	case a.camber == 0:
	case x <= a.camberPos:
		yc = a.camber / (a.camberPos * a.camberPos) * (a.camberPos + a.camberPos - x) * x
	default:
		q := 1 - a.camberPos
		yc = a.camber / (q * q) * (1 - (a.camberPos + a.camberPos) + ((a.camberPos+a.camberPos)-x)*x)
	}

	// Half thickness at x. NaN for x < 0, which correctly fails the
	// comparisons below.
	yt := 5 * a.thickness *
		(0.2969*math.Sqrt(x) + (-0.126+(-0.3516+(0.2843-0.1015*x)*x)*x)*x)

	return y >= yc-yt && y <= yc+yt
}

// rotate2 rotates a 2-D vector by angle radians.
func rotate2(x, y, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return x*cos - y*sin, x*sin + y*cos
}
