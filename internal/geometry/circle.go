package geometry

// Circle is an object circular in every dimension (circle, sphere, ...).
type Circle struct {
	center []float64
	r2     float64
	length float64
}

// NewCircle builds a circular obstacle from a center position and radius.
func NewCircle(center []float64, radius float64) *Circle {
	return &Circle{
		center: append([]float64(nil), center...),
		r2:     radius * radius,
		length: radius + radius,
	}
}

// CharacteristicLength returns the diameter.
func (c *Circle) CharacteristicLength() float64 { return c.length }

func (c *Circle) Contains(p []float64) bool {
	sum := 0.0
	for d, v := range p {
		dv := v - c.center[d]
		sum += dv * dv
	}
	return sum <= c.r2
}
