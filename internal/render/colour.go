package render

import "math"

// hsvToRGB converts an HSV colour ([0,360], [0,1], [0,1]) to RGB components
// in [0,1].
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	c := v * s
	h = math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch {
	case h < 1:
		r, g, b = c, x, 0
	case h < 2:
		r, g, b = x, c, 0
	case h < 3:
		r, g, b = 0, c, x
	case h < 4:
		r, g, b = 0, x, c
	case h < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return r + m, g + m, b + m
}
