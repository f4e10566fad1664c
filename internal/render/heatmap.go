// Package render converts lattice fields into false-colour images. Values
// below a reference value shade towards cyan-blue, values above towards red;
// obstacle cells are drawn white.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/csnje/lbflow/internal/lattice"
)

// Hue endpoints for values below and above the reference value.
const (
	hueBelow = 180.0
	hueAbove = 360.0
)

// Quantity selects the per-cell scalar to visualize.
type Quantity int

const (
	Density Quantity = iota
	Speed
	Vorticity
)

var quantityNames = [...]string{
	Density:   "density",
	Speed:     "speed",
	Vorticity: "vorticity",
}

func (q Quantity) String() string {
	if q < 0 || int(q) >= len(quantityNames) {
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// ParseQuantity converts a name to a Quantity.
func ParseQuantity(name string) (Quantity, error) {
	for q, n := range quantityNames {
		if n == name {
			return Quantity(q), nil
		}
	}
	return 0, fmt.Errorf("render: unknown quantity %q", name)
}

// Heatmap is a scalar field with an obstacle mask and a reference value,
// renderable as a false-colour RGBA image. Row 0 is the bottom of the grid
// and is flipped to the top of the image.
type Heatmap struct {
	w, h   int
	values []float64
	masked []bool
	ref    float64
}

// NewHeatmap allocates an empty heatmap of the given grid size.
func NewHeatmap(w, h int) *Heatmap {
	return &Heatmap{
		w:      w,
		h:      h,
		values: make([]float64, w*h),
		masked: make([]bool, w*h),
	}
}

// Set stores the field value for cell (x, y) and unmasks it.
func (hm *Heatmap) Set(x, y int, v float64) {
	hm.values[y*hm.w+x] = v
	hm.masked[y*hm.w+x] = false
}

// Mask excludes cell (x, y) from colour mapping; it renders white.
func (hm *Heatmap) Mask(x, y int) { hm.masked[y*hm.w+x] = true }

// SetReference sets the field value rendered as black; deviations in either
// direction brighten towards the respective hue.
func (hm *Heatmap) SetReference(v float64) { hm.ref = v }

// Render produces the false-colour image. Cell brightness is the deviation
// from the reference value normalized by the largest deviation in the field;
// amplify applies a square root to lift small deviations.
func (hm *Heatmap) Render(amplify bool) *image.RGBA {
	min, max := math.Inf(1), math.Inf(-1)
	for i, v := range hm.values {
		if hm.masked[i] {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	div := math.Max(math.Abs(max-hm.ref), math.Abs(min-hm.ref))

	img := image.NewRGBA(image.Rect(0, 0, hm.w, hm.h))
	for y := 0; y < hm.h; y++ {
		py := hm.h - 1 - y
		for x := 0; x < hm.w; x++ {
			i := y*hm.w + x
			if hm.masked[i] {
				img.SetRGBA(x, py, color.RGBA{255, 255, 255, 255})
				continue
			}
			hue := hueAbove
			if hm.values[i] < hm.ref {
				hue = hueBelow
			}
			v := 0.0
			if div > 0 {
				v = math.Abs(hm.values[i]-hm.ref) / div
			}
			if amplify {
				v = math.Sqrt(v)
			}
			r, g, b := hsvToRGB(hue, 1, v)
			img.SetRGBA(x, py, color.RGBA{
				R: uint8(r * 255),
				G: uint8(g * 255),
				B: uint8(b * 255),
				A: 255,
			})
		}
	}
	return img
}

// Snapshot samples a quantity from a 2-D lattice into a heatmap, masking
// obstacle cells and using ref as the reference value. Panics for grids that
// are not two-dimensional.
func Snapshot(l *lattice.Lattice, q Quantity, ref float64) *Heatmap {
	size := l.Size()
	if len(size) != 2 {
		panic("render: snapshots implemented for 2-D lattices only")
	}
	hm := NewHeatmap(size[0], size[1])
	hm.SetReference(ref)
	pos := []int{0, 0}
	for y := 0; y < size[1]; y++ {
		pos[1] = y
		for x := 0; x < size[0]; x++ {
			pos[0] = x
			if l.Obstacle(pos) {
				hm.Mask(x, y)
				continue
			}
			switch q {
			case Density:
				hm.Set(x, y, l.Density(pos))
			case Speed:
				hm.Set(x, y, l.Velocity(pos))
			case Vorticity:
				hm.Set(x, y, l.Vorticity(pos))
			}
		}
	}
	return hm
}

// WritePNG encodes an image to a file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
