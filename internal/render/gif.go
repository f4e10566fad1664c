package render

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

// Animator collects rendered frames and writes them out as an animated GIF.
type Animator struct {
	frames []*image.Paletted
	delays []int
}

// NewAnimator returns an empty animator.
func NewAnimator() *Animator { return &Animator{} }

// AddFrame quantizes img onto the Plan 9 palette and appends it with the
// given delay in hundredths of a second.
func (a *Animator) AddFrame(img image.Image, delay int) {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
	a.frames = append(a.frames, p)
	a.delays = append(a.delays, delay)
}

// Len returns the number of collected frames.
func (a *Animator) Len() int { return len(a.frames) }

// WriteGIF encodes the collected frames to a file.
func (a *Animator) WriteGIF(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &gif.GIF{Image: a.frames, Delay: a.delays})
}
