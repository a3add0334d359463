package renderer

import (
	"image"
	"image/color"

	"github.com/rmazur/go-whitted/pkg/core"
)

// Framebuffer is the row-major RGB output buffer. Workers write disjoint
// row ranges, so no synchronization guards the pixel data.
type Framebuffer struct {
	Width, Height int
	Pixels        []core.Vec3
}

// NewFramebuffer allocates a zeroed buffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the pixel color at (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// Set writes the pixel color at (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pixels[y*fb.Width+x] = c
}

// ToImage converts the buffer to an 8-bit RGBA image with gamma correction
// and clamping.
func (fb *Framebuffer) ToImage(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			if gamma > 0 {
				c = c.GammaCorrect(gamma)
			}
			c = c.Clamp(0.0, 1.0)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255 * c.X),
				G: uint8(255 * c.Y),
				B: uint8(255 * c.Z),
				A: 255,
			})
		}
	}
	return img
}
