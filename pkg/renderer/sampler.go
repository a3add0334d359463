package renderer

import (
	"math"
	"math/rand"

	"github.com/rmazur/go-whitted/pkg/core"
	"github.com/rmazur/go-whitted/pkg/scene"
	"github.com/rmazur/go-whitted/pkg/tracer"
)

// stratumOffsets are the 2x2 stratum centers inside a pixel. The primary
// sample covers the pixel center; refinement adds up to three of the
// strata around it.
var stratumOffsets = [3][2]float64{
	{0.25, 0.25},
	{0.75, 0.25},
	{0.25, 0.75},
}

// adaptiveSampler decides how many rays each pixel gets. Pass one traces a
// single ray through every pixel center; pass two compares each pixel's 2x2
// base-color neighborhood and, where the contrast threshold is exceeded,
// traces extra stratified sub-samples and averages.
type adaptiveSampler struct {
	tracer   *tracer.Whitted
	camera   *Camera
	settings scene.Settings
}

// samplePrimary traces the pass-one ray through a pixel center
func (s *adaptiveSampler) samplePrimary(x, y int) core.Vec3 {
	ray := s.camera.RayThrough(float64(x)+0.5, float64(y)+0.5)
	return s.tracer.Trace(ray)
}

// refine computes the final color for one pixel from the completed base
// buffer. It returns the color and the number of extra samples traced.
func (s *adaptiveSampler) refine(base *Framebuffer, x, y int) (core.Vec3, int) {
	center := base.At(x, y)
	if !s.neighborhoodDiffers(base, x, y) {
		return center, 0
	}

	// Deterministic per-pixel jitter: results are reproducible and no
	// generator is shared across workers.
	rng := rand.New(rand.NewSource(pixelSeed(x, y, base.Width)))

	sum := center
	count := 1
	for i := 0; i < s.settings.MaxSubSamples; i++ {
		jx := (rng.Float64() - 0.5) * 0.5
		jy := (rng.Float64() - 0.5) * 0.5
		sx := float64(x) + stratumOffsets[i][0] + jx
		sy := float64(y) + stratumOffsets[i][1] + jy
		sum = sum.Add(s.tracer.Trace(s.camera.RayThrough(sx, sy)))
		count++
	}
	return sum.Multiply(1.0 / float64(count)), count - 1
}

// neighborhoodDiffers applies the per-channel contrast test over the 2x2
// cell anchored at (x, y); coordinates are clamped at the image edge.
func (s *adaptiveSampler) neighborhoodDiffers(base *Framebuffer, x, y int) bool {
	x1 := min(x+1, base.Width-1)
	y1 := min(y+1, base.Height-1)

	a := base.At(x, y)
	b := base.At(x1, y)
	c := base.At(x, y1)
	d := base.At(x1, y1)

	return s.colorsDiffer(a, b) || s.colorsDiffer(a, c) ||
		s.colorsDiffer(d, b) || s.colorsDiffer(d, c)
}

func (s *adaptiveSampler) colorsDiffer(a, b core.Vec3) bool {
	t := s.settings.Contrast
	return math.Abs(a.X-b.X) > t || math.Abs(a.Y-b.Y) > t || math.Abs(a.Z-b.Z) > t
}

// pixelSeed mixes the pixel index into a seed with odd multipliers so
// neighboring pixels do not share jitter sequences.
func pixelSeed(x, y, width int) int64 {
	idx := int64(y)*int64(width) + int64(x)
	return idx*2654435761 + 0x9e3779b9
}
