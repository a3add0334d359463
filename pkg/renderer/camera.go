package renderer

import (
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
	"github.com/rmazur/go-whitted/pkg/scene"
)

// Camera generates primary rays through the view plane. The plane sits Dist
// in front of the eye, spans a width set by the horizontal field of view,
// and is addressed in continuous pixel coordinates with (0, 0) at the top
// left.
type Camera struct {
	eye     core.Vec3
	topLeft core.Vec3
	xv, yv  core.Vec3
	sj, sk  float64
	hres    float64
	vres    float64
}

// NewCamera builds the camera basis from the scene's camera description
func NewCamera(cfg scene.Camera, width, height int) *Camera {
	zv := cfg.LookAt.Subtract(cfg.Eye).Normalize()
	xv := cfg.Up.Normalize().Cross(zv).Normalize()
	yv := zv.Cross(xv).Normalize()

	theta := cfg.FOV / 2.0 * math.Pi / 180.0
	h := cfg.Dist * math.Tan(theta)
	sj := 2.0 * h
	sk := sj * float64(height) / float64(width)

	topLeft := cfg.Eye.
		Add(zv.Multiply(cfg.Dist)).
		Add(xv.Multiply(sj / 2.0)).
		Add(yv.Multiply(sk / 2.0))

	return &Camera{
		eye:     cfg.Eye,
		topLeft: topLeft,
		xv:      xv,
		yv:      yv,
		sj:      sj,
		sk:      sk,
		hres:    float64(width),
		vres:    float64(height),
	}
}

// RayThrough returns the primary ray through continuous pixel coordinates
// (x, y); (0.5, 0.5) is the center of the top-left pixel.
func (c *Camera) RayThrough(x, y float64) core.Ray {
	v := c.topLeft.
		Subtract(c.xv.Multiply(c.sj * x / c.hres)).
		Subtract(c.yv.Multiply(c.sk * y / c.vres)).
		Subtract(c.eye)
	return core.NewRay(c.eye, v.Normalize())
}

// Eye returns the camera position
func (c *Camera) Eye() core.Vec3 {
	return c.eye
}
