package tracer

import (
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
	"github.com/rmazur/go-whitted/pkg/scene"
)

// rayEpsilon offsets secondary rays past the surface they spawned from so
// they do not re-hit it.
const rayEpsilon = 1e-4

// Whitted is the recursive ray tracer: ambient plus shadowed Phong per
// light, then reflection and refraction rays recursing back into the scene.
// It holds only a reference to the immutable scene, so one instance is safe
// to share across render workers.
type Whitted struct {
	scene *scene.Scene
}

// New creates a tracer over a built scene
func New(s *scene.Scene) *Whitted {
	return &Whitted{scene: s}
}

// Trace returns the color seen along a primary ray
func (w *Whitted) Trace(ray core.Ray) core.Vec3 {
	return w.trace(ray, w.scene.Settings.MaxDepth, 1.0)
}

// trace carries the remaining recursion depth and the remaining
// contribution weight explicitly. Termination on either bound is normal:
// the unresolved tail contributes black.
func (w *Whitted) trace(ray core.Ray, depth int, weight float64) core.Vec3 {
	if depth <= 0 || weight < w.scene.Settings.Cutoff {
		return core.Vec3{}
	}

	hit, ok := w.scene.Hit(ray, rayEpsilon, math.Inf(1))
	if !ok {
		return w.scene.Background
	}

	m := hit.Material
	color := w.scene.Ambient.MultiplyVec(m.Ambient).Multiply(m.Ka)

	view := ray.Direction.Negate().Normalize()
	for _, light := range w.scene.Lights {
		if w.shadowed(hit.Point, light.DirectionFrom(hit.Point)) {
			continue
		}
		color = color.Add(Phong(light, view, hit))
	}

	if !m.IsReflective() && !m.IsTransmissive() {
		return color
	}

	unit := ray.Direction.Normalize()
	reflectDir := unit.Reflect(hit.Normal)
	reflectWeight := m.Kr

	if m.IsTransmissive() {
		// Entering or exiting decides which side of the boundary the
		// refraction ratio sees.
		ratio := m.IOR
		if hit.FrontFace {
			ratio = 1.0 / m.IOR
		}
		cosTheta := math.Min(-unit.Dot(hit.Normal), 1.0)

		r, t := FresnelWeights(cosTheta, ratio)
		reflectWeight += m.Kt * r

		if t > 0 {
			transmitWeight := m.Kt * t
			refracted := core.NewRay(hit.Point, refract(unit, hit.Normal, ratio, cosTheta))
			transmitted := w.trace(refracted, depth-1, weight*transmitWeight)
			color = color.Add(transmitted.MultiplyVec(m.Transmissive).Multiply(transmitWeight))
		}
	}

	if reflectWeight > 0 {
		reflected := core.NewRay(hit.Point, reflectDir)
		color = color.Add(w.trace(reflected, depth-1, weight*reflectWeight).Multiply(reflectWeight))
	}

	return color
}

// shadowed runs the any-hit query toward a light. The shadow ray uses the
// unnormalized to-light vector so t = 1 lands on the light itself; the
// range is trimmed at both ends to avoid self-shadowing and hits behind
// the light.
func (w *Whitted) shadowed(point, toLight core.Vec3) bool {
	shadowRay := core.NewRay(point, toLight)
	return w.scene.Occluded(shadowRay, rayEpsilon, 1.0-rayEpsilon)
}

// FresnelWeights splits unit energy between reflection and transmission for
// the given incidence cosine and refraction ratio, using Schlick's
// approximation. Above the critical angle (total internal reflection) the
// result is (1, 0). The weights always sum to 1.
func FresnelWeights(cosTheta, ratio float64) (reflect, transmit float64) {
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	if ratio*sinTheta > 1.0 {
		return 1.0, 0.0
	}

	r0 := (1 - ratio) / (1 + ratio)
	r0 = r0 * r0
	r := r0 + (1-r0)*math.Pow(1-cosTheta, 5)
	return r, 1 - r
}

// refract bends a unit direction through the boundary by Snell's law. The
// caller has already ruled out total internal reflection.
func refract(unit, normal core.Vec3, ratio, cosTheta float64) core.Vec3 {
	outPerp := unit.Add(normal.Multiply(cosTheta)).Multiply(ratio)
	outParallel := normal.Multiply(-math.Sqrt(math.Abs(1.0 - outPerp.LengthSquared())))
	return outPerp.Add(outParallel)
}
