package tracer

import (
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
	"github.com/rmazur/go-whitted/pkg/lights"
)

// Phong evaluates the local diffuse + specular contribution of one light at
// a hit point. view is the unit vector from the hit point toward the viewer.
// Shadowing is the caller's job; this function only evaluates the model.
func Phong(light lights.Light, view core.Vec3, hit *core.HitRecord) core.Vec3 {
	m := hit.Material
	n := hit.Normal
	l := light.DirectionFrom(hit.Point).Normalize()

	nDotL := math.Max(0, n.Dot(l))
	intensity := light.Intensity(l)
	if intensity == 0 {
		return core.Vec3{}
	}

	diffuse := light.Diffuse().
		MultiplyVec(m.Diffuse).
		Multiply(m.Kd * nDotL * intensity)

	// Mirror the light direction about the normal for the specular lobe.
	r := n.Multiply(2 * nDotL).Subtract(l).Normalize()
	rDotV := math.Max(0, r.Dot(view))
	specular := light.Specular().
		MultiplyVec(m.Specular).
		Multiply(m.Ks * intensity * math.Pow(rDotV, m.Shininess))

	return diffuse.Add(specular)
}
