package geometry

import (
	"fmt"
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
)

// Plane is an infinite two-sided plane through Point with the given normal.
// Planes have no finite bounding box; the scene keeps them out of the BVH
// and tests them linearly.
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3
	Material *core.Material
}

// NewPlane creates a new plane. A zero-length normal is a scene
// configuration error.
func NewPlane(point, normal core.Vec3, material *core.Material) (*Plane, error) {
	if normal.LengthSquared() == 0 {
		return nil, fmt.Errorf("plane: zero-length normal")
	}
	return &Plane{Point: point, Normal: normal.Normalize(), Material: material}, nil
}

// Hit tests if a ray intersects with the plane. A ray parallel to the plane
// (zero denominator) is a miss; otherwise the single linear root is a hit
// when it lies in [tMin, tMax].
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := p.Normal.Dot(ray.Direction)
	if denom == 0 {
		return nil, false
	}

	t := p.Normal.Dot(p.Point.Subtract(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	hit := &core.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
	}
	hit.SetFaceNormal(ray, p.Normal)
	return hit, true
}

// BoundingBox returns an all-space box; planes are unbounded
func (p *Plane) BoundingBox() core.AABB {
	inf := math.Inf(1)
	return core.NewAABB(core.NewVec3(-inf, -inf, -inf), core.NewVec3(inf, inf, inf))
}

// Unbounded marks the plane as having no finite bounds
func (p *Plane) Unbounded() {}
