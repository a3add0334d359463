package geometry

import (
	"fmt"
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *core.Material
}

// NewSphere creates a new sphere. A non-positive radius is a scene
// configuration error.
func NewSphere(center core.Vec3, radius float64, material *core.Material) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere: non-positive radius %g", radius)
	}
	return &Sphere{Center: center, Radius: radius, Material: material}, nil
}

// Hit tests if a ray intersects with the sphere.
//
// Solves the half-b quadratic: a negative discriminant is a miss, zero is a
// tangent hit with one root, positive gives two roots of which the smallest
// one >= tMin wins.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hit := &core.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}
	outwardNormal := hit.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
