package core

// HitRecord describes the closest surface intersection along a ray
type HitRecord struct {
	T         float64   // Ray parameter at the hit
	Point     Vec3      // World-space hit point
	Normal    Vec3      // World-space shading normal, faces the incoming ray
	Material  *Material // Material at the hit point
	FrontFace bool      // Whether the ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face.
// The outward normal must point away from the surface; the stored normal
// always opposes the incoming ray direction.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape is the interface for anything a ray can hit. Hit returns the closest
// intersection within [tMin, tMax] or false. Implementations must not mutate
// shared state; they are called concurrently from render workers.
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}
