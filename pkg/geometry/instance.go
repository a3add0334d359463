package geometry

import (
	"fmt"

	"github.com/rmazur/go-whitted/pkg/core"
)

// Instance places a shared shape into the world under an affine transform.
// The wrapped shape stays in object space and is never copied; many
// instances may reference one mesh or primitive. Rays are mapped into object
// space with the inverse matrix, normals back out with the inverse
// transpose so they stay perpendicular under non-uniform scale.
type Instance struct {
	shape         core.Shape
	objectToWorld core.Mat4
	worldToObject core.Mat4
	normalMatrix  core.Mat4
	bbox          core.AABB
}

// NewInstance wraps a shape with an object-to-world transform. Singular
// transforms are rejected at build time.
func NewInstance(shape core.Shape, objectToWorld core.Mat4) (*Instance, error) {
	inverse, err := objectToWorld.Inverse()
	if err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}

	inst := &Instance{
		shape:         shape,
		objectToWorld: objectToWorld,
		worldToObject: inverse,
		normalMatrix:  inverse.Transpose(),
	}

	// World bounds: transform the eight corners of the object-space box.
	corners := shape.BoundingBox().Corners()
	world := make([]core.Vec3, 0, len(corners))
	for _, c := range corners {
		world = append(world, objectToWorld.TransformPoint(c))
	}
	inst.bbox = core.NewAABBFromPoints(world...)
	return inst, nil
}

// Hit maps the ray into object space, delegates, and maps the hit back.
// The direction is deliberately not renormalized so the hit parameter t is
// the same in both spaces.
func (inst *Instance) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	objectRay := core.Ray{
		Origin:    inst.worldToObject.TransformPoint(ray.Origin),
		Direction: inst.worldToObject.TransformVector(ray.Direction),
	}

	hit, ok := inst.shape.Hit(objectRay, tMin, tMax)
	if !ok {
		return nil, false
	}

	hit.Point = inst.objectToWorld.TransformPoint(hit.Point)
	hit.Normal = inst.normalMatrix.TransformVector(hit.Normal).Normalize()
	// Re-derive the facing flag in world space; the object-space facing can
	// flip under mirroring transforms.
	outward := hit.Normal
	if !hit.FrontFace {
		outward = outward.Negate()
	}
	hit.SetFaceNormal(ray, outward)
	return hit, true
}

// BoundingBox returns the world-space bounds of the transformed shape
func (inst *Instance) BoundingBox() core.AABB {
	return inst.bbox
}
