package geometry

import (
	"fmt"

	"github.com/rmazur/go-whitted/pkg/core"
)

const triangleEpsilon = 1e-9

// TriangleMesh is an indexed triangle mesh. Vertices, normals and faces are
// shared read-only data; several instances may reference one mesh. When
// Smooth is set the shading normal is the barycentric blend of the vertex
// normals, otherwise the flat face normal is used.
type TriangleMesh struct {
	Vertices []core.Vec3
	Normals  []core.Vec3 // per-vertex, same length as Vertices
	Faces    [][3]int
	Smooth   bool
	Material *core.Material

	faceNormals []core.Vec3
	bbox        core.AABB
}

// NewTriangleMesh builds a mesh from vertex and face data. Vertex normals
// are computed by area-weighted face averaging when absent. Degenerate
// (zero-area) triangles and out-of-range indices are configuration errors.
func NewTriangleMesh(vertices []core.Vec3, normals []core.Vec3, faces [][3]int, smooth bool, material *core.Material) (*TriangleMesh, error) {
	if len(vertices) < 3 || len(faces) == 0 {
		return nil, fmt.Errorf("mesh: %d vertices, %d faces", len(vertices), len(faces))
	}
	if len(normals) > 0 && len(normals) != len(vertices) {
		return nil, fmt.Errorf("mesh: %d normals for %d vertices", len(normals), len(vertices))
	}

	m := &TriangleMesh{
		Vertices: vertices,
		Normals:  normals,
		Faces:    faces,
		Smooth:   smooth,
		Material: material,
	}

	m.faceNormals = make([]core.Vec3, len(faces))
	for fi, f := range faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(vertices) {
				return nil, fmt.Errorf("mesh: face %d references vertex %d of %d", fi, vi, len(vertices))
			}
		}
		e1 := vertices[f[1]].Subtract(vertices[f[0]])
		e2 := vertices[f[2]].Subtract(vertices[f[0]])
		n := e1.Cross(e2)
		if n.LengthSquared() == 0 {
			return nil, fmt.Errorf("mesh: face %d has zero area", fi)
		}
		m.faceNormals[fi] = n.Normalize()
	}

	if len(m.Normals) == 0 {
		m.Normals = averageNormals(vertices, faces)
	}

	m.bbox = core.NewAABBFromPoints(vertices...)
	return m, nil
}

// averageNormals derives per-vertex normals by summing the area-weighted
// normals of adjacent faces.
func averageNormals(vertices []core.Vec3, faces [][3]int) []core.Vec3 {
	normals := make([]core.Vec3, len(vertices))
	for _, f := range faces {
		e1 := vertices[f[1]].Subtract(vertices[f[0]])
		e2 := vertices[f[2]].Subtract(vertices[f[0]])
		n := e1.Cross(e2) // unnormalized, magnitude weights by area
		for _, vi := range f {
			normals[vi] = normals[vi].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// Hit tests the ray against every triangle and keeps the closest hit
func (m *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	closestSoFar := tMax

	for fi := range m.Faces {
		if hit, ok := m.hitTriangle(fi, ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closest = hit
		}
	}
	return closest, closest != nil
}

// hitTriangle runs the Moller-Trumbore test against one face
func (m *TriangleMesh) hitTriangle(fi int, ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	f := m.Faces[fi]
	v0 := m.Vertices[f[0]]
	v1 := m.Vertices[f[1]]
	v2 := m.Vertices[f[2]]

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return nil, false // ray parallel to the triangle plane
	}

	f1 := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f1 * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f1 * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	t := f1 * edge2.Dot(q)
	if t < tMin || t > tMax {
		return nil, false
	}

	hit := &core.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: m.Material,
	}

	var normal core.Vec3
	if m.Smooth {
		w := 1.0 - u - v
		normal = m.Normals[f[0]].Multiply(w).
			Add(m.Normals[f[1]].Multiply(u)).
			Add(m.Normals[f[2]].Multiply(v)).
			Normalize()
	} else {
		normal = m.faceNormals[fi]
	}
	hit.SetFaceNormal(ray, normal)
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box of all vertices
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bbox
}
