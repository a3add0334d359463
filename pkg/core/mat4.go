package core

import (
	"fmt"
	"math"
)

// Mat4 is a 4x4 matrix in row-major order, used for affine object-to-world
// transforms. Points are treated as column vectors with w=1, directions
// with w=0.
type Mat4 [4][4]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate returns a translation matrix
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[0][3] = v.X
	m[1][3] = v.Y
	m[2][3] = v.Z
	return m
}

// Scale returns a scaling matrix
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0][0] = v.X
	m[1][1] = v.Y
	m[2][2] = v.Z
	return m
}

// RotateX returns a rotation matrix about the x axis, angle in degrees
func RotateX(degrees float64) Mat4 {
	s, c := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m[1][1] = c
	m[1][2] = -s
	m[2][1] = s
	m[2][2] = c
	return m
}

// RotateY returns a rotation matrix about the y axis, angle in degrees
func RotateY(degrees float64) Mat4 {
	s, c := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m[0][0] = c
	m[0][2] = s
	m[2][0] = -s
	m[2][2] = c
	return m
}

// RotateZ returns a rotation matrix about the z axis, angle in degrees
func RotateZ(degrees float64) Mat4 {
	s, c := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m[0][0] = c
	m[0][1] = -s
	m[1][0] = s
	m[1][1] = c
	return m
}

// Mul returns the matrix product m * other
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Transpose returns the transposed matrix
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// TransformPoint applies the transform to a point (w = 1)
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TransformVector applies the transform to a direction (w = 0)
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Determinant returns the determinant of the upper-left 3x3 block. It is the
// full determinant for affine matrices with a (0,0,0,1) bottom row.
func (m Mat4) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse of an affine transform matrix. It fails when
// the linear part is singular.
func (m Mat4) Inverse() (Mat4, error) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Mat4{}, fmt.Errorf("singular transform (determinant %g)", det)
	}
	invDet := 1.0 / det

	// Inverse of the 3x3 linear block via the adjugate.
	var inv Mat4
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet

	// Inverse translation: -A^-1 * t
	t := Vec3{X: m[0][3], Y: m[1][3], Z: m[2][3]}
	it := inv.TransformVector(t).Negate()
	inv[0][3] = it.X
	inv[1][3] = it.Y
	inv[2][3] = it.Z
	inv[3][3] = 1
	return inv, nil
}

// Transform describes a translate/rotate/scale triple as found in scene
// files. Rotation angles are in degrees, applied as Rx*Ry*Rz.
type Transform struct {
	Translate Vec3
	Rotate    Vec3
	Scale     Vec3
}

// DefaultTransform returns the identity transform
func DefaultTransform() Transform {
	return Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}}
}

// Matrix composes the object-to-world matrix as T * Rx * Ry * Rz * S
func (t Transform) Matrix() Mat4 {
	r := RotateX(t.Rotate.X).Mul(RotateY(t.Rotate.Y)).Mul(RotateZ(t.Rotate.Z))
	return Translate(t.Translate).Mul(r).Mul(Scale(t.Scale))
}
