package geometry

import (
	"fmt"
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
)

const (
	bezierSeedGrid  = 4
	bezierMaxIter   = 16
	bezierEps       = 1e-9
	bezierDomainEps = 1e-6
)

// BezierPatch is a bicubic Bezier surface over a 4x4 control-point grid
// (row-major; u runs along a row, v across rows). The control hull bounds
// the surface, so the bounding box comes straight from the control points.
type BezierPatch struct {
	Points   [16]core.Vec3
	Material *core.Material
	bbox     core.AABB
}

// NewBezierPatch builds a patch from its 16 control points
func NewBezierPatch(points [16]core.Vec3, material *core.Material) (*BezierPatch, error) {
	bbox := core.NewAABBFromPoints(points[:]...)
	if bbox.Size().LengthSquared() == 0 {
		return nil, fmt.Errorf("bezier patch: degenerate control grid")
	}
	return &BezierPatch{Points: points, Material: material, bbox: bbox}, nil
}

// bernstein returns the four cubic Bernstein weights at u
func bernstein(u float64) [4]float64 {
	om := 1.0 - u
	return [4]float64{
		om * om * om,
		3.0 * u * om * om,
		3.0 * u * u * om,
		u * u * u,
	}
}

// bernsteinDeriv returns the derivatives of the cubic Bernstein weights at u
func bernsteinDeriv(u float64) [4]float64 {
	om := 1.0 - u
	return [4]float64{
		-3.0 * om * om,
		3.0*om*om - 6.0*u*om,
		6.0*u*om - 3.0*u*u,
		3.0 * u * u,
	}
}

// Eval returns the surface point at (u, v)
func (p *BezierPatch) Eval(u, v float64) core.Vec3 {
	bu := bernstein(u)
	bv := bernstein(v)
	var sum core.Vec3
	for i := 0; i < 4; i++ {
		var row core.Vec3
		for j := 0; j < 4; j++ {
			row = row.Add(p.Points[4*i+j].Multiply(bu[j]))
		}
		sum = sum.Add(row.Multiply(bv[i]))
	}
	return sum
}

// partials returns dP/du and dP/dv at (u, v)
func (p *BezierPatch) partials(u, v float64) (core.Vec3, core.Vec3) {
	bu := bernstein(u)
	du := bernsteinDeriv(u)
	bv := bernstein(v)
	dv := bernsteinDeriv(v)

	var pu, pv core.Vec3
	for i := 0; i < 4; i++ {
		var row, rowDu core.Vec3
		for j := 0; j < 4; j++ {
			row = row.Add(p.Points[4*i+j].Multiply(bu[j]))
			rowDu = rowDu.Add(p.Points[4*i+j].Multiply(du[j]))
		}
		pu = pu.Add(rowDu.Multiply(bv[i]))
		pv = pv.Add(row.Multiply(dv[i]))
	}
	return pu, pv
}

// Hit intersects by Newton iteration over the patch parameter domain. The
// ray is rewritten as the intersection of two planes; Newton then solves the
// 2x2 system F(u,v) = 0 from a coarse grid of seeds. Seeds that leave the
// domain or fail to converge within the iteration budget are discarded, and
// the closest surviving root in [tMin, tMax] wins.
func (p *BezierPatch) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if !p.bbox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	// Two planes whose intersection line is the ray.
	d := ray.Direction
	var n1 core.Vec3
	if math.Abs(d.X) > math.Abs(d.Y) && math.Abs(d.X) > math.Abs(d.Z) {
		n1 = core.NewVec3(d.Y, -d.X, 0)
	} else {
		n1 = core.NewVec3(0, d.Z, -d.Y)
	}
	n1 = n1.Normalize()
	n2 := n1.Cross(d).Normalize()
	d1 := -n1.Dot(ray.Origin)
	d2 := -n2.Dot(ray.Origin)

	invDirLen2 := 1.0 / d.LengthSquared()

	bestT := math.Inf(1)
	var bestU, bestV float64
	found := false

	for si := 0; si < bezierSeedGrid; si++ {
		for sj := 0; sj < bezierSeedGrid; sj++ {
			u := (float64(si) + 0.5) / bezierSeedGrid
			v := (float64(sj) + 0.5) / bezierSeedGrid

			u, v, ok := p.newton(u, v, n1, d1, n2, d2)
			if !ok {
				continue
			}

			// Project the converged surface point onto the ray.
			point := p.Eval(u, v)
			t := point.Subtract(ray.Origin).Dot(d) * invDirLen2
			if t < tMin || t > tMax || t >= bestT {
				continue
			}
			bestT, bestU, bestV = t, u, v
			found = true
		}
	}

	if !found {
		return nil, false
	}

	pu, pv := p.partials(bestU, bestV)
	normal := pu.Cross(pv)
	if normal.LengthSquared() == 0 {
		return nil, false // degenerate tangent plane at the root
	}

	hit := &core.HitRecord{
		T:        bestT,
		Point:    ray.At(bestT),
		Material: p.Material,
	}
	hit.SetFaceNormal(ray, normal.Normalize())
	return hit, true
}

// newton runs the bounded 2-D Newton iteration from one seed
func (p *BezierPatch) newton(u, v float64, n1 core.Vec3, d1 float64, n2 core.Vec3, d2 float64) (float64, float64, bool) {
	for i := 0; i < bezierMaxIter; i++ {
		point := p.Eval(u, v)
		f1 := n1.Dot(point) + d1
		f2 := n2.Dot(point) + d2
		if math.Abs(f1) < bezierEps && math.Abs(f2) < bezierEps {
			if u < -bezierDomainEps || u > 1+bezierDomainEps ||
				v < -bezierDomainEps || v > 1+bezierDomainEps {
				return 0, 0, false
			}
			return clamp01(u), clamp01(v), true
		}

		pu, pv := p.partials(u, v)
		j11 := n1.Dot(pu)
		j12 := n1.Dot(pv)
		j21 := n2.Dot(pu)
		j22 := n2.Dot(pv)
		det := j11*j22 - j12*j21
		if math.Abs(det) < 1e-15 {
			return 0, 0, false
		}

		u -= (f1*j22 - f2*j12) / det
		v -= (f2*j11 - f1*j21) / det

		// A step far outside the domain will not come back.
		if u < -0.5 || u > 1.5 || v < -0.5 || v > 1.5 {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// BoundingBox returns the control hull box
func (p *BezierPatch) BoundingBox() core.AABB {
	return p.bbox
}
