package geometry

import (
	"fmt"
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
)

const (
	sqMarchSteps  = 64
	sqMaxIter     = 32
	sqValueEps    = 1e-10
	sqBracketEps  = 1e-12
	sqGradientEps = 1e-7
)

// Superquadric is the implicit surface
//
//	((|x/ax|^(2/e2) + |z/az|^(2/e2))^(e2/e1) + |y/ay|^(2/e1) = 1
//
// centered at the origin with semi-axes A. E1 shapes the vertical (y)
// profile, E2 the horizontal cross-section; e1 = e2 = 1 is an ellipsoid.
// Position and orientation come from wrapping it in an Instance.
type Superquadric struct {
	A        core.Vec3 // semi-axis extents, all positive
	E1, E2   float64   // shape exponents, both positive
	Material *core.Material
}

// NewSuperquadric validates the semi-axes and exponents
func NewSuperquadric(a core.Vec3, e1, e2 float64, material *core.Material) (*Superquadric, error) {
	if a.X <= 0 || a.Y <= 0 || a.Z <= 0 {
		return nil, fmt.Errorf("superquadric: non-positive semi-axis %v", a)
	}
	if e1 <= 0 || e2 <= 0 {
		return nil, fmt.Errorf("superquadric: non-positive exponent e1=%g e2=%g", e1, e2)
	}
	return &Superquadric{A: a, E1: e1, E2: e2, Material: material}, nil
}

// value evaluates the inside-outside function; negative inside, positive
// outside, zero on the surface.
func (s *Superquadric) value(p core.Vec3) float64 {
	hx := math.Pow(math.Abs(p.X/s.A.X), 2.0/s.E2)
	hz := math.Pow(math.Abs(p.Z/s.A.Z), 2.0/s.E2)
	vy := math.Pow(math.Abs(p.Y/s.A.Y), 2.0/s.E1)
	return math.Pow(hx+hz, s.E2/s.E1) + vy - 1.0
}

// gradient returns the (unnormalized) surface gradient by central
// differences. The implicit exponents make the analytic gradient blow up on
// the coordinate planes for e < 1, so a numeric gradient is used uniformly.
func (s *Superquadric) gradient(p core.Vec3) core.Vec3 {
	h := sqGradientEps
	return core.Vec3{
		X: s.value(core.NewVec3(p.X+h, p.Y, p.Z)) - s.value(core.NewVec3(p.X-h, p.Y, p.Z)),
		Y: s.value(core.NewVec3(p.X, p.Y+h, p.Z)) - s.value(core.NewVec3(p.X, p.Y-h, p.Z)),
		Z: s.value(core.NewVec3(p.X, p.Y, p.Z+h)) - s.value(core.NewVec3(p.X, p.Y, p.Z-h)),
	}
}

// Hit intersects by root-finding along the ray parameter: the ray is clipped
// to the bounding box, marched in fixed steps until the inside-outside
// function changes sign, then the bracketed root is refined by Newton steps
// safeguarded with bisection. Non-convergence within the iteration budget is
// reported as a miss.
func (s *Superquadric) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	t0, t1, ok := clipToBox(s.BoundingBox(), ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	g := func(t float64) float64 { return s.value(ray.At(t)) }

	// Bracket the first sign change.
	step := (t1 - t0) / sqMarchSteps
	if step <= 0 {
		return nil, false
	}
	ta, ga := t0, g(t0)
	var tb, gb float64
	found := false
	for i := 1; i <= sqMarchSteps; i++ {
		tb = t0 + float64(i)*step
		gb = g(tb)
		if ga == 0 || ga*gb < 0 {
			found = true
			break
		}
		ta, ga = tb, gb
	}
	if !found {
		return nil, false
	}

	root, ok := refineRoot(g, ta, ga, tb, gb)
	if !ok {
		return nil, false
	}

	point := ray.At(root)
	hit := &core.HitRecord{
		T:        root,
		Point:    point,
		Material: s.Material,
	}
	hit.SetFaceNormal(ray, s.gradient(point).Normalize())
	return hit, true
}

// BoundingBox returns the tight box spanned by the semi-axes
func (s *Superquadric) BoundingBox() core.AABB {
	return core.NewAABB(s.A.Negate(), s.A)
}

// clipToBox intersects the ray's [tMin, tMax] range with a box, returning
// the entry and exit parameters.
func clipToBox(box core.AABB, ray core.Ray, tMin, tMax float64) (float64, float64, bool) {
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)
		lo := box.Min.Axis(axis)
		hi := box.Max.Axis(axis)

		if math.Abs(direction) < 1e-12 {
			if origin < lo || origin > hi {
				return 0, 0, false
			}
			continue
		}

		inv := 1.0 / direction
		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// refineRoot polishes a bracketed root of g with Newton iteration, falling
// back to bisection whenever the Newton step leaves the bracket. The
// derivative is taken numerically over the current bracket.
func refineRoot(g func(float64) float64, ta, ga, tb, gb float64) (float64, bool) {
	if ga == 0 {
		return ta, true
	}

	t := 0.5 * (ta + tb)
	for i := 0; i < sqMaxIter; i++ {
		gt := g(t)
		if math.Abs(gt) < sqValueEps {
			return t, true
		}

		// Keep the bracket tight around the sign change.
		if ga*gt < 0 {
			tb, gb = t, gt
		} else {
			ta, ga = t, gt
		}
		if tb-ta < sqBracketEps {
			return t, true
		}

		// Newton step from a secant-style derivative estimate.
		deriv := (gb - ga) / (tb - ta)
		next := t
		if deriv != 0 {
			next = t - gt/deriv
		}
		if next <= ta || next >= tb {
			next = 0.5 * (ta + tb) // bisect when Newton escapes the bracket
		}
		t = next
	}
	return 0, false
}
