package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rmazur/go-whitted/pkg/core"
)

func TestNewSuperquadric_Validation(t *testing.T) {
	if _, err := NewSuperquadric(core.NewVec3(1, 0, 1), 1, 1, testMaterial); err == nil {
		t.Error("expected error for zero semi-axis")
	}
	if _, err := NewSuperquadric(core.NewVec3(1, 1, 1), 0, 1, testMaterial); err == nil {
		t.Error("expected error for zero exponent")
	}
	if _, err := NewSuperquadric(core.NewVec3(1, 1, 1), 1, -0.5, testMaterial); err == nil {
		t.Error("expected error for negative exponent")
	}
	if _, err := NewSuperquadric(core.NewVec3(1, 2, 3), 0.5, 0.5, testMaterial); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSuperquadric_UnitExponentsMatchSphere(t *testing.T) {
	// e1 = e2 = 1 with equal semi-axes degenerates to a sphere; the
	// root-finder must land on the analytic quadratic solution.
	sq, err := NewSuperquadric(core.NewVec3(1, 1, 1), 1, 1, testMaterial)
	if err != nil {
		t.Fatal(err)
	}
	sphere, err := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		// Random origins on a shell well outside, aimed near the center
		// so most rays hit.
		origin := core.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize().Multiply(5)
		target := core.NewVec3(rng.Float64()-0.5, rng.Float64()-0.5, rng.Float64()-0.5)
		ray := core.NewRay(origin, target.Subtract(origin).Normalize())

		want, wantHit := sphere.Hit(ray, 0.001, math.Inf(1))
		got, gotHit := sq.Hit(ray, 0.001, math.Inf(1))

		if gotHit != wantHit {
			t.Fatalf("ray %d: hit mismatch: superquadric=%v sphere=%v", i, gotHit, wantHit)
		}
		if !gotHit {
			continue
		}
		if math.Abs(got.T-want.T) > 1e-6 {
			t.Fatalf("ray %d: t mismatch: superquadric=%v sphere=%v", i, got.T, want.T)
		}
		if got.Normal.Subtract(want.Normal).Length() > 1e-4 {
			t.Fatalf("ray %d: normal mismatch: superquadric=%v sphere=%v", i, got.Normal, want.Normal)
		}
	}
}

func TestSuperquadric_BoxyShape(t *testing.T) {
	// Small exponents flatten the faces toward a box: an axis ray must hit
	// near the semi-axis, and a diagonal toward the rounded corner region
	// passes closer to the box corner than a sphere would allow.
	sq, err := NewSuperquadric(core.NewVec3(1, 1, 1), 0.2, 0.2, testMaterial)
	if err != nil {
		t.Fatal(err)
	}

	hit, ok := sq.Hit(core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected axis hit")
	}
	if math.Abs(hit.T-4) > 1e-6 {
		t.Errorf("axis hit t: got %v, want 4", hit.T)
	}

	// Surface point reached along the diagonal: on a unit sphere the
	// distance from origin is 1; a boxy superquadric extends further out.
	dir := core.NewVec3(-1, -1, -1).Normalize()
	hit, ok = sq.Hit(core.NewRay(core.NewVec3(5, 5, 5), dir), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected diagonal hit")
	}
	if r := hit.Point.Length(); r < 1.2 {
		t.Errorf("diagonal surface radius %v, expected boxy bulge beyond sphere", r)
	}
}

func TestSuperquadric_Miss(t *testing.T) {
	sq, _ := NewSuperquadric(core.NewVec3(1, 1, 1), 1, 1, testMaterial)

	tests := []struct {
		name string
		ray  core.Ray
	}{
		{"above the box", core.NewRay(core.NewVec3(-5, 3, 0), core.NewVec3(1, 0, 0))},
		{"through box corner only", core.NewRay(core.NewVec3(-5, 0.99, 0.99), core.NewVec3(1, 0, 0))},
		{"pointing away", core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(1, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := sq.Hit(tt.ray, 0.001, math.Inf(1)); ok {
				t.Error("expected miss")
			}
		})
	}
}

func TestSuperquadric_EllipsoidSemiAxes(t *testing.T) {
	sq, _ := NewSuperquadric(core.NewVec3(2, 1, 3), 1, 1, testMaterial)

	tests := []struct {
		name  string
		ray   core.Ray
		wantT float64
	}{
		{"x axis", core.NewRay(core.NewVec3(10, 0, 0), core.NewVec3(-1, 0, 0)), 8},
		{"y axis", core.NewRay(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0)), 9},
		{"z axis", core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sq.Hit(tt.ray, 0.001, math.Inf(1))
			if !ok {
				t.Fatal("expected hit")
			}
			if math.Abs(hit.T-tt.wantT) > 1e-6 {
				t.Errorf("t: got %v, want %v", hit.T, tt.wantT)
			}
		})
	}
}

func TestSuperquadric_BoundingBox(t *testing.T) {
	sq, _ := NewSuperquadric(core.NewVec3(2, 1, 3), 0.5, 0.5, testMaterial)
	box := sq.BoundingBox()
	if box.Min != core.NewVec3(-2, -1, -3) || box.Max != core.NewVec3(2, 1, 3) {
		t.Errorf("box: got %v", box)
	}
}
