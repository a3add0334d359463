package geometry

import (
	"math"
	"testing"

	"github.com/rmazur/go-whitted/pkg/core"
)

// quadMesh builds two triangles covering the unit square in the xy plane
func quadMesh(t *testing.T, smooth bool) *TriangleMesh {
	t.Helper()
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	faces := [][3]int{{0, 1, 2}, {0, 2, 3}}
	mesh, err := NewTriangleMesh(vertices, nil, faces, smooth, testMaterial)
	if err != nil {
		t.Fatal(err)
	}
	return mesh
}

func TestNewTriangleMesh_Validation(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
	}

	tests := []struct {
		name     string
		vertices []core.Vec3
		normals  []core.Vec3
		faces    [][3]int
		wantErr  bool
	}{
		{"valid", vertices, nil, [][3]int{{0, 1, 2}}, false},
		{"too few vertices", vertices[:2], nil, [][3]int{{0, 1, 1}}, true},
		{"no faces", vertices, nil, nil, true},
		{"index out of range", vertices, nil, [][3]int{{0, 1, 3}}, true},
		{"negative index", vertices, nil, [][3]int{{0, -1, 2}}, true},
		{"normal count mismatch", vertices, []core.Vec3{{X: 0, Y: 0, Z: 1}}, [][3]int{{0, 1, 2}}, true},
		{"degenerate face", vertices, nil, [][3]int{{0, 0, 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangleMesh(tt.vertices, tt.normals, tt.faces, false, testMaterial)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTriangleMesh_Hit(t *testing.T) {
	mesh := quadMesh(t, false)

	tests := []struct {
		name    string
		ray     core.Ray
		wantHit bool
		wantT   float64
	}{
		{"center of quad", core.NewRay(core.NewVec3(0.5, 0.5, 5), core.NewVec3(0, 0, -1)), true, 5},
		{"first triangle", core.NewRay(core.NewVec3(0.7, 0.2, 5), core.NewVec3(0, 0, -1)), true, 5},
		{"second triangle", core.NewRay(core.NewVec3(0.2, 0.7, 5), core.NewVec3(0, 0, -1)), true, 5},
		{"outside quad", core.NewRay(core.NewVec3(2, 2, 5), core.NewVec3(0, 0, -1)), false, 0},
		{"parallel to quad", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(1, 0, 0)), false, 0},
		{"from behind", core.NewRay(core.NewVec3(0.5, 0.5, -5), core.NewVec3(0, 0, 1)), true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := mesh.Hit(tt.ray, 0.001, math.Inf(1))
			if isHit != tt.wantHit {
				t.Fatalf("Hit: got %v, want %v", isHit, tt.wantHit)
			}
			if !isHit {
				return
			}
			if math.Abs(hit.T-tt.wantT) > 1e-9 {
				t.Errorf("T: got %v, want %v", hit.T, tt.wantT)
			}
		})
	}
}

func TestTriangleMesh_FlatNormals(t *testing.T) {
	mesh := quadMesh(t, false)
	hit, isHit := mesh.Hit(core.NewRay(core.NewVec3(0.5, 0.25, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("expected hit")
	}
	want := core.NewVec3(0, 0, 1)
	if hit.Normal.Subtract(want).Length() > 1e-9 {
		t.Errorf("normal: got %v, want %v", hit.Normal, want)
	}
}

func TestTriangleMesh_SmoothNormalsInterpolate(t *testing.T) {
	// A shallow tent: two triangles sharing a raised ridge vertex. Smooth
	// shading must blend the face normals near the ridge.
	vertices := []core.Vec3{
		core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 0, 0.5),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0.5),
	}
	faces := [][3]int{{0, 1, 3}, {1, 2, 3}}

	smooth, err := NewTriangleMesh(vertices, nil, faces, true, testMaterial)
	if err != nil {
		t.Fatal(err)
	}
	flat, err := NewTriangleMesh(vertices, nil, faces, false, testMaterial)
	if err != nil {
		t.Fatal(err)
	}

	ray := core.NewRay(core.NewVec3(-0.3, 0.4, 5), core.NewVec3(0, 0, -1))

	smoothHit, ok := smooth.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected smooth hit")
	}
	flatHit, ok := flat.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected flat hit")
	}

	if math.Abs(smoothHit.Normal.Length()-1) > 1e-9 {
		t.Errorf("smooth normal not unit length: %v", smoothHit.Normal.Length())
	}
	if smoothHit.Normal.Subtract(flatHit.Normal).Length() < 1e-6 {
		t.Error("smooth normal identical to flat normal on slanted tent")
	}
}

func TestTriangleMesh_ExplicitNormals(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
	}
	// All vertex normals lean the same way; smooth shading must return it
	lean := core.NewVec3(0.2, 0, 1).Normalize()
	normals := []core.Vec3{lean, lean, lean}

	mesh, err := NewTriangleMesh(vertices, normals, [][3]int{{0, 1, 2}}, true, testMaterial)
	if err != nil {
		t.Fatal(err)
	}

	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0.25, 0.25, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Normal.Subtract(lean).Length() > 1e-9 {
		t.Errorf("normal: got %v, want %v", hit.Normal, lean)
	}
}

func TestTriangleMesh_ClosestFaceWins(t *testing.T) {
	// Two parallel triangles along z; the nearer one must be reported
	vertices := []core.Vec3{
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(-1, -1, 2), core.NewVec3(1, -1, 2), core.NewVec3(0, 1, 2),
	}
	faces := [][3]int{{0, 1, 2}, {3, 4, 5}}
	mesh, err := NewTriangleMesh(vertices, nil, faces, false, testMaterial)
	if err != nil {
		t.Fatal(err)
	}

	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(hit.T-3) > 1e-9 {
		t.Errorf("T: got %v, want 3 (nearer triangle)", hit.T)
	}
}

func TestTriangleMesh_BoundingBox(t *testing.T) {
	mesh := quadMesh(t, false)
	box := mesh.BoundingBox()
	if box.Min != core.NewVec3(0, 0, 0) || box.Max != core.NewVec3(1, 1, 0) {
		t.Errorf("box: got %v", box)
	}
}
