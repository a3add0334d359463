package renderer

import (
	"testing"

	"github.com/rmazur/go-whitted/pkg/core"
	"github.com/rmazur/go-whitted/pkg/geometry"
	"github.com/rmazur/go-whitted/pkg/lights"
	"github.com/rmazur/go-whitted/pkg/scene"
)

// sphereScene is a white sphere in front of the camera over a dark
// background, lit from behind the eye. The silhouette guarantees
// high-contrast pixels for the refine pass.
func sphereScene(workers int) *scene.Scene {
	m := &core.Material{
		Name:    "chalk",
		Ambient: core.NewVec3(1, 1, 1),
		Diffuse: core.NewVec3(1, 1, 1),
		Ka:      0.3,
		Kd:      0.7,
	}
	sphere, _ := geometry.NewSphere(core.NewVec3(0, 0, -5), 1.5, m)

	return &scene.Scene{
		Shapes: []core.Shape{sphere},
		BVH:    core.NewBVH([]core.Shape{sphere}, core.DefaultLeafSize),
		Lights: []lights.Light{
			&lights.PointLight{
				Position: core.NewVec3(0, 2, 2),
				DiffuseC: core.NewVec3(1, 1, 1),
			},
		},
		Camera: scene.Camera{
			Eye:    core.NewVec3(0, 0, 0),
			Up:     core.NewVec3(0, 1, 0),
			LookAt: core.NewVec3(0, 0, -1),
			Dist:   1,
			FOV:    60,
		},
		Background: core.NewVec3(0.05, 0.05, 0.1),
		Ambient:    core.NewVec3(0.2, 0.2, 0.2),
		Settings: scene.Settings{
			Width: 32, Height: 32,
			MaxDepth:      3,
			Cutoff:        1e-3,
			Contrast:      0.05,
			MaxSubSamples: 3,
			LeafSize:      core.DefaultLeafSize,
			Workers:       workers,
		},
	}
}

func TestNew_Validation(t *testing.T) {
	s := sphereScene(1)
	s.Settings.Width = 0
	if _, err := New(s); err == nil {
		t.Error("expected error for zero width")
	}

	s = sphereScene(1)
	s.Settings.Workers = 0
	if _, err := New(s); err == nil {
		t.Error("expected error for zero workers")
	}

	s = sphereScene(1)
	s.Settings.MaxDepth = 0
	if _, err := New(s); err == nil {
		t.Error("expected error for zero depth")
	}

	s = sphereScene(1)
	s.Settings.Cutoff = -0.1
	if _, err := New(s); err == nil {
		t.Error("expected error for negative cutoff")
	}

	s = sphereScene(1)
	s.Settings.Contrast = -0.05
	if _, err := New(s); err == nil {
		t.Error("expected error for negative contrast")
	}

	// More sub-samples than strata exist must fail here, not mid-render
	s = sphereScene(1)
	s.Settings.MaxSubSamples = 4
	if _, err := New(s); err == nil {
		t.Error("expected error for excessive sub-samples")
	}

	if _, err := New(sphereScene(2)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRender_SphereVisible(t *testing.T) {
	fb, stats, err := Render(sphereScene(2))
	if err != nil {
		t.Fatal(err)
	}

	center := fb.At(16, 16)
	corner := fb.At(0, 0)

	// The sphere fills the image center and is brighter than the sky
	if center.Luminance() <= corner.Luminance() {
		t.Errorf("center %v not brighter than corner %v", center, corner)
	}
	// Corners miss the sphere and keep the background color
	if corner != (core.NewVec3(0.05, 0.05, 0.1)) {
		t.Errorf("corner: got %v, want background", corner)
	}

	if stats.TotalPixels != 32*32 {
		t.Errorf("TotalPixels: got %d, want %d", stats.TotalPixels, 32*32)
	}
	if stats.PrimaryRays != 32*32 {
		t.Errorf("PrimaryRays: got %d, want %d", stats.PrimaryRays, 32*32)
	}
	if stats.Workers != 2 {
		t.Errorf("Workers: got %d, want 2", stats.Workers)
	}
}

func TestRender_SilhouetteTriggersRefinement(t *testing.T) {
	_, stats, err := Render(sphereScene(1))
	if err != nil {
		t.Fatal(err)
	}

	if stats.RefinedPixels == 0 {
		t.Error("expected refined pixels along the sphere silhouette")
	}
	// Refinement is bounded by the sub-sample cap
	if stats.SubSamples > stats.RefinedPixels*3 {
		t.Errorf("SubSamples %d exceeds cap for %d refined pixels", stats.SubSamples, stats.RefinedPixels)
	}
	if got := stats.SamplesPerPixel(); got < 1 || got > 4 {
		t.Errorf("SamplesPerPixel: got %v, want within [1, 4]", got)
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	reference, _, err := Render(sphereScene(1))
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{2, 4, 8} {
		fb, _, err := Render(sphereScene(workers))
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range fb.Pixels {
			if p != reference.Pixels[i] {
				t.Fatalf("pixel %d differs with %d workers: %v vs %v", i, workers, p, reference.Pixels[i])
			}
		}
	}
}

func TestRender_UniformSceneSkipsRefinement(t *testing.T) {
	// Nothing to hit: every pixel is background and no contrast exists
	s := sphereScene(2)
	s.Shapes = nil
	s.BVH = core.NewBVH(nil, core.DefaultLeafSize)

	fb, stats, err := Render(s)
	if err != nil {
		t.Fatal(err)
	}

	if stats.RefinedPixels != 0 || stats.SubSamples != 0 {
		t.Errorf("uniform scene refined %d pixels with %d sub-samples", stats.RefinedPixels, stats.SubSamples)
	}
	for i, p := range fb.Pixels {
		if p != (core.NewVec3(0.05, 0.05, 0.1)) {
			t.Fatalf("pixel %d: got %v, want background", i, p)
		}
	}
}
