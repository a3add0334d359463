package lights

import (
	"math"
	"testing"

	"github.com/rmazur/go-whitted/pkg/core"
)

func TestPointLight(t *testing.T) {
	light := &PointLight{
		Position:  core.NewVec3(0, 10, 0),
		DiffuseC:  core.NewVec3(1, 1, 1),
		SpecularC: core.NewVec3(0.5, 0.5, 0.5),
	}

	toLight := light.DirectionFrom(core.NewVec3(0, 4, 0))
	if toLight != core.NewVec3(0, 6, 0) {
		t.Errorf("DirectionFrom: got %v", toLight)
	}
	// The vector length is the distance to the light
	if toLight.Length() != 6 {
		t.Errorf("distance: got %v, want 6", toLight.Length())
	}
	if light.Intensity(toLight.Normalize()) != 1 {
		t.Error("point light intensity must be 1")
	}
	if light.Diffuse() != core.NewVec3(1, 1, 1) || light.Specular() != core.NewVec3(0.5, 0.5, 0.5) {
		t.Error("colors not passed through")
	}
}

func TestNewSpotLight_Validation(t *testing.T) {
	pos := core.NewVec3(0, 10, 0)
	down := core.NewVec3(0, -1, 0)
	white := core.NewVec3(1, 1, 1)

	tests := []struct {
		name      string
		direction core.Vec3
		angle     float64
		sharpness float64
		wantErr   bool
	}{
		{"valid", down, 30, 2, false},
		{"zero direction", core.NewVec3(0, 0, 0), 30, 2, true},
		{"zero angle", down, 0, 2, true},
		{"angle too wide", down, 181, 2, true},
		{"negative sharpness", down, 30, -1, true},
		{"full hemisphere", down, 180, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpotLight(pos, tt.direction, white, tt.angle, tt.sharpness)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpotLight_Falloff(t *testing.T) {
	// Cone pointing straight down with a 45-degree half-angle
	light, err := NewSpotLight(
		core.NewVec3(0, 10, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 1, 1),
		45, 2,
	)
	if err != nil {
		t.Fatal(err)
	}

	intensityAt := func(point core.Vec3) float64 {
		return light.Intensity(light.DirectionFrom(point).Normalize())
	}

	// On the axis the falloff cosine is 1
	if got := intensityAt(core.NewVec3(0, 0, 0)); math.Abs(got-1) > 1e-12 {
		t.Errorf("axis intensity: got %v, want 1", got)
	}

	// At the cone edge (phi = angle) the cosine argument reaches pi/2
	edge := intensityAt(core.NewVec3(10, 0, 0))
	if edge > 1e-12 {
		t.Errorf("edge intensity: got %v, want 0", edge)
	}

	// Outside the cone
	if got := intensityAt(core.NewVec3(30, 0, 0)); got != 0 {
		t.Errorf("outside intensity: got %v, want 0", got)
	}

	// Halfway out: phi = angle/2, cos(pi/4)^2 = 0.5
	halfway := intensityAt(core.NewVec3(10*math.Tan(math.Pi/8), 0, 0))
	if math.Abs(halfway-0.5) > 1e-9 {
		t.Errorf("halfway intensity: got %v, want 0.5", halfway)
	}

	// Monotone decrease away from the axis
	prev := 1.0
	for _, x := range []float64{1, 2, 4, 6, 8, 9.5} {
		cur := intensityAt(core.NewVec3(x, 0, 0))
		if cur > prev {
			t.Fatalf("intensity increased away from axis at x=%v: %v > %v", x, cur, prev)
		}
		prev = cur
	}
}

func TestSpotLight_SharpnessZeroIsHardCone(t *testing.T) {
	light, err := NewSpotLight(
		core.NewVec3(0, 10, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 1, 1),
		45, 0,
	)
	if err != nil {
		t.Fatal(err)
	}

	// Anything inside the cone gets full intensity, outside gets none
	inside := light.Intensity(light.DirectionFrom(core.NewVec3(5, 0, 0)).Normalize())
	if math.Abs(inside-1) > 1e-12 {
		t.Errorf("inside hard cone: got %v, want 1", inside)
	}
	outside := light.Intensity(light.DirectionFrom(core.NewVec3(30, 0, 0)).Normalize())
	if outside != 0 {
		t.Errorf("outside hard cone: got %v, want 0", outside)
	}
}
