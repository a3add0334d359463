package lights

import (
	"fmt"
	"math"

	"github.com/rmazur/go-whitted/pkg/core"
)

// Light is a point-like light source queried during shading. DirectionFrom
// returns the unnormalized vector from a surface point toward the light (its
// length is the distance, which bounds the shadow ray). Intensity weights
// the contribution by the normalized to-light direction; point lights always
// return 1, spot lights apply their angular falloff.
type Light interface {
	DirectionFrom(point core.Vec3) core.Vec3
	Intensity(toLight core.Vec3) float64
	Diffuse() core.Vec3
	Specular() core.Vec3
}

// PointLight radiates uniformly from a position
type PointLight struct {
	Position  core.Vec3
	DiffuseC  core.Vec3
	SpecularC core.Vec3
}

// DirectionFrom returns the vector from the point toward the light
func (l *PointLight) DirectionFrom(point core.Vec3) core.Vec3 {
	return l.Position.Subtract(point)
}

// Intensity is constant for point lights
func (l *PointLight) Intensity(core.Vec3) float64 {
	return 1.0
}

// Diffuse returns the diffuse color
func (l *PointLight) Diffuse() core.Vec3 { return l.DiffuseC }

// Specular returns the specular color
func (l *PointLight) Specular() core.Vec3 { return l.SpecularC }

// SpotLight restricts light to a cone around Direction. The intensity falls
// off as cos(pi/2 * phi/angle)^sharpness where phi is the angle between the
// light axis and the direction toward the lit point; outside the cone it is
// zero.
type SpotLight struct {
	Position  core.Vec3
	Direction core.Vec3 // unit axis the cone opens around
	Angle     float64   // cone half-angle in radians
	Sharpness float64   // falloff exponent
	Color     core.Vec3
}

// NewSpotLight validates and normalizes a spot light. angleDegrees is the
// cone half-angle.
func NewSpotLight(position, direction, color core.Vec3, angleDegrees, sharpness float64) (*SpotLight, error) {
	if direction.LengthSquared() == 0 {
		return nil, fmt.Errorf("spot light: zero direction")
	}
	if angleDegrees <= 0 || angleDegrees > 180 {
		return nil, fmt.Errorf("spot light: cone angle %g degrees out of range", angleDegrees)
	}
	if sharpness < 0 {
		return nil, fmt.Errorf("spot light: negative sharpness %g", sharpness)
	}
	return &SpotLight{
		Position:  position,
		Direction: direction.Normalize(),
		Angle:     angleDegrees * math.Pi / 180.0,
		Sharpness: sharpness,
		Color:     color,
	}, nil
}

// DirectionFrom returns the vector from the point toward the light
func (l *SpotLight) DirectionFrom(point core.Vec3) core.Vec3 {
	return l.Position.Subtract(point)
}

// Intensity applies the angular falloff for the normalized to-light vector
func (l *SpotLight) Intensity(toLight core.Vec3) float64 {
	// Angle between the cone axis and the direction from the light to the
	// point (the negated to-light vector).
	cosPhi := toLight.Negate().Dot(l.Direction)
	phi := math.Acos(math.Min(1, math.Max(-1, cosPhi)))
	if phi > l.Angle {
		return 0
	}
	return math.Pow(math.Cos(math.Pi/2*phi/l.Angle), l.Sharpness)
}

// Diffuse returns the light color
func (l *SpotLight) Diffuse() core.Vec3 { return l.Color }

// Specular returns the light color
func (l *SpotLight) Specular() core.Vec3 { return l.Color }
