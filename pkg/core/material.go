package core

import "fmt"

// Material holds Phong shading coefficients plus reflection and transmission
// terms. Materials are immutable after scene build; shapes reference them,
// they are never copied per hit.
type Material struct {
	Name string

	Ambient      Vec3 // ambient reflectance color
	Diffuse      Vec3 // diffuse reflectance color
	Specular     Vec3 // specular reflectance color
	Transmissive Vec3 // transmission filter color

	Ka        float64 // ambient coefficient
	Kd        float64 // diffuse coefficient
	Ks        float64 // specular coefficient
	Kr        float64 // reflectivity coefficient
	Kt        float64 // transmission coefficient
	IOR       float64 // refractive index, required when Kt > 0
	Shininess float64 // specular exponent
}

// Validate rejects materials that cannot shade sensibly. Called once at
// scene build; the tracer assumes a validated material.
func (m *Material) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"ka", m.Ka}, {"kd", m.Kd}, {"ks", m.Ks}, {"kr", m.Kr}, {"kt", m.Kt},
	} {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("material %q: %s = %g outside [0, 1]", m.Name, c.name, c.value)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("material %q: negative shininess %g", m.Name, m.Shininess)
	}
	if m.Kt > 0 && m.IOR <= 0 {
		return fmt.Errorf("material %q: transmissive but ior = %g", m.Name, m.IOR)
	}
	return nil
}

// IsReflective reports whether the tracer should spawn a reflection ray
func (m *Material) IsReflective() bool {
	return m.Kr > 0
}

// IsTransmissive reports whether the tracer should spawn a refraction ray
func (m *Material) IsTransmissive() bool {
	return m.Kt > 0
}
