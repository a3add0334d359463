package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rmazur/go-whitted/pkg/core"
)

// vec3 is the YAML form of a vector: a three-element sequence
type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// TransformConfig is the translate/rotate/scale triple attached to objects.
// Omitted fields default to the identity transform.
type TransformConfig struct {
	Translate vec3 `yaml:"translate"`
	Rotate    vec3 `yaml:"rotate"`
	Scale     vec3 `yaml:"scale"`
}

// isZero reports whether the transform was omitted entirely
func (t *TransformConfig) isZero() bool {
	return *t == TransformConfig{}
}

func (t *TransformConfig) toTransform() core.Transform {
	tr := core.Transform{
		Translate: t.Translate.toVec3(),
		Rotate:    t.Rotate.toVec3(),
		Scale:     t.Scale.toVec3(),
	}
	if tr.Scale == (core.Vec3{}) {
		tr.Scale = core.NewVec3(1, 1, 1)
	}
	return tr
}

// CameraConfig positions the camera and view plane
type CameraConfig struct {
	Eye    vec3    `yaml:"eye"`
	Up     vec3    `yaml:"up"`
	LookAt vec3    `yaml:"look_at"`
	Dist   float64 `yaml:"dist"`
	FOV    float64 `yaml:"fov"`
}

// SphereConfig describes a sphere object
type SphereConfig struct {
	Center   vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

// PlaneConfig describes an infinite plane
type PlaneConfig struct {
	Point    vec3   `yaml:"point"`
	Normal   vec3   `yaml:"normal"`
	Material string `yaml:"material"`
}

// ModelConfig describes a triangle mesh loaded from an SMF file. Several
// models may name the same mesh file; the geometry is loaded once and
// shared through instances.
type ModelConfig struct {
	Mesh      string          `yaml:"mesh"`
	Material  string          `yaml:"material"`
	Smooth    bool            `yaml:"smooth"`
	Transform TransformConfig `yaml:"transform"`
}

// SuperquadricConfig describes a superquadric implicit surface
type SuperquadricConfig struct {
	A         vec3            `yaml:"a"`
	E1        float64         `yaml:"e1"`
	E2        float64         `yaml:"e2"`
	Material  string          `yaml:"material"`
	Transform TransformConfig `yaml:"transform"`
}

// BPatchConfig describes a set of bicubic Bezier patches from a BPT file
type BPatchConfig struct {
	Fpath     string          `yaml:"fpath"`
	Material  string          `yaml:"material"`
	Transform TransformConfig `yaml:"transform"`
}

// ObjectConfig holds exactly one of the object variants
type ObjectConfig struct {
	Sphere       *SphereConfig       `yaml:"sphere,omitempty"`
	Plane        *PlaneConfig        `yaml:"plane,omitempty"`
	Model        *ModelConfig        `yaml:"model,omitempty"`
	Superquadric *SuperquadricConfig `yaml:"superquadric,omitempty"`
	BPatch       *BPatchConfig       `yaml:"bpatch,omitempty"`
}

// PointLightConfig describes a point light
type PointLightConfig struct {
	Position vec3 `yaml:"position"`
	Diffuse  vec3 `yaml:"diffuse"`
	Specular vec3 `yaml:"specular"`
}

// SpotLightConfig describes a spot light; angle is the cone half-angle in
// degrees.
type SpotLightConfig struct {
	Position  vec3    `yaml:"position"`
	Direction vec3    `yaml:"direction"`
	Color     vec3    `yaml:"color"`
	Angle     float64 `yaml:"angle"`
	Sharpness float64 `yaml:"sharpness"`
}

// LightConfig holds exactly one of the light variants
type LightConfig struct {
	Point *PointLightConfig `yaml:"point,omitempty"`
	Spot  *SpotLightConfig  `yaml:"spot,omitempty"`
}

// MaterialConfig mirrors the materials file entries
type MaterialConfig struct {
	Name         string  `yaml:"name"`
	Ambient      vec3    `yaml:"ambient"`
	Diffuse      vec3    `yaml:"diffuse"`
	Specular     vec3    `yaml:"specular"`
	Transmissive vec3    `yaml:"transmissive"`
	Ka           float64 `yaml:"ka"`
	Kd           float64 `yaml:"kd"`
	Ks           float64 `yaml:"ks"`
	Kr           float64 `yaml:"kr"`
	Kt           float64 `yaml:"kt"`
	IOR          float64 `yaml:"ior"`
	Shininess    float64 `yaml:"shininess"`
}

// Config is the root of a scene file
type Config struct {
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
	BGColor vec3 `yaml:"bgcolor"`
	Ambient vec3 `yaml:"ambient"`

	MeshDir string `yaml:"mesh_dir"`

	MaxDepth      int     `yaml:"max_depth"`
	Cutoff        float64 `yaml:"cutoff"`
	Contrast      float64 `yaml:"contrast"`
	MaxSubSamples int     `yaml:"max_subsamples"`
	LeafSize      int     `yaml:"leaf_size"`
	Workers       int     `yaml:"workers"`

	Camera  CameraConfig   `yaml:"camera"`
	Objects []ObjectConfig `yaml:"objects"`
	Lights  []LightConfig  `yaml:"lights"`
}

// ParseConfig decodes a scene file
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}
	return &cfg, nil
}

// ParseMaterials decodes a materials file (a sequence of materials)
func ParseMaterials(data []byte) ([]MaterialConfig, error) {
	var materials []MaterialConfig
	if err := yaml.Unmarshal(data, &materials); err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}
	return materials, nil
}

// Load reads a scene file plus its sibling materials.yaml and builds the
// immutable scene aggregate.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	matPath := filepath.Join(filepath.Dir(path), "materials.yaml")
	matData, err := os.ReadFile(matPath)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	materials, err := ParseMaterials(matData)
	if err != nil {
		return nil, err
	}

	return Build(cfg, materials, filepath.Dir(path))
}
