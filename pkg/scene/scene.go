package scene

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/rmazur/go-whitted/log"
	"github.com/rmazur/go-whitted/pkg/core"
	"github.com/rmazur/go-whitted/pkg/geometry"
	"github.com/rmazur/go-whitted/pkg/lights"
)

var logger = log.New("scene")

// Settings is the configuration surface the render core consumes. All
// values are validated at build time; the renderer never runs with an
// invalid configuration.
type Settings struct {
	Width, Height int

	MaxDepth      int     // reflection/refraction recursion bound
	Cutoff        float64 // contribution weight below which recursion stops
	Contrast      float64 // adaptive sampling contrast threshold
	MaxSubSamples int     // extra sub-samples per pixel, 0..3
	LeafSize      int     // BVH leaf threshold
	Workers       int     // render worker count
}

// Camera positions the eye and view plane
type Camera struct {
	Eye    core.Vec3
	Up     core.Vec3
	LookAt core.Vec3
	Dist   float64
	FOV    float64 // horizontal field of view in degrees
}

// Scene is the finalized, immutable aggregate the renderer traces against.
// It is built once, before any worker starts, and never mutated afterwards;
// that is what makes lock-free concurrent reads safe.
type Scene struct {
	Shapes    []core.Shape // every shape, used by brute-force checks
	BVH       *core.BVH    // index over the bounded shapes
	Unbounded []core.Shape // planes and other unbounded shapes, scanned linearly
	Lights    []lights.Light
	Camera    Camera

	Background core.Vec3
	Ambient    core.Vec3

	Settings Settings
}

// Hit returns the closest intersection across the BVH and the unbounded
// shapes, or false.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	closest, _ := s.BVH.Hit(ray, tMin, tMax)
	closestSoFar := tMax
	if closest != nil {
		closestSoFar = closest.T
	}

	for _, shape := range s.Unbounded {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closest = hit
		}
	}
	return closest, closest != nil
}

// Occluded reports whether anything blocks the ray within [tMin, tMax].
// This is the shadow query; it never looks for the closest hit.
func (s *Scene) Occluded(ray core.Ray, tMin, tMax float64) bool {
	if s.BVH.AnyHit(ray, tMin, tMax) {
		return true
	}
	for _, shape := range s.Unbounded {
		if _, ok := shape.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	return false
}

// Build assembles and validates the immutable scene from parsed
// configuration. Geometry files are resolved against baseDir joined with
// the config's mesh_dir. Every validation failure aborts the build; no
// partially-valid scene is ever returned.
func Build(cfg *Config, materialCfgs []MaterialConfig, baseDir string) (*Scene, error) {
	settings, err := buildSettings(cfg)
	if err != nil {
		return nil, err
	}

	camera, err := buildCamera(&cfg.Camera)
	if err != nil {
		return nil, err
	}

	materials, err := buildMaterials(materialCfgs)
	if err != nil {
		return nil, err
	}

	scn := &Scene{
		Camera:     camera,
		Background: cfg.BGColor.toVec3(),
		Ambient:    cfg.Ambient.toVec3(),
		Settings:   settings,
	}

	meshDir := filepath.Join(baseDir, cfg.MeshDir)
	meshes := make(map[string]*geometry.TriangleMesh) // shared across instances
	patchSets := make(map[string][]*geometry.BezierPatch)

	for i, obj := range cfg.Objects {
		shapes, err := buildObject(&obj, materials, meshDir, meshes, patchSets)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		scn.Shapes = append(scn.Shapes, shapes...)
	}

	for i, lc := range cfg.Lights {
		light, err := buildLight(&lc)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		scn.Lights = append(scn.Lights, light)
	}

	// Unbounded shapes cannot live in the BVH; they are scanned linearly.
	var bounded []core.Shape
	for _, shape := range scn.Shapes {
		if _, ok := shape.(interface{ Unbounded() }); ok {
			scn.Unbounded = append(scn.Unbounded, shape)
		} else {
			bounded = append(bounded, shape)
		}
	}
	scn.BVH = core.NewBVH(bounded, settings.LeafSize)

	logger.Infof("built scene: %d shapes (%d unbounded), %d lights",
		len(scn.Shapes), len(scn.Unbounded), len(scn.Lights))
	return scn, nil
}

func buildSettings(cfg *Config) (Settings, error) {
	s := Settings{
		Width:         cfg.Width,
		Height:        cfg.Height,
		MaxDepth:      cfg.MaxDepth,
		Cutoff:        cfg.Cutoff,
		Contrast:      cfg.Contrast,
		MaxSubSamples: cfg.MaxSubSamples,
		LeafSize:      cfg.LeafSize,
		Workers:       cfg.Workers,
	}

	// Zero-valued fields take defaults; explicit bad values fail below.
	if s.MaxDepth == 0 {
		s.MaxDepth = 5
	}
	if s.Cutoff == 0 {
		s.Cutoff = 1e-3
	}
	if s.Contrast == 0 {
		s.Contrast = 0.05
	}
	if s.MaxSubSamples == 0 {
		s.MaxSubSamples = 3
	}
	if s.LeafSize == 0 {
		s.LeafSize = core.DefaultLeafSize
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}

	if s.Width <= 0 || s.Height <= 0 {
		return s, fmt.Errorf("settings: non-positive image dimensions %dx%d", s.Width, s.Height)
	}
	if s.MaxDepth < 1 {
		return s, fmt.Errorf("settings: max_depth %d < 1", s.MaxDepth)
	}
	if s.Cutoff < 0 {
		return s, fmt.Errorf("settings: negative cutoff %g", s.Cutoff)
	}
	if s.Contrast < 0 {
		return s, fmt.Errorf("settings: negative contrast %g", s.Contrast)
	}
	if s.MaxSubSamples < 0 || s.MaxSubSamples > 3 {
		return s, fmt.Errorf("settings: max_subsamples %d outside [0, 3]", s.MaxSubSamples)
	}
	if s.LeafSize < 1 {
		return s, fmt.Errorf("settings: leaf_size %d < 1", s.LeafSize)
	}
	if s.Workers < 1 {
		return s, fmt.Errorf("settings: workers %d < 1", s.Workers)
	}
	return s, nil
}

func buildCamera(cfg *CameraConfig) (Camera, error) {
	c := Camera{
		Eye:    cfg.Eye.toVec3(),
		Up:     cfg.Up.toVec3(),
		LookAt: cfg.LookAt.toVec3(),
		Dist:   cfg.Dist,
		FOV:    cfg.FOV,
	}
	if c.Dist <= 0 {
		return c, fmt.Errorf("camera: non-positive view distance %g", c.Dist)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return c, fmt.Errorf("camera: field of view %g degrees out of range", c.FOV)
	}
	if c.Up.LengthSquared() == 0 {
		return c, fmt.Errorf("camera: zero up vector")
	}
	if c.Eye.Subtract(c.LookAt).LengthSquared() == 0 {
		return c, fmt.Errorf("camera: eye coincides with look_at")
	}
	return c, nil
}

func buildMaterials(cfgs []MaterialConfig) (map[string]*core.Material, error) {
	materials := make(map[string]*core.Material, len(cfgs))
	for _, mc := range cfgs {
		if mc.Name == "" {
			return nil, fmt.Errorf("material with empty name")
		}
		if _, exists := materials[mc.Name]; exists {
			return nil, fmt.Errorf("duplicate material %q", mc.Name)
		}
		m := &core.Material{
			Name:         mc.Name,
			Ambient:      mc.Ambient.toVec3(),
			Diffuse:      mc.Diffuse.toVec3(),
			Specular:     mc.Specular.toVec3(),
			Transmissive: mc.Transmissive.toVec3(),
			Ka:           mc.Ka,
			Kd:           mc.Kd,
			Ks:           mc.Ks,
			Kr:           mc.Kr,
			Kt:           mc.Kt,
			IOR:          mc.IOR,
			Shininess:    mc.Shininess,
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		materials[mc.Name] = m
	}
	return materials, nil
}

func lookupMaterial(materials map[string]*core.Material, name string) (*core.Material, error) {
	m, ok := materials[name]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", name)
	}
	return m, nil
}

// buildObject turns one object config into one or more shapes. Meshes and
// patch sets are cached by path so repeated references share geometry.
func buildObject(obj *ObjectConfig, materials map[string]*core.Material, meshDir string,
	meshes map[string]*geometry.TriangleMesh, patchSets map[string][]*geometry.BezierPatch) ([]core.Shape, error) {

	switch {
	case obj.Sphere != nil:
		material, err := lookupMaterial(materials, obj.Sphere.Material)
		if err != nil {
			return nil, err
		}
		sphere, err := geometry.NewSphere(obj.Sphere.Center.toVec3(), obj.Sphere.Radius, material)
		if err != nil {
			return nil, err
		}
		return []core.Shape{sphere}, nil

	case obj.Plane != nil:
		material, err := lookupMaterial(materials, obj.Plane.Material)
		if err != nil {
			return nil, err
		}
		plane, err := geometry.NewPlane(obj.Plane.Point.toVec3(), obj.Plane.Normal.toVec3(), material)
		if err != nil {
			return nil, err
		}
		return []core.Shape{plane}, nil

	case obj.Model != nil:
		material, err := lookupMaterial(materials, obj.Model.Material)
		if err != nil {
			return nil, err
		}
		key := obj.Model.Mesh + "|" + obj.Model.Material + fmt.Sprintf("|%t", obj.Model.Smooth)
		mesh, ok := meshes[key]
		if !ok {
			data, err := LoadSMF(filepath.Join(meshDir, obj.Model.Mesh))
			if err != nil {
				return nil, err
			}
			mesh, err = geometry.NewTriangleMesh(data.Vertices, data.Normals, data.Faces, obj.Model.Smooth, material)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", obj.Model.Mesh, err)
			}
			meshes[key] = mesh
		}
		return wrapInstance(mesh, &obj.Model.Transform)

	case obj.Superquadric != nil:
		material, err := lookupMaterial(materials, obj.Superquadric.Material)
		if err != nil {
			return nil, err
		}
		sq, err := geometry.NewSuperquadric(obj.Superquadric.A.toVec3(), obj.Superquadric.E1, obj.Superquadric.E2, material)
		if err != nil {
			return nil, err
		}
		return wrapInstance(sq, &obj.Superquadric.Transform)

	case obj.BPatch != nil:
		material, err := lookupMaterial(materials, obj.BPatch.Material)
		if err != nil {
			return nil, err
		}
		patches, ok := patchSets[obj.BPatch.Fpath+"|"+obj.BPatch.Material]
		if !ok {
			grids, err := LoadBPT(filepath.Join(meshDir, obj.BPatch.Fpath))
			if err != nil {
				return nil, err
			}
			for _, grid := range grids {
				patch, err := geometry.NewBezierPatch(grid, material)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", obj.BPatch.Fpath, err)
				}
				patches = append(patches, patch)
			}
			patchSets[obj.BPatch.Fpath+"|"+obj.BPatch.Material] = patches
		}
		shapes := make([]core.Shape, 0, len(patches))
		for _, patch := range patches {
			wrapped, err := wrapInstance(patch, &obj.BPatch.Transform)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, wrapped...)
		}
		return shapes, nil
	}

	return nil, fmt.Errorf("empty object entry")
}

// wrapInstance places a shape under its configured transform, sharing the
// underlying geometry. The identity transform skips the wrapper.
func wrapInstance(shape core.Shape, tc *TransformConfig) ([]core.Shape, error) {
	if tc.isZero() {
		return []core.Shape{shape}, nil
	}
	inst, err := geometry.NewInstance(shape, tc.toTransform().Matrix())
	if err != nil {
		return nil, err
	}
	return []core.Shape{inst}, nil
}

func buildLight(lc *LightConfig) (lights.Light, error) {
	switch {
	case lc.Point != nil:
		return &lights.PointLight{
			Position:  lc.Point.Position.toVec3(),
			DiffuseC:  lc.Point.Diffuse.toVec3(),
			SpecularC: lc.Point.Specular.toVec3(),
		}, nil
	case lc.Spot != nil:
		return lights.NewSpotLight(
			lc.Spot.Position.toVec3(),
			lc.Spot.Direction.toVec3(),
			lc.Spot.Color.toVec3(),
			lc.Spot.Angle,
			lc.Spot.Sharpness,
		)
	}
	return nil, fmt.Errorf("empty light entry")
}
