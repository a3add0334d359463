package renderer

import (
	"fmt"
	"time"

	"github.com/rmazur/go-whitted/log"
	"github.com/rmazur/go-whitted/pkg/scene"
	"github.com/rmazur/go-whitted/pkg/tracer"
)

var logger = log.New("render")

// Renderer renders a built scene into a framebuffer. The scene is read-only
// for the renderer's whole lifetime; the framebuffer is partitioned into
// disjoint row bands so workers never write the same pixel.
type Renderer struct {
	scene   *scene.Scene
	camera  *Camera
	sampler *adaptiveSampler
}

// New creates a renderer for a built scene. The scene's settings were
// validated at build time; they are re-checked here so a hand-assembled
// scene cannot start an invalid render.
func New(s *scene.Scene) (*Renderer, error) {
	st := s.Settings
	if st.Width <= 0 || st.Height <= 0 {
		return nil, fmt.Errorf("renderer: non-positive image dimensions %dx%d", st.Width, st.Height)
	}
	if st.Workers < 1 {
		return nil, fmt.Errorf("renderer: worker count %d < 1", st.Workers)
	}
	if st.MaxDepth < 1 {
		return nil, fmt.Errorf("renderer: max depth %d < 1", st.MaxDepth)
	}
	if st.Cutoff < 0 {
		return nil, fmt.Errorf("renderer: negative cutoff %g", st.Cutoff)
	}
	if st.Contrast < 0 {
		return nil, fmt.Errorf("renderer: negative contrast %g", st.Contrast)
	}
	if st.MaxSubSamples < 0 || st.MaxSubSamples > len(stratumOffsets) {
		return nil, fmt.Errorf("renderer: max sub-samples %d outside [0, %d]",
			st.MaxSubSamples, len(stratumOffsets))
	}

	camera := NewCamera(s.Camera, st.Width, st.Height)
	return &Renderer{
		scene:  s,
		camera: camera,
		sampler: &adaptiveSampler{
			tracer:   tracer.New(s),
			camera:   camera,
			settings: st,
		},
	}, nil
}

// Render produces the final image. Pass one traces one primary ray per
// pixel into a base buffer; pass two refines high-contrast pixels with
// extra sub-samples. Both passes run on the worker pool and the result is
// deterministic for a fixed scene regardless of worker count.
func (r *Renderer) Render() (*Framebuffer, RenderStats) {
	st := r.scene.Settings
	pool := &workerPool{numWorkers: st.Workers}
	bands := splitBands(st.Height, st.Workers)

	base := NewFramebuffer(st.Width, st.Height)
	final := NewFramebuffer(st.Width, st.Height)

	logger.Infof("rendering %dx%d with %d workers over %d bands",
		st.Width, st.Height, st.Workers, len(bands))

	baseStart := time.Now()
	stats := pool.run(bands, func(band bandTask) RenderStats {
		var bandStats RenderStats
		for y := band.yStart; y < band.yEnd; y++ {
			for x := 0; x < st.Width; x++ {
				base.Set(x, y, r.sampler.samplePrimary(x, y))
				bandStats.TotalPixels++
				bandStats.PrimaryRays++
			}
		}
		return bandStats
	})
	baseTime := time.Since(baseStart)

	// The base buffer is complete before any refinement reads it; the pool
	// barrier above is the only synchronization the passes need.
	refineStart := time.Now()
	refineStats := pool.run(bands, func(band bandTask) RenderStats {
		var bandStats RenderStats
		for y := band.yStart; y < band.yEnd; y++ {
			for x := 0; x < st.Width; x++ {
				color, extra := r.sampler.refine(base, x, y)
				final.Set(x, y, color)
				bandStats.SubSamples += extra
				if extra > 0 {
					bandStats.RefinedPixels++
				}
			}
		}
		return bandStats
	})
	refineTime := time.Since(refineStart)

	stats.combine(refineStats)
	stats.BaseTime = baseTime
	stats.RefineTime = refineTime
	stats.Workers = st.Workers

	logger.Infof("render done: %.2f samples/pixel, base %v, refine %v",
		stats.SamplesPerPixel(), baseTime, refineTime)
	return final, stats
}

// Render is the package entry point: build a renderer and run it
func Render(s *scene.Scene) (*Framebuffer, RenderStats, error) {
	r, err := New(s)
	if err != nil {
		return nil, RenderStats{}, err
	}
	fb, stats := r.Render()
	return fb, stats, nil
}
