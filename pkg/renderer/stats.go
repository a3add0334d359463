package renderer

import "time"

// RenderStats aggregates counters across all workers and passes
type RenderStats struct {
	TotalPixels   int
	PrimaryRays   int
	SubSamples    int // extra adaptive samples traced in the refine pass
	RefinedPixels int // pixels whose contrast triggered refinement

	BaseTime   time.Duration
	RefineTime time.Duration
	Workers    int
}

// combine merges per-band counters into the aggregate
func (s *RenderStats) combine(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryRays += other.PrimaryRays
	s.SubSamples += other.SubSamples
	s.RefinedPixels += other.RefinedPixels
}

// SamplesPerPixel returns the average number of rays traced per pixel
func (s *RenderStats) SamplesPerPixel() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.PrimaryRays+s.SubSamples) / float64(s.TotalPixels)
}
