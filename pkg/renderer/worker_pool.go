package renderer

import "sync"

// bandTask is one unit of work: a contiguous, exclusively-owned range of
// image rows [yStart, yEnd).
type bandTask struct {
	yStart, yEnd int
}

// workerPool drives a fixed set of workers over row-band tasks. Bands are
// disjoint, so workers write to the framebuffer without synchronization;
// the only blocking point is the completion barrier in run.
type workerPool struct {
	numWorkers int
}

// run processes every band with the given function and returns the combined
// per-band stats. It blocks until all workers are done.
func (wp *workerPool) run(bands []bandTask, render func(bandTask) RenderStats) RenderStats {
	tasks := make(chan bandTask, len(bands))
	results := make(chan RenderStats, len(bands))

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results <- render(task)
			}
		}()
	}

	for _, band := range bands {
		tasks <- band
	}
	close(tasks)
	wg.Wait()
	close(results)

	var stats RenderStats
	for r := range results {
		stats.combine(r)
	}
	return stats
}

// splitBands partitions height rows into roughly equal contiguous bands.
// More bands than workers keeps the pool busy when bands finish unevenly.
func splitBands(height, numWorkers int) []bandTask {
	bandCount := numWorkers * 4
	if bandCount > height {
		bandCount = height
	}

	bands := make([]bandTask, 0, bandCount)
	rowsPerBand := height / bandCount
	extra := height % bandCount

	y := 0
	for i := 0; i < bandCount; i++ {
		rows := rowsPerBand
		if i < extra {
			rows++
		}
		bands = append(bands, bandTask{yStart: y, yEnd: y + rows})
		y += rows
	}
	return bands
}
