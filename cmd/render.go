package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/rmazur/go-whitted/pkg/renderer"
	"github.com/rmazur/go-whitted/pkg/scene"
	"github.com/shirou/gopsutil/cpu"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	// Command line overrides for the scene file settings.
	if w := ctx.Int("width"); w > 0 {
		sc.Settings.Width = w
	}
	if h := ctx.Int("height"); h > 0 {
		sc.Settings.Height = h
	}
	if workers := ctx.Int("workers"); workers > 0 {
		sc.Settings.Workers = workers
	}

	if counts, err := cpu.Counts(true); err == nil {
		logger.Infof("host provides %d logical cpus; rendering with %d workers", counts, sc.Settings.Workers)
	}

	fb, stats, err := renderer.Render(sc)
	if err != nil {
		return err
	}

	outFile := ctx.String("out")
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = png.Encode(f, fb.ToImage(ctx.Float64("gamma"))); err != nil {
		return err
	}

	displayFrameStats(stats)
	logger.Noticef("wrote %s", outFile)
	return nil
}

func displayFrameStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Primary rays", "Sub-samples", "Refined", "Rays/pixel", "Base", "Refine"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.PrimaryRays),
		fmt.Sprintf("%d", stats.SubSamples),
		fmt.Sprintf("%d", stats.RefinedPixels),
		fmt.Sprintf("%.2f", stats.SamplesPerPixel()),
		fmt.Sprintf("%s", stats.BaseTime),
		fmt.Sprintf("%s", stats.RefineTime),
	})
	table.SetFooter([]string{"", "", "", "", "", "Workers", fmt.Sprintf("%d", stats.Workers)})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
