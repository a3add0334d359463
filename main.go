package main

import (
	"os"

	"github.com/rmazur/go-whitted/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-whitted"
	app.Usage = "render scenes using Whitted-style ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene description to a PNG image",
			Description: `
Parse a YAML scene description together with its sibling materials.yaml,
build a BVH over the bounded objects and trace one image with recursive
shading, shadows, reflection and refraction. High-contrast pixels are
refined with extra stratified sub-samples.`,
			ArgsUsage: "scene.yaml",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Usage: "override frame width from the scene file",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "override frame height from the scene file",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "override worker count (defaults to the CPU count)",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: 2.2,
					Usage: "gamma correction applied when encoding the image",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "info",
			Usage:  "print host cpu and memory details",
			Action: cmd.HostInfo,
		},
	}

	app.Run(os.Args)
}
