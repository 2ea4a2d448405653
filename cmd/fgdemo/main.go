// main.go
package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "fgdemo"
	app.Usage = "present a Vulkan scene with optional DLSS frame generation"
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
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML or TOML configuration file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and render until closed",
			Description: `
Create a window, a Vulkan device and a swapchain and render a cleared scene
with an orbiting camera. When the Streamline interposer is present, frames are
interpolated by DLSS-G; editing framegen.enabled in the configuration file
toggles interpolation while running.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "frames",
					Usage: "stop after this many frames (0 runs until the window closes)",
				},
				cli.BoolFlag{
					Name:  "no-framegen",
					Usage: "do not load Streamline",
				},
			},
			Action: Run,
		},
		{
			Name:   "formats",
			Usage:  "list surface formats and present modes and the swapchain's choices",
			Action: Formats,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%+v", err)
		os.Exit(1)
	}
}
