package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"

	_ "github.com/BeatGlow/gamma/all"
	"github.com/BeatGlow/gamma/ddc"
	"github.com/BeatGlow/gamma/plot"
)

func main() {
	app := cli.NewApp()
	app.Name = "gamma"
	app.Usage = "inspect and adjust the gamma ramps of your displays"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "method, m",
			Usage:  "Adjustment method (default: the preferred available method)",
			EnvVar: "GAMMA_METHOD",
		},
		cli.StringFlag{
			Name:   "site, s",
			Usage:  "Site to open, e.g. an X display (default: from the environment)",
			EnvVar: "GAMMA_SITE",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "Enable debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.Bool("verbose") {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
		return nil
	}

	selectFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "partition, p",
			Usage: "Partition index (default: all)",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "crtc, c",
			Usage: "CRTC index (default: all)",
			Value: -1,
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "methods",
			Usage:  "List the adjustment methods and their capabilities",
			Action: listMethods,
		},
		{
			Name:   "list",
			Usage:  "List the partitions and CRTCs of a site",
			Action: listOutputs,
		},
		{
			Name:   "info",
			Usage:  "Show everything known about CRTCs",
			Flags:  selectFlags,
			Action: showInformation,
		},
		{
			Name:  "get",
			Usage: "Print the gamma ramps of CRTCs",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "depth, d",
					Usage: "Depth to print the ramps in: 8, 16, 32, 64, float or double (default: native)",
				},
			}, selectFlags...),
			Action: getRamps,
		},
		{
			Name:  "set",
			Usage: "Apply a gamma curve to CRTCs",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "gamma, g",
					Usage: "Gamma as one value or red:green:blue",
					Value: "1",
				},
				cli.StringFlag{
					Name:  "brightness, b",
					Usage: "Brightness as one value or red:green:blue",
					Value: "1",
				},
			}, selectFlags...),
			Action: setRamps,
		},
		{
			Name:   "restore",
			Usage:  "Restore the system gamma ramps",
			Flags:  selectFlags,
			Action: restore,
		},
		{
			Name:      "edid",
			Usage:     "Decode an EDID",
			ArgsUsage: "[hex | -]",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "ddc",
					Usage: "Read the EDID over the DDC I²C channel",
				},
				cli.IntFlag{
					Name:  "bus",
					Usage: "I²C bus number (default: use first available)",
					Value: ddc.DefaultConfig.Device,
				},
				cli.BoolFlag{
					Name:  "extensions",
					Usage: "Also read the first extension block over DDC",
				},
			},
			Action: decodeEDID,
		},
		{
			Name:  "plot",
			Usage: "Render the gamma ramps of CRTCs to PNG",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Usage: "Output file; the CRTC is appended for more than one CRTC",
					Value: "gamma.png",
				},
				cli.IntFlag{
					Name:  "size",
					Usage: "Width and height of the image",
					Value: plot.DefaultOptions.Width,
				},
			}, selectFlags...),
			Action: plotRamps,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("gamma failed", "error", err)
		os.Exit(1)
	}
}
