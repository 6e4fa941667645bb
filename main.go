package main

import (
	"os"

	"github.com/achilleasa/assetpack/cmd"
	"github.com/achilleasa/assetpack/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "assetpack"
	app.Usage = "export 3D scenes into relocatable binary game assets"
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
			Name:  "export",
			Usage: "export a scene into binary asset files",
			Description: `
Parse a scene definition from a wavefront obj file (or a zip bundle containing
one) and run the selected exporters on it. Supported exporters:

  bvh  bounding volume hierarchy over all scene polygons
  obs  obstacle polygons classified as floor, ceiling or wall
  lan  lane strips and their areas
  kfr  keyframe animation tracks
  gmt  generic mesh with all scene attributes
  omd  skinned character model
  rmd  room model

Output files are named after the scene unless --name is specified and are
written to a folder or packed into a zip archive.`,
			ArgsUsage: "scene_file.obj",
			Flags:     cmd.JobFlags,
			Action:    cmd.Export,
		},
		{
			Name:      "info",
			Usage:     "display header information for exported asset files",
			ArgsUsage: "asset_file1 asset_file2 ...",
			Action:    cmd.ShowFileInfo,
		},
		{
			Name:  "watch",
			Usage: "re-export a scene whenever its sources change",
			Description: `
Run an export job and then watch the folders containing the scene and animation
sources. Any change to a scene, material library or animation file triggers a
new export. Press ctrl+c to stop.`,
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "debounce",
					Value: 250,
					Usage: "wait `MS` milliseconds for further changes before exporting",
				},
			}, cmd.JobFlags...),
			Action: cmd.Watch,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("assetpack").Error(err)
		os.Exit(1)
	}
}
