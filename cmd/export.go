package cmd

import (
	"errors"
	"path/filepath"

	"github.com/achilleasa/assetpack/asset/export"
	"github.com/achilleasa/assetpack/asset/scene/reader"
	"github.com/achilleasa/assetpack/asset/writer"
	"github.com/achilleasa/assetpack/config"
	"github.com/urfave/cli"
)

// Flags shared by the export and watch commands.
var JobFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "kind, k",
		Value: &cli.StringSlice{},
		Usage: "run exporter `KIND` (may be repeated; defaults to all exporters)",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "write output files to `DIR`",
	},
	cli.StringFlag{
		Name:  "zip, z",
		Usage: "pack output files into zip `FILE` instead of a directory",
	},
	cli.StringFlag{
		Name:  "anim, a",
		Usage: "load animation tracks from yaml `FILE`",
	},
	cli.StringFlag{
		Name:  "name, n",
		Usage: "base `NAME` for output files (defaults to the scene file name)",
	},
	cli.StringFlag{
		Name:  "config, c",
		Usage: "load export job from toml `FILE`; other flags override its values",
	},
}

// Export scene assets.
func Export(ctx *cli.Context) error {
	setupLogging(ctx)

	job, err := jobFromFlags(ctx)
	if err != nil {
		return err
	}
	setupJobLogging(ctx, job.LogLevel)

	return runJob(job)
}

// Build an export job from the command line, optionally layered over a job
// file.
func jobFromFlags(ctx *cli.Context) (*config.Job, error) {
	if ctx.NArg() > 1 {
		return nil, errors.New("only a single scene file may be specified")
	}

	var flagErr error
	override := func(job *config.Job) {
		absPath := func(path string) string {
			abs, err := filepath.Abs(path)
			if err != nil && flagErr == nil {
				flagErr = err
			}
			return abs
		}

		if ctx.NArg() == 1 {
			job.Scene = absPath(ctx.Args().First())
		}
		if ctx.IsSet("anim") {
			job.Anim = absPath(ctx.String("anim"))
		}
		if ctx.IsSet("out") {
			job.OutDir = absPath(ctx.String("out"))
		}
		if ctx.IsSet("zip") {
			job.Archive = absPath(ctx.String("zip"))
		}
		if ctx.IsSet("name") {
			job.Name = ctx.String("name")
		}
		if kinds := ctx.StringSlice("kind"); len(kinds) != 0 {
			job.Kinds = kinds
		}
	}

	var job *config.Job
	var err error
	if cfgFile := ctx.String("config"); cfgFile != "" {
		job, err = config.Load(cfgFile, override)
	} else {
		if ctx.NArg() == 0 {
			return nil, errors.New("missing scene file")
		}
		job = &config.Job{}
		override(job)
		err = job.Normalize("")
	}

	if flagErr != nil {
		return nil, flagErr
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Load the job scene and run its exporters.
func runJob(job *config.Job) error {
	logger.Noticef("exporting scene: %s", job.Scene)
	sc, err := reader.ReadScene(job.Scene)
	if err != nil {
		return err
	}

	if job.Anim != "" {
		if sc.Anim, err = reader.ReadAnimation(job.Anim); err != nil {
			return err
		}
	}

	// Display scene info
	logger.Infof("scene information:\n%s", sc.Stats())

	sink, err := writer.NewSink(job.OutDir, job.Archive)
	if err != nil {
		return err
	}

	results, warnings, err := export.Run(sc, job.Kinds, job.Name, sink)
	closeErr := sink.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	logger.Noticef("export summary:\n%s", export.Report(results))
	if len(warnings) != 0 {
		logger.Noticef("export completed with %d warnings", len(warnings))
	}
	return nil
}
