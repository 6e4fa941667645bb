package cmd

import (
	"github.com/achilleasa/assetpack/log"
	"github.com/urfave/cli"
)

var logger = log.New("assetpack")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// Apply the log level requested by a job file unless a verbosity flag was
// passed on the command line.
func setupJobLogging(ctx *cli.Context, levelName string) {
	if levelName == "" || ctx.GlobalBool("v") || ctx.GlobalBool("vv") {
		return
	}

	level, err := log.ParseLevel(levelName)
	if err != nil {
		logger.Warningf("ignoring job log level: %v", err)
		return
	}
	log.SetLevel(level)
}
