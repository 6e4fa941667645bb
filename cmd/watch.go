package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/assetpack/config"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli"
)

// Extensions of scene sources that trigger a new export when modified.
var sourceExts = map[string]bool{
	".obj":  true,
	".mtl":  true,
	".yaml": true,
	".yml":  true,
	".zip":  true,
}

// Re-run an export job whenever its scene sources change.
func Watch(ctx *cli.Context) error {
	setupLogging(ctx)

	job, err := jobFromFlags(ctx)
	if err != nil {
		return err
	}
	setupJobLogging(ctx, job.LogLevel)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors usually replace files on save so we need to watch the
	// folders containing the sources instead of the files themselves
	for _, dir := range watchDirs(job) {
		if err = watcher.Add(dir); err != nil {
			return err
		}
		logger.Infof("watching %s", dir)
	}

	if err = runJob(job); err != nil {
		logger.Errorf("export failed: %v", err)
	}

	debounce := time.Duration(ctx.Int("debounce")) * time.Millisecond
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !shouldRerun(job, ev) {
				continue
			}
			logger.Debugf("detected change: %s", ev)
			pending = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch error: %v", err)
		case <-pending:
			pending = nil
			if err = runJob(job); err != nil {
				logger.Errorf("export failed: %v", err)
			}
		case <-interrupt:
			logger.Notice("stopping watcher")
			return nil
		}
	}
}

// Get the set of folders containing the job inputs.
func watchDirs(job *config.Job) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, input := range job.Inputs() {
		dir := filepath.Dir(filepath.Clean(input))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Check whether a file system event affects the job sources.
func shouldRerun(job *config.Job, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(ev.Name)
	if job.Archive != "" && name == filepath.Clean(job.Archive) {
		return false
	}
	for _, input := range job.Inputs() {
		if name == filepath.Clean(input) {
			return true
		}
	}
	return sourceExts[strings.ToLower(filepath.Ext(name))]
}
