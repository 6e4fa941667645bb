// Package config loads export jobs from TOML files.
//
// A job names the scene to export together with the output location and the
// exporters to run. Paths may start with ~ and relative paths are resolved
// against the directory holding the job file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/achilleasa/assetpack/asset/export"
	"github.com/achilleasa/assetpack/log"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Job describes a single export run.
type Job struct {
	// The scene file (.obj or .zip bundle).
	Scene string `toml:"scene"`

	// Optional animation track file overriding any anim directive in the scene.
	Anim string `toml:"anim"`

	// Output directory for loose files.
	OutDir string `toml:"out_dir"`

	// If set, output files are packed into this zip archive instead.
	Archive string `toml:"archive"`

	// Base name for the generated files. Defaults to the scene file stem.
	Name string `toml:"name"`

	// Exporters to run. Defaults to all of them.
	Kinds []string `toml:"kinds"`

	// Optional log level (debug, info, notice, warning or error).
	LogLevel string `toml:"log_level"`
}

// Load a job file, apply any overrides and validate the result. Overrides run
// before defaults are filled in.
func Load(filename string, overrides ...func(*Job)) (*Job, error) {
	path, err := homedir.Expand(filename)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	job := &Job{}
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err = dec.Decode(job); err != nil {
		return nil, fmt.Errorf("config: could not parse %q: %w", path, err)
	}

	for _, override := range overrides {
		override(job)
	}

	if err = job.Normalize(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return job, nil
}

// Expand paths, fill in defaults and validate the job. Relative paths are
// resolved against baseDir unless it is empty.
func (j *Job) Normalize(baseDir string) error {
	var err error
	if strings.TrimSpace(j.Scene) == "" {
		return fieldError("scene", "is required")
	}

	for _, field := range []struct {
		name string
		val  *string
	}{
		{"scene", &j.Scene},
		{"anim", &j.Anim},
		{"out_dir", &j.OutDir},
		{"archive", &j.Archive},
	} {
		if *field.val == "" {
			continue
		}
		if *field.val, err = resolvePath(*field.val, baseDir); err != nil {
			return fieldError(field.name, err.Error())
		}
	}

	switch ext := strings.ToLower(filepath.Ext(j.Scene)); ext {
	case ".obj", ".zip":
	default:
		return fieldError("scene", fmt.Sprintf("unsupported scene format %q", ext))
	}

	if j.Archive != "" && !strings.EqualFold(filepath.Ext(j.Archive), ".zip") {
		return fieldError("archive", "must be a .zip file")
	}

	if j.OutDir == "" {
		j.OutDir = "."
		if baseDir != "" {
			j.OutDir = baseDir
		}
	}

	if j.Name == "" {
		base := filepath.Base(j.Scene)
		j.Name = strings.TrimSuffix(base, filepath.Ext(base))
	} else if strings.ContainsAny(j.Name, `/\`) {
		return fieldError("name", "must not contain path separators")
	}

	if len(j.Kinds) == 0 {
		j.Kinds = export.Kinds()
	}
	seen := make(map[string]bool, len(j.Kinds))
	for _, kind := range j.Kinds {
		if _, err = export.Lookup(kind); err != nil {
			return fieldError("kinds", err.Error())
		}
		if seen[kind] {
			return fieldError("kinds", fmt.Sprintf("duplicate exporter %q", kind))
		}
		seen[kind] = true
	}

	if j.LogLevel != "" {
		if _, err = log.ParseLevel(j.LogLevel); err != nil {
			return fieldError("log_level", err.Error())
		}
	}

	return nil
}

// Get the paths whose modification should trigger a new export.
func (j *Job) Inputs() []string {
	inputs := []string{j.Scene}
	if j.Anim != "" {
		inputs = append(inputs, j.Anim)
	}
	return inputs
}

func resolvePath(path, baseDir string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	if baseDir != "" && !filepath.IsAbs(expanded) {
		expanded = filepath.Join(baseDir, expanded)
	}
	return filepath.Clean(expanded), nil
}

func fieldError(field, msg string) error {
	return fmt.Errorf("config: field %q: %s", field, msg)
}
