// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for job file parsers
type Parser interface {
	// 📝 Parse parses the job file from bytes
	Parse(ctx context.Context, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	name := strings.ToLower(filepath.Base(filename))
	for _, p := range parsers {
		if p.CanParse(name) {
			return p
		}
	}
	return nil
}

// 🚶 WalkArgs selects the entries of a job. Unset booleans keep the walk defaults.
type WalkArgs struct {
	Recursive  *bool    `json:"recursive,omitempty" yaml:"recursive,omitempty" hcl:"recursive,optional"`
	Files      *bool    `json:"files,omitempty" yaml:"files,omitempty" hcl:"files,optional"`
	Dirs       bool     `json:"dirs,omitempty" yaml:"dirs,omitempty" hcl:"dirs,optional"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`
	Exclude    []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Ignore     []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
}

// Options converts the arguments to walk options
func (w *WalkArgs) Options() walk.Options {
	opts := walk.DefaultOptions()
	if w == nil {
		return opts
	}
	if w.Recursive != nil {
		opts.Recursive = *w.Recursive
	}
	if w.Files != nil {
		opts.IncludeFiles = *w.Files
	}
	opts.IncludeDirectories = w.Dirs
	opts.Extensions = w.Extensions
	opts.ExcludeDirs = w.Exclude
	opts.IgnorePatterns = w.Ignore
	return opts
}

// 📋 Job is one run described in a job file. Exactly one of Rename,
// Replace and BOM must be set.
type Job struct {
	Name      string `json:"name" yaml:"name" hcl:"name,label"`
	Root      string `json:"root" yaml:"root" hcl:"root"`
	Mode      string `json:"mode,omitempty" yaml:"mode,omitempty" hcl:"mode,optional"`
	Collision string `json:"collision,omitempty" yaml:"collision,omitempty" hcl:"collision,optional"`

	Walk *WalkArgs `json:"walk,omitempty" yaml:"walk,omitempty" hcl:"walk,block"`

	Rename  *transform.Rename  `json:"rename,omitempty" yaml:"rename,omitempty" hcl:"rename,block"`
	Replace *transform.Replace `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
	BOM     *transform.BOM     `json:"bom,omitempty" yaml:"bom,omitempty" hcl:"bom,block"`

	mode      status.Mode
	collision hostfs.CollisionPolicy
	walk      walk.Options
}

// 📚 File is a complete job file
type File struct {
	// Parallel is the number of jobs run at once; 1 when unset
	Parallel int   `json:"parallel,omitempty" yaml:"parallel,omitempty" hcl:"parallel,optional"`
	Jobs     []Job `json:"jobs" yaml:"jobs" hcl:"job,block"`

	location string
}

// 🎯 Load loads and validates a job file. Relative job roots are resolved
// against the directory holding the file.
func Load(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading job file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading job file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, fault.Configf("no parser found for file %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing job file: %w", err)
	}

	cfg.location = path
	if err := cfg.Validate(ctx, filepath.Dir(path)); err != nil {
		return nil, errors.Errorf("validating job file: %w", err)
	}

	logger.Debug().Int("jobs", len(cfg.Jobs)).Int("parallel", cfg.Parallel).Msg("job file loaded")
	return cfg, nil
}

// 🔍 Validate checks every job, applies defaults and resolves relative
// roots against baseDir
func (cfg *File) Validate(ctx context.Context, baseDir string) error {
	if len(cfg.Jobs) == 0 {
		return fault.Configf("at least one job is required")
	}
	if cfg.Parallel < 0 {
		return fault.Configf("parallel must not be negative")
	}
	if cfg.Parallel == 0 {
		cfg.Parallel = 1
	}

	seen := map[string]bool{}
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if seen[job.Name] {
			return fault.Configf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true

		if err := job.validate(baseDir); err != nil {
			return errors.Errorf("job %s: %w", job.Name, err)
		}
		zerolog.Ctx(ctx).Debug().
			Str("job", job.Name).
			Str("root", job.Root).
			Str("tool", job.Transform().Tool()).
			Msg("job validated")
	}
	return nil
}

func (j *Job) validate(baseDir string) error {
	if j.Root == "" {
		return fault.Configf("root is required")
	}
	if !filepath.IsAbs(j.Root) && baseDir != "" {
		j.Root = filepath.Join(baseDir, j.Root)
	}
	j.Root = filepath.Clean(j.Root)

	set := 0
	for _, present := range []bool{j.Rename != nil, j.Replace != nil, j.BOM != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fault.Configf("exactly one of rename, replace or bom is required, got %d", set)
	}

	mode, err := status.ParseMode(j.Mode)
	if err != nil {
		return err
	}
	j.mode = mode

	collision, err := hostfs.ParseCollisionPolicy(j.Collision)
	if err != nil {
		return err
	}
	j.collision = collision

	if err := j.Transform().Validate(); err != nil {
		return err
	}

	opts := j.Walk.Options()
	if err := opts.Validate(); err != nil {
		return err
	}
	j.walk = opts
	return nil
}

// Transform returns the configured strategy
func (j *Job) Transform() transform.Transform {
	switch {
	case j.Rename != nil:
		return j.Rename
	case j.Replace != nil:
		return j.Replace
	case j.BOM != nil:
		return j.BOM
	}
	return nil
}

// RunMode is the parsed mode, preview unless the job says otherwise
func (j *Job) RunMode() status.Mode { return j.mode }

// CollisionPolicy is the parsed rename collision policy
func (j *Job) CollisionPolicy() hostfs.CollisionPolicy { return j.collision }

// WalkOptions are the validated walk options
func (j *Job) WalkOptions() walk.Options { return j.walk }

// Location is the path the file was loaded from
func (cfg *File) Location() string { return cfg.location }

// 📝 String returns a one line description of the job
func (j *Job) String() string {
	tool := "none"
	if t := j.Transform(); t != nil {
		tool = t.Tool()
	}
	mode := j.mode
	if mode == "" {
		mode = status.ModePreview
	}
	return fmt.Sprintf("%s: %s %s (%s)", j.Name, tool, j.Root, mode)
}
