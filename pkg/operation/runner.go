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

package operation

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📋 Job is one named run
type Job struct {
	Name    string
	Options Options
}

// 📦 JobResult is what one job produced
type JobResult struct {
	Name   string
	Report *status.Report
	Err    error
}

// 🏃 Runner executes jobs
type Runner struct {
	parallel int
}

// 🏗️ NewRunner creates a runner executing up to parallel jobs at once
func NewRunner(parallel int) *Runner {
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{parallel: parallel}
}

// 🏃 RunAll runs every job and returns their results in job order.
//
// Jobs run one after another unless the runner allows parallelism, in which
// case their roots must not overlap. A failing job does not stop the others;
// the returned error joins every job error.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) ([]JobResult, error) {
	if r.parallel > 1 {
		if err := checkOverlap(jobs); err != nil {
			return nil, err
		}
	}

	results := make([]JobResult, len(jobs))
	if r.parallel == 1 {
		for i, job := range jobs {
			results[i] = r.runSync(ctx, job)
		}
		return results, joinErrors(results)
	}

	return results, r.runAsync(ctx, jobs, results)
}

// 🔄 runSync runs a job on the caller's goroutine
func (r *Runner) runSync(ctx context.Context, job Job) JobResult {
	zerolog.Ctx(ctx).Debug().Str("job", job.Name).Msg("running job")
	report, err := Run(ctx, job.Options)
	if err != nil {
		err = errors.Errorf("job %s: %w", job.Name, err)
	}
	return JobResult{Name: job.Name, Report: report, Err: err}
}

// ⚡ runAsync runs jobs on an errgroup. Each job prints into its own buffer,
// which is flushed to the shared logger once the job is done.
func (r *Runner) runAsync(ctx context.Context, jobs []Job, results []JobResult) error {
	var g errgroup.Group
	g.SetLimit(r.parallel)

	for i := range jobs {
		job := jobs[i]
		parent := job.Options.Logger
		if parent == nil {
			parent = log.FromContext(ctx)
		}
		buf := &bytes.Buffer{}
		job.Options.Logger = parent.WithConsole(buf)

		g.Go(func() error {
			results[i] = r.runSync(ctx, job)
			if out := strings.TrimRight(buf.String(), "\n"); out != "" {
				parent.Raw(out)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("running jobs: %w", err)
	}
	return joinErrors(results)
}

func joinErrors(results []JobResult) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// checkOverlap rejects jobs whose roots contain one another
func checkOverlap(jobs []Job) error {
	roots := make([]string, len(jobs))
	for i, job := range jobs {
		if job.Options.RootPath == "" {
			return fault.Configf("job %s: root path is required for parallel runs", job.Name)
		}
		abs, err := filepath.Abs(job.Options.RootPath)
		if err != nil {
			return errors.Errorf("resolving root of job %s: %w", job.Name, err)
		}
		roots[i] = filepath.Clean(abs)
	}

	for i := range roots {
		for j := i + 1; j < len(roots); j++ {
			if overlaps(roots[i], roots[j]) {
				return fault.Configf("jobs %s and %s have overlapping roots and cannot run in parallel", jobs[i].Name, jobs[j].Name)
			}
		}
	}
	return nil
}

func overlaps(a, b string) bool {
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, strings.TrimSuffix(b, sep)+sep) || strings.HasPrefix(b, strings.TrimSuffix(a, sep)+sep)
}
