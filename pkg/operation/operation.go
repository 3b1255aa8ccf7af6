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
	"context"
	"fmt"
	"time"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures one run
type Options struct {
	// FS is the host capability every read, write and rename goes through
	FS hostfs.FileSystem
	// Root is the directory to walk
	Root hostfs.Handle
	// RootPath is shown in reports and used to detect overlapping jobs
	RootPath string

	Walk      walk.Options
	Transform transform.Transform
	Mode      status.Mode

	// Collector receives one run log entry per run. Nil discards it.
	Collector log.Collector
	// Logger prints item lines and the summary. Nil uses the context logger.
	Logger *log.Logger
	// Reporter tracks progress. Nil uses status.NewProgress.
	Reporter status.StatusReporter

	// now is replaced in tests
	now func() time.Time
}

func (o *Options) validate() error {
	if o.FS == nil {
		return fault.Configf("filesystem is required")
	}
	if o.Root == nil {
		return fault.Configf("root directory is required")
	}
	if o.Transform == nil {
		return fault.Configf("transform is required")
	}
	mode, err := status.ParseMode(string(o.Mode))
	if err != nil {
		return err
	}
	o.Mode = mode
	if err := o.Transform.Validate(); err != nil {
		return err
	}
	if err := o.Walk.Validate(); err != nil {
		return err
	}
	if o.Collector == nil {
		o.Collector = log.NopCollector{}
	}
	if o.Reporter == nil {
		o.Reporter = status.NewProgress(o.Mode)
	}
	if o.now == nil {
		o.now = time.Now
	}
	return nil
}

// 🏃 Run walks the root and applies the transform to every entry in
// discovery order, one at a time.
//
// Configuration problems are returned before anything is read. Per item
// faults end up in the report, never in the returned error. If ctx is
// cancelled between items, Run stops and returns the partial report together
// with the context error; items already committed stay committed.
func Run(ctx context.Context, opts Options) (*status.Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}
	zlog := zerolog.Ctx(ctx).With().
		Str("tool", opts.Transform.Tool()).
		Str("mode", string(opts.Mode)).
		Str("root", opts.RootPath).
		Logger()
	ctx = zlog.WithContext(ctx)

	if r, ok := opts.Transform.(transform.Resetter); ok {
		r.Reset()
	}

	started := opts.now()
	report := &status.Report{
		Tool:      opts.Transform.Tool(),
		Mode:      opts.Mode,
		Root:      opts.RootPath,
		StartedAt: started,
	}

	logger.StartRun(ctx, log.RunInfo{Tool: report.Tool, Root: report.Root, Mode: report.Mode})

	found, err := walk.Walk(ctx, opts.FS, opts.Root, opts.Walk)
	if err != nil {
		if fault.IsConfiguration(err) {
			return nil, err
		}
		if found != nil {
			report.Faults = found.Faults
		}
		return finish(ctx, opts, logger, report, errors.Errorf("walking %s: %w", opts.RootPath, err))
	}
	report.Faults = found.Faults
	report.Results = make([]status.ItemResult, 0, len(found.Entries))

	opts.Reporter.StartOperation(ctx, len(found.Entries))

	var runErr error
	for i, entry := range found.Entries {
		if err := ctx.Err(); err != nil {
			runErr = errors.Errorf("run stopped after %d of %d items: %w", i, len(found.Entries), err)
			break
		}
		result := opts.Transform.Apply(ctx, opts.FS, entry, opts.Mode)
		report.Results = append(report.Results, result)
		opts.Reporter.TrackItem(ctx, result)
		logger.LogItemResult(ctx, result)
	}

	opts.Reporter.FinishOperation(ctx)

	return finish(ctx, opts, logger, report, runErr)
}

func finish(ctx context.Context, opts Options, logger *log.Logger, report *status.Report, runErr error) (*status.Report, error) {
	report.Duration = opts.now().Sub(report.StartedAt)
	logger.EndRun(ctx, report)
	opts.Collector.Add(ctx, runLogEntry(report, runErr))
	return report, runErr
}

func runLogEntry(report *status.Report, runErr error) log.Entry {
	s := report.Summary()
	e := log.Entry{
		Tool:      report.Tool,
		Operation: string(report.Mode),
		Status:    log.EntrySuccess,
		Details: fmt.Sprintf("root=%s, total=%d, success=%d, skipped=%d, error=%d",
			report.Root, s.Total, s.Success, s.Skipped, s.Error),
		Duration:       report.Duration,
		FilesProcessed: report.Processed(),
		Timestamp:      report.StartedAt,
	}

	switch {
	case runErr != nil:
		e.Status = log.EntryError
		e.ErrorMessage = runErr.Error()
	case report.HasProblems():
		e.Status = log.EntryWarning
		e.ErrorMessage = fmt.Sprintf("%d item(s) failed, %d director(ies) unreadable", s.Error, len(report.Faults))
	}
	return e
}
