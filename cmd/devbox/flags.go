package main

import (
	"context"
	"os"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/operation"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// ErrProblems is returned when a run finished but some items failed or some
// directories could not be listed
var ErrProblems = errors.Base("run finished with problems")

// 🚶 walkFlags select the entries a command visits
type walkFlags struct {
	recursive bool
	files     bool
	dirs      bool
	ext       string
	exclude   string
	ignore    []string
}

func addWalkFlags(cmd *cobra.Command, f *walkFlags) {
	cmd.Flags().BoolVar(&f.recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&f.files, "files", true, "include files")
	cmd.Flags().BoolVar(&f.dirs, "dirs", false, "include directories")
	cmd.Flags().StringVar(&f.ext, "ext", "", `comma separated extension filter, e.g. "*.txt, .md"`)
	cmd.Flags().StringVar(&f.exclude, "exclude", "", `comma separated directory names to skip, e.g. ".git, node_modules"`)
	cmd.Flags().StringArrayVar(&f.ignore, "ignore", nil, "glob on the relative path to skip (repeatable)")
}

func (f *walkFlags) options() walk.Options {
	return walk.Options{
		Recursive:          f.recursive,
		IncludeFiles:       f.files,
		IncludeDirectories: f.dirs,
		Extensions:         walk.ParseList(f.ext),
		ExcludeDirs:        walk.ParseList(f.exclude),
		IgnorePatterns:     f.ignore,
	}
}

// 📤 outputFlags control the mode and the exports of a single run
type outputFlags struct {
	commit bool
	csv    string
	logCSV string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().BoolVar(&f.commit, "commit", false, "apply the changes instead of previewing them")
	cmd.Flags().StringVar(&f.csv, "csv", "", "write item results as CSV to this file")
	cmd.Flags().StringVar(&f.logCSV, "log-csv", "", "write the run log as CSV to this file")
}

func (f *outputFlags) mode() status.Mode {
	if f.commit {
		return status.ModeCommit
	}
	return status.ModePreview
}

// runSingle runs one transform over rootPath and writes the requested exports
func (o *rootOpts) runSingle(ctx context.Context, rootPath string, tr transform.Transform, wf *walkFlags, of *outputFlags, collision hostfs.CollisionPolicy) (*status.Report, error) {
	fsys := hostfs.NewLocalFS(hostfs.WithCollisionPolicy(collision))
	root, err := fsys.Open(rootPath)
	if err != nil {
		return nil, errors.Errorf("opening root: %w", err)
	}

	report, runErr := operation.Run(ctx, operation.Options{
		FS:        fsys,
		Root:      root,
		RootPath:  rootPath,
		Walk:      wf.options(),
		Transform: tr,
		Mode:      of.mode(),
		Collector: o.collector,
		Logger:    o.logger,
	})

	if report != nil && of.csv != "" {
		if err := writeFile(of.csv, func(f *os.File) error { return status.WriteCSV(f, report.Results) }); err != nil {
			return report, err
		}
		o.logger.Infof("results written to %s", of.csv)
	}
	if err := o.writeRunLog(of.logCSV); err != nil {
		return report, err
	}

	if runErr != nil {
		return report, runErr
	}
	if report.Mode == status.ModePreview && report.Processed() > 0 {
		o.logger.Info("preview only, pass --commit to apply")
	} else if report.Processed() > 0 {
		o.logger.Successf("%d item(s) changed under %s", report.Processed(), rootPath)
	}
	if report.HasProblems() {
		s := report.Summary()
		return report, errors.Errorf("%w: %d item(s) failed, %d director(ies) unreadable", ErrProblems, s.Error, len(report.Faults))
	}
	return report, nil
}

func (o *rootOpts) writeRunLog(path string) error {
	if path == "" {
		return nil
	}
	if err := writeFile(path, func(f *os.File) error { return log.WriteEntriesCSV(f, o.collector.Entries()) }); err != nil {
		return err
	}
	o.logger.Infof("run log written to %s", path)
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing %s: %w", path, err)
	}
	return nil
}
