package main

import (
	"strconv"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/config"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/operation"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// newRunCmd creates the run command
func newRunCmd(opts *rootOpts) *cobra.Command {
	var (
		configFile string
		logCSV     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the jobs described in a job file",
		Long: `Run loads a YAML, HCL or JSON job file and runs every job in it.
Each job has a root, a mode and exactly one of rename, replace or bom.
Jobs run one after another unless the file sets parallel above 1.`,
		Example: `  devbox run -c jobs.yaml
  devbox run -c jobs.hcl --log-csv runs.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading job file: %w", err)
			}

			jobs, err := cfg.OperationJobs(opts.collector, opts.logger)
			if err != nil {
				return err
			}

			opts.logger.Header("running " + strconv.Itoa(len(jobs)) + " job(s) from " + cfg.Location())
			results, runErr := operation.NewRunner(cfg.Parallel).RunAll(ctx, jobs)

			printJobTable(opts, cfg, results)
			if err := opts.writeRunLog(logCSV); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			for _, res := range results {
				if res.Report != nil && res.Report.HasProblems() {
					return errors.Errorf("%w: job %s", ErrProblems, res.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "devbox.yaml", "job file path")
	cmd.Flags().StringVar(&logCSV, "log-csv", "", "write the run log as CSV to this file")
	return cmd
}

func printJobTable(opts *rootOpts, cfg *config.File, results []operation.JobResult) {
	rows := [][]string{{"job", "tool", "mode", "success", "skipped", "error", "result"}}
	for i, res := range results {
		job := &cfg.Jobs[i]
		row := []string{res.Name, job.Transform().Tool(), string(job.RunMode()), "-", "-", "-", "ok"}
		if res.Report != nil {
			s := res.Report.Summary()
			row[3], row[4], row[5] = strconv.Itoa(s.Success), strconv.Itoa(s.Skipped), strconv.Itoa(s.Error)
		}
		if res.Err != nil {
			row[6] = res.Err.Error()
		}
		rows = append(rows, row)
	}
	opts.logger.LogNewline()
	opts.logger.Table(rows)
}
