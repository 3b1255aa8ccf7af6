package main

import (
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// newBOMCmd creates the bom command
func newBOMCmd(opts *rootOpts) *cobra.Command {
	var (
		rule   transform.BOM
		action string
		wf     walkFlags
		of     outputFlags
	)

	cmd := &cobra.Command{
		Use:   "bom <root>",
		Short: "Add or remove the UTF-8 byte order mark",
		Long: `Bom adds or removes the three byte UTF-8 BOM (EF BB BF) at the start of
every file under root. Files that already have the requested state are skipped.
The BOM is detected again right before each file is changed.`,
		Example: `  devbox bom ./src --action remove --ext "*.cs, *.txt" --commit
  devbox bom scan ./src`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule.Action = transform.BOMAction(action)
			_, err := opts.runSingle(cmd.Context(), args[0], &rule, &wf, &of, hostfs.CollisionFail)
			return err
		},
	}

	cmd.Flags().StringVar(&action, "action", string(transform.BOMRemove), "remove or add")
	cmd.Flags().BoolVar(&rule.KeepBackup, "keep-backup", false, "copy each file to <name>.bak before writing")

	addWalkFlags(cmd, &wf)
	addOutputFlags(cmd, &of)
	return cmd
}

// newBOMScanCmd creates the bom scan command
func newBOMScanCmd(opts *rootOpts) *cobra.Command {
	var wf walkFlags

	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Report which files start with a BOM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fsys := hostfs.NewLocalFS()
			root, err := fsys.Open(args[0])
			if err != nil {
				return errors.Errorf("opening root: %w", err)
			}

			found, err := walk.Walk(ctx, fsys, root, wf.options())
			if err != nil {
				return err
			}

			results, err := transform.ScanBOM(ctx, fsys, found.Entries)
			if err != nil {
				return errors.Errorf("scanning: %w", err)
			}

			rows := [][]string{{"path", "bom"}}
			withBOM, failed := 0, 0
			for _, r := range results {
				state := "no"
				switch {
				case r.Err != nil:
					state = "error: " + r.Err.Error()
					failed++
				case r.HasBOM:
					state = "yes"
					withBOM++
				}
				rows = append(rows, []string{r.Path, state})
			}

			opts.logger.Table(rows)
			opts.logger.Infof("%d of %d files have a BOM", withBOM, len(results))
			if failed > 0 {
				opts.logger.Errorf("%d file(s) could not be read", failed)
			}
			for _, f := range found.Faults {
				opts.logger.Warningf("skipped directory: %v", f)
			}

			if failed > 0 || len(found.Faults) > 0 {
				return errors.Errorf("%w: %d file(s) unreadable, %d director(ies) unreadable", ErrProblems, failed, len(found.Faults))
			}
			return nil
		},
	}

	addWalkFlags(cmd, &wf)
	return cmd
}
