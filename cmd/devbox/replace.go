package main

import (
	"fmt"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/text"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/spf13/cobra"
)

// newReplaceCmd creates the replace command
func newReplaceCmd(opts *rootOpts) *cobra.Command {
	var (
		rule transform.Replace
		diff bool
		wf   walkFlags
		of   outputFlags
	)

	cmd := &cobra.Command{
		Use:   "replace <root>",
		Short: "Replace text inside files under root",
		Long: `Replace substitutes every match of --search in every file under root.
The search is literal unless --regex is set, in which case --replace may use
$1 style group references.

Files without a match are skipped and never written.`,
		Example: `  devbox replace ./src --search colour --replace color --ext "*.md, *.txt"
  devbox replace ./src --search 'v(\d+)' --replace 'version $1' --regex --diff
  devbox replace ./src --search foo --replace bar --keep-backup --commit --csv results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := opts.runSingle(cmd.Context(), args[0], &rule, &wf, &of, hostfs.CollisionFail)
			if report != nil && diff && report.Mode == status.ModePreview {
				printDiffs(opts, report)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&rule.Search, "search", "", "text or pattern to search for")
	cmd.Flags().StringVar(&rule.Replace, "replace", "", "replacement text")
	cmd.Flags().BoolVar(&rule.Regex, "regex", false, "treat --search as a regular expression")
	cmd.Flags().BoolVar(&rule.StripBOM, "strip-bom", false, "remove a leading BOM before matching")
	cmd.Flags().BoolVar(&rule.KeepBackup, "keep-backup", false, "copy each file to <name>.bak before writing")
	cmd.Flags().IntVar(&rule.ExcerptLength, "excerpt", text.DefaultExcerptLength, "preview excerpt length in characters")
	cmd.Flags().BoolVar(&diff, "diff", false, "show a diff of each preview excerpt")
	_ = cmd.MarkFlagRequired("search")

	addWalkFlags(cmd, &wf)
	addOutputFlags(cmd, &of)
	return cmd
}

// printDiffs shows the excerpt diff of every planned change
func printDiffs(opts *rootOpts, report *status.Report) {
	for _, r := range report.Results {
		if r.Status != status.StatusSuccess {
			continue
		}
		ins, del := text.DiffStats(r.Original, r.New)
		opts.logger.Raw(fmt.Sprintf("--- %s (+%d -%d)", r.Path, ins, del))
		opts.logger.Raw(text.Diff(r.Original, r.New))
	}
}
