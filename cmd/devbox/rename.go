package main

import (
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/spf13/cobra"
)

// newRenameCmd creates the rename command
func newRenameCmd(opts *rootOpts) *cobra.Command {
	var (
		rule      transform.Rename
		ruleName  string
		caseName  string
		collision string
		wf        walkFlags
		of        outputFlags
	)

	cmd := &cobra.Command{
		Use:   "rename <root>",
		Short: "Rename files and directories under root",
		Long: `Rename rewrites entry names with one rule:

  replace  substitute every occurrence of --search with --replace
  prefix   put --prefix before the name
  suffix   put --suffix after the name, before the extension
  case     convert to --case upper, lower or title
  number   replace the name with [--prefix_]N, counting renamed entries from --start

The extension is kept unless --include-ext is set. Directories are renamed
after everything inside them.`,
		Example: `  devbox rename ./photos --rule number --prefix img --width 4 --ext "*.jpg"
  devbox rename ./docs --rule replace --search draft --replace final --commit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule.Rule = transform.RenameRule(ruleName)
			rule.Case = transform.CaseMode(caseName)

			policy, err := hostfs.ParseCollisionPolicy(collision)
			if err != nil {
				return err
			}

			_, err = opts.runSingle(cmd.Context(), args[0], &rule, &wf, &of, policy)
			return err
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", "", "rename rule: replace, prefix, suffix, case or number")
	cmd.Flags().StringVar(&rule.Search, "search", "", "text to search for (replace rule)")
	cmd.Flags().StringVar(&rule.Replace, "replace", "", "replacement text (replace rule)")
	cmd.Flags().StringVar(&rule.Prefix, "prefix", "", "prefix (prefix and number rules)")
	cmd.Flags().StringVar(&rule.Suffix, "suffix", "", "suffix (suffix rule)")
	cmd.Flags().StringVar(&caseName, "case", "", "target case: upper, lower or title (case rule)")
	cmd.Flags().IntVar(&rule.Start, "start", 1, "first number (number rule)")
	cmd.Flags().IntVar(&rule.Width, "width", 3, "zero padded width (number rule)")
	cmd.Flags().BoolVar(&rule.IncludeExtensions, "include-ext", false, "apply the rule to the extension too")
	cmd.Flags().StringVar(&collision, "collision", string(hostfs.CollisionFail), "when the new name exists: fail, overwrite or suffix")
	_ = cmd.MarkFlagRequired("rule")

	addWalkFlags(cmd, &wf)
	addOutputFlags(cmd, &of)
	return cmd
}
