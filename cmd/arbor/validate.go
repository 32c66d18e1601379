package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the grammar library for consistency",
	Long: `Parses every grammar of the library and reports malformed rules, bad
turtle settings and suspicious constructs. With --watch the library is
re-validated on every change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commonOptions(cmd)
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			opts.RepoPath = args[0]
		}
		watch, _ := cmd.Flags().GetBool("watch")

		return cli.RunValidate(cmd.Context(), cli.ValidateOptions{Options: opts, Watch: watch})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolP("watch", "w", false, "Re-validate on every change")
}
