package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <grammar>",
	Short: "Expand a grammar and build its tree",
	Long: `Expands the grammar, interprets the sequence with the turtle and prints
a report (default), the raw sequence or the full tree as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		iterations, _ := cmd.Flags().GetInt("iterations")
		format, _ := cmd.Flags().GetString("format")

		return cli.RunGenerate(cmd.Context(), cli.GenerateOptions{
			Options:    commonOptions(cmd),
			Grammar:    args[0],
			Iterations: iterations,
			Format:     format,
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGrammarFlags(generateCmd)
	generateCmd.Flags().StringP("format", "f", cli.FormatReport, "Output format: report, sequence or json")
}
