package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <grammar>",
	Short: "Export the branch tree visualization",
	Long:  `Generates the tree and outputs a Mermaid diagram (graph TD) of its branches.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		iterations, _ := cmd.Flags().GetInt("iterations")
		maxBranches, _ := cmd.Flags().GetInt("max-branches")
		ticks, _ := cmd.Flags().GetInt("ticks")

		return cli.RunGraph(cmd.Context(), cli.GraphOptions{
			Options:     commonOptions(cmd),
			Grammar:     args[0],
			Iterations:  iterations,
			MaxBranches: maxBranches,
			Ticks:       ticks,
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addGrammarFlags(graphCmd)
	graphCmd.Flags().Int("max-branches", 200, "Truncate the chart after this many branches (0 for all)")
	graphCmd.Flags().Int("ticks", 0, "Grow the tree this many ticks first and colour branches by growth")
}
