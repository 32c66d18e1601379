package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Aliases: []string{"ls"},
	Short:   "List the available grammars",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunPresets(commonOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
