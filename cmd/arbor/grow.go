package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/pkg/runner"
	"github.com/spf13/cobra"
)

var growCmd = &cobra.Command{
	Use:   "grow <grammar>",
	Short: "Simulate the growth of a generated tree",
	Long: `Generates the tree and grows it tick by tick, trunk first, until every
branch reached its full length. Use --realtime to pace ticks against the clock.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		iterations, _ := flags.GetInt("iterations")
		rate, _ := flags.GetFloat32("rate")
		step, _ := flags.GetDuration("step")
		speed, _ := flags.GetFloat64("speed")
		realtime, _ := flags.GetBool("realtime")
		maxTicks, _ := flags.GetInt("max-ticks")
		every, _ := flags.GetInt("every")
		jsonMode, _ := flags.GetBool("json")

		return cli.RunGrow(cmd.Context(), cli.GrowOptions{
			Options:    commonOptions(cmd),
			Grammar:    args[0],
			Iterations: iterations,
			Rate:       rate,
			Step:       step,
			Speed:      speed,
			Realtime:   realtime,
			MaxTicks:   maxTicks,
			Every:      every,
			JSON:       jsonMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(growCmd)
	addGrammarFlags(growCmd)
	flags := growCmd.Flags()
	flags.Float32("rate", 4, "Growth speed in length units per second")
	flags.Duration("step", runner.DefaultStep, "Simulated time per tick")
	flags.Float64("speed", 1, "Wall-clock speed factor (with --realtime)")
	flags.Bool("realtime", false, "Pace ticks against the wall clock")
	flags.Int("max-ticks", runner.DefaultMaxTicks, "Stop after this many ticks")
	flags.Int("every", 1, "Print every n-th tick")
	flags.Bool("json", false, "Emit NDJSON growth diffs instead of progress lines")
}
