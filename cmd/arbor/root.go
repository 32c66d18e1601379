package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor grows trees from L-system grammars",
	Long: `Arbor expands L-system grammars, interprets them with a 3D turtle into
branch trees and simulates their growth over time.

Grammars come from the built-in presets or from a directory of Markdown/YAML
documents (--dir).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "", "Directory containing grammar documents (default: built-in presets)")
	flags.Bool("debug", false, "Enable debug logging on stderr")
	flags.Bool("log-json", false, "Emit debug logs as JSON")
	flags.String("redis", "", "Redis address used as a shared sequence cache")
	flags.Int64("seed", 0, "Seed for ranged turns (0 picks one from the clock)")
}

// commonOptions reads the persistent flags.
func commonOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")
	debug, _ := flags.GetBool("debug")
	logJSON, _ := flags.GetBool("log-json")
	redisAddr, _ := flags.GetString("redis")
	seed, _ := flags.GetInt64("seed")
	return cli.Options{
		RepoPath: dir,
		Debug:    debug,
		JSONLogs: logJSON,
		RedisURL: redisAddr,
		Seed:     seed,
		Out:      cmd.OutOrStdout(),
	}
}

// addGrammarFlags registers the flags of commands that operate on one grammar.
func addGrammarFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("iterations", "n", -1, "Rewriting passes (default: the grammar's own count)")
}
