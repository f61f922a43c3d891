package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Batch text analysis & heuristic planning conductor",
	Long: `Maestro ingests free-text items from files, directories, or chat logs,
embeds and scores them, and clusters them by semantic similarity in batches.
On demand it expands a goal into a scored tree of candidate next-steps,
selects the highest-value path through it, and assigns the resulting steps
to a pool of workers by capability match.

With no arguments, launches the watch view where you can follow ingestion
and planning live.

Core capabilities:
- Embeds and importance-scores every ingested item
- Groups related items with density-based clustering
- Expands goals into bounded-depth thought trees
- Assigns plan steps to capability-matched workers`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to a config file (overrides discovery)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(versionCmd)
}
