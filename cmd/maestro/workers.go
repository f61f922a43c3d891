package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "Show the configured worker pool",
	Long: `List the workers plan steps can be assigned to, with their
capability tags and performance scores. The roster comes from the
configured workers.yaml, or the built-in pool when none is set.`,
	RunE: runWorkers,
}

func runWorkers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	workers, err := loadWorkers(cfg)
	if err != nil {
		return err
	}

	source := cfg.Roster.Path
	if source == "" {
		source = "built-in roster"
	}
	color.New(color.Bold).Printf("Workers (%s)\n", source)

	for _, w := range workers {
		fmt.Printf("  %s %s  %s\n",
			color.GreenString(w.ID),
			w.Name,
			color.New(color.FgHiBlack).Sprintf("performance %.2f", w.PerformanceScore))
		fmt.Printf("      %s\n", strings.Join(w.Capabilities, ", "))
	}
	return nil
}
