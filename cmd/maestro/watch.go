package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/internal/ingest"
	"github.com/maestrohq/maestro/internal/tui"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live watch view",
	Long: `Open the interactive watch view: worker pool, item log, and event
stream, with a prompt for planning goals on demand. With --dir, the view
also ingests files dropped into the directory while it runs.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Directory to watch for item files")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, closer, err := buildConductor(cfg)
	if err != nil {
		return err
	}
	defer closer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watchDir != "" {
		source, err := ingest.NewDirSource(watchDir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", watchDir, err)
		}
		defer source.Close()
		go c.Run(ctx, source)
	}

	program := tui.NewProgram(c, cfg.TUI.RefreshRate)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch view: %w", err)
	}
	return nil
}
