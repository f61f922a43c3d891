package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/internal/conductor"
	"github.com/maestrohq/maestro/internal/ingest"
)

var runDir string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch a directory and ingest dropped files continuously",
	Long: `Run the ingestion pipeline against a watched directory. Every file
created or modified in the directory is read as one item. Clustering
passes run automatically as the log grows. Stop with Ctrl-C.

Examples:
  maestro run --dir ./inbox`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runDir, "dir", "", "Directory to watch for item files (required)")
	runCmd.MarkFlagRequired("dir")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, closer, err := buildConductor(cfg)
	if err != nil {
		return err
	}
	defer closer()

	source, err := ingest.NewDirSource(runDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", runDir, err)
	}
	defer source.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n\n", runDir)
	go printEvents(ctx, c.Events())

	if err := c.Run(ctx, source); err != nil && err != context.Canceled {
		return err
	}
	fmt.Println("\nStopped")
	return nil
}

// printEvents streams pipeline events to the terminal.
func printEvents(ctx context.Context, events <-chan conductor.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case conductor.EventItemIngested:
				fmt.Printf("%s item %s from %s\n", color.GreenString("+"), ev.ItemID, ev.Message)
			case conductor.EventClusterPass:
				color.Cyan("⟳ %s", ev.Message)
			case conductor.EventClusterSkipped:
				color.New(color.FgHiBlack).Println("⟳ cluster pass skipped")
			case conductor.EventBranchFailed:
				color.Red("✗ branch %q failed", ev.Message)
			}
		}
	}
}
