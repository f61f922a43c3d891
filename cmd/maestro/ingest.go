package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/internal/ingest"
	"github.com/maestrohq/maestro/pkg/models"
)

var ingestCluster bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest text files into the item log",
	Long: `Read one item per non-empty line from the given files, embed and
importance-score each, and persist them. With --cluster, run a clustering
pass over the whole log afterwards and print the discovered groups.

Examples:
  maestro ingest notes.txt
  maestro ingest --cluster inbox.txt standup.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestCluster, "cluster", false, "Run a clustering pass after ingesting")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, closer, err := buildConductor(cfg)
	if err != nil {
		return err
	}
	defer closer()

	total := 0
	for _, path := range args {
		n, err := ingestFile(c.Ingest, path)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %d item(s)\n", color.GreenString("✓"), path, n)
		total += n
	}
	fmt.Printf("\nIngested %d item(s)\n", total)

	if !ingestCluster {
		return nil
	}

	result, err := c.ClusterNow()
	if err != nil {
		return fmt.Errorf("cluster: %w", err)
	}
	if !result.Performed() {
		color.Yellow("Too few items to cluster")
		return nil
	}

	printClusters(result.Clusters)
	return nil
}

// ingestFile feeds one item per non-empty line into the pipeline.
func ingestFile(ingestFn func(ingest.RawItem) (*models.Item, error), path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if _, err := ingestFn(ingest.RawItem{
			Source:    source,
			Text:      text,
			Timestamp: time.Now(),
		}); err != nil {
			return count, fmt.Errorf("ingest line from %s: %w", path, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read %s: %w", path, err)
	}
	return count, nil
}

// printClusters renders a cluster summary.
func printClusters(clusters []*models.Cluster) {
	bold := color.New(color.Bold)

	fmt.Println()
	if len(clusters) == 0 {
		color.Yellow("No dense groups found (all noise)")
		return
	}

	bold.Printf("%d cluster(s):\n", len(clusters))
	for _, cl := range clusters {
		fmt.Printf("  %s %s  %s\n",
			color.CyanString("c%d", cl.ID),
			cl.Theme,
			color.New(color.FgHiBlack).Sprintf("%d item(s), cohesion %.2f", cl.Size, cl.QualityScore))
	}
}
