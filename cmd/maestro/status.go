package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted pipeline state",
	Long: `Display what the pipeline has accumulated so far.

Shows:
  - The configured brainstormer and API key source
  - Total ingested items
  - The latest clustering pass and its groups
  - Recent plans and their assignments`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	bold.Println("Brainstormer")
	mode := cfg.Brainstorm.Mode
	if mode == "" {
		mode = "template"
	}
	fmt.Printf("  mode %s\n", mode)
	if mode == "claude" {
		key, _ := config.GetAPIKey(cfg)
		fmt.Printf("  key %s %s\n",
			config.MaskAPIKey(key),
			dim.Sprintf("(from %s)", config.GetAPIKeySource(cfg)))
	}
	fmt.Println()

	count, err := st.ItemCount()
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	bold.Println("Items")
	fmt.Printf("  %d ingested\n", count)
	dim.Printf("  db: %s\n\n", st.Path())

	passID, clusters, err := st.LatestClusters()
	if err != nil {
		return fmt.Errorf("latest clusters: %w", err)
	}
	bold.Println("Latest clustering pass")
	if passID == "" {
		dim.Println("  (none yet)")
	} else {
		fmt.Printf("  pass %s, %d cluster(s)\n", passID, len(clusters))
		for _, cl := range clusters {
			fmt.Printf("    %s %s  %s\n",
				color.CyanString("c%d", cl.ID),
				cl.Theme,
				dim.Sprintf("%d item(s), cohesion %.2f", cl.Size, cl.QualityScore))
		}
	}
	fmt.Println()

	plans, err := st.RecentPlans(5)
	if err != nil {
		return fmt.Errorf("recent plans: %w", err)
	}
	bold.Println("Recent plans")
	if len(plans) == 0 {
		dim.Println("  (none yet)")
		return nil
	}
	for _, p := range plans {
		fmt.Printf("  %s %s  %s\n",
			color.GreenString(p.ID),
			p.Goal,
			dim.Sprintf("%d step(s), %d assigned, score %.3f",
				len(p.Path)-1, len(p.Assignments), p.PathScore))
	}
	return nil
}
