package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/pkg/models"
)

var planDepth int

var planCmd = &cobra.Command{
	Use:   "plan \"goal\"",
	Short: "Expand a goal into steps and assign them to workers",
	Long: `Expand a goal into a bounded-depth tree of candidate next-steps,
select the highest-scoring path through it, and assign the path's steps
to the worker pool by capability match.

Examples:
  maestro plan "build a profitable app"
  maestro plan --depth 2 "fix the flaky integration tests"`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planDepth, "depth", 0, "Maximum tree depth (default from config)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if planDepth > 0 {
		cfg.Planner.MaxDepth = planDepth
	}

	c, closer, err := buildConductor(cfg)
	if err != nil {
		return err
	}
	defer closer()

	goal := args[0]
	plan, err := c.Orchestrate(context.Background(), goal)
	if err != nil {
		return fmt.Errorf("plan %q: %w", goal, err)
	}

	printPlan(plan)
	return nil
}

// printPlan renders a plan for the terminal.
func printPlan(plan *models.PlanResult) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	bold.Printf("Plan %s\n", plan.ID)
	fmt.Printf("Goal: %s\n", plan.Goal)
	dim.Printf("%d candidate(s) explored, path score %.3f\n\n", len(plan.Nodes), plan.PathScore)

	bold.Println("Selected path:")
	for i, step := range plan.Path {
		indent := strings.Repeat("  ", i)
		if i == 0 {
			fmt.Printf("%s%s\n", indent, step)
			continue
		}
		marker := color.YellowString("·")
		if worker, ok := plan.Assignments[step]; ok {
			marker = color.GreenString("→ " + worker)
		}
		fmt.Printf("%s%s  %s\n", indent, step, marker)
	}

	unassigned := plan.Unassigned()
	if len(unassigned) > 0 {
		fmt.Println()
		color.Yellow("No eligible worker for:")
		for _, step := range unassigned {
			fmt.Printf("  - %s\n", step)
		}
	}
}
