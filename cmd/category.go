package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/splitstats/splitsio"
)

var (
	categoryRunners bool
	categoryRuns    bool
)

// categoryCmd represents the category command
var categoryCmd = &cobra.Command{
	Use:   "category <id>",
	Short: "Look up a category by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategory,
}

func init() {
	rootCmd.AddCommand(categoryCmd)

	categoryCmd.Flags().BoolVar(&categoryRunners, "runners", false, "list the category's runners")
	categoryCmd.Flags().BoolVar(&categoryRuns, "runs", false, "list the category's runs")
}

func runCategory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	category, err := client.Category(ctx, splitsio.ID(args[0]))
	if err != nil {
		return fmt.Errorf("failed to fetch category: %w", err)
	}

	fmt.Printf("Category: %s\n", category.Name)
	fmt.Printf("ID:       %s\n", category.ID)

	if categoryRunners {
		runners, err := category.Runners(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch runners: %w", err)
		}
		fmt.Printf("\n%d runners:\n", len(runners))
		for _, runner := range runners {
			fmt.Printf("  %s\n", runner.DisplayName)
		}
	}

	if categoryRuns {
		runs, err := category.Runs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch runs: %w", err)
		}
		printRunTable(runs)
	}

	return nil
}
