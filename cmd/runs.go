package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/splitstats/filter"
	"github.com/s0up4200/splitstats/splitsio"
)

var (
	runsCategory string
	runsFilter   string
	runsLimit    int
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs <game>",
	Short: "List a game's runs",
	Long: `List every run of a game, or of one of its categories, optionally
filtered with an expression:

  splitstats runs sms --filter 'realtime_ms < minutes(80)'
  splitstats runs sms --category 86832 --filter 'attempts > 50'

--category must name a category of the given game; a category id belonging
to a different game is rejected.

Expressions see realtime_ms, gametime_ms, has_gametime, attempts, program,
category, game, segment_count and duration helpers like minutes(n).`,
	Args: cobra.ExactArgs(1),
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsCategory, "category", "", "restrict to one category id")
	runsCmd.Flags().StringVar(&runsFilter, "filter", "", "filter expression")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "print at most N runs (0 prints all)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Compile the filter first so a bad expression fails before any fetch.
	var runFilter *filter.Filter
	if runsFilter != "" {
		var err error
		runFilter, err = filter.Compile(runsFilter)
		if err != nil {
			return err
		}
	}

	game, err := client.Game(ctx, resourceIdentifier(args[0]))
	if err != nil {
		return fmt.Errorf("failed to fetch game: %w", err)
	}

	var runs []splitsio.Run
	if runsCategory != "" {
		category, err := findGameCategory(ctx, game, runsCategory)
		if err != nil {
			return err
		}
		runs, err = category.Runs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch runs: %w", err)
		}
	} else {
		runs, err = game.Runs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch runs: %w", err)
		}
	}

	total := len(runs)
	if runFilter != nil {
		runs, err = runFilter.Apply(runs)
		if err != nil {
			return err
		}
	}

	shown := len(runs)
	if runsLimit > 0 && runsLimit < shown {
		shown = runsLimit
	}
	printRunTable(runs[:shown])
	if runFilter != nil {
		fmt.Printf("%d of %d runs matched '%s'\n", len(runs), total, runFilter.Expression())
	}

	return nil
}

// findGameCategory resolves a category id within a game's own categories
func findGameCategory(ctx context.Context, game *splitsio.Game, id string) (*splitsio.Category, error) {
	categories, err := game.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("game %q has no category %s", game.Name, id)
}

// printRunTable prints runs in server order
func printRunTable(runs []splitsio.Run) {
	printRule(76)
	fmt.Printf("%-8s %-28s %-12s %-10s %s\n", "ID", "CATEGORY", "REALTIME", "ATTEMPTS", "PROGRAM")
	printRule(76)
	for _, run := range runs {
		category := "-"
		if run.Category != nil {
			category = truncate(run.Category.Name, 26)
		}
		attempts := "-"
		if run.Attempts != nil {
			attempts = fmt.Sprintf("%d", *run.Attempts)
		}
		fmt.Printf("%-8s %-28s %-12s %-10s %s\n",
			run.ID, category, formatMS(run.RealtimeDurationMS), attempts, run.Program)
	}
	printRule(76)
}
