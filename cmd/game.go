package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/splitstats/splitsio"
)

var gameFull bool

// gameCmd represents the game command
var gameCmd = &cobra.Command{
	Use:   "game <id|shortname>",
	Short: "Look up a game by id or shortname",
	Args:  cobra.ExactArgs(1),
	RunE:  runGame,
}

func init() {
	rootCmd.AddCommand(gameCmd)

	gameCmd.Flags().BoolVar(&gameFull, "full", false, "also fetch the game's categories, runners and runs")
}

func runGame(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	game, err := client.Game(ctx, resourceIdentifier(args[0]))
	if err != nil {
		return fmt.Errorf("failed to fetch game: %w", err)
	}

	fmt.Printf("Game:      %s\n", game.Name)
	fmt.Printf("ID:        %s\n", game.ID)
	if game.Shortname != nil {
		fmt.Printf("Shortname: %s\n", *game.Shortname)
	}
	fmt.Printf("Created:   %s\n", game.CreatedAt)

	if !gameFull {
		return nil
	}

	// The library is synchronous; the three independent collection fetches
	// are issued concurrently here instead.
	var (
		categories []splitsio.Category
		runners    []splitsio.Runner
		runs       []splitsio.Run
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	g.Go(func() error {
		var err error
		categories, err = game.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		runners, err = game.Runners(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		runs, err = game.Runs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fetch game details: %w", err)
	}

	fmt.Printf("\n%d categories, %d runners, %d runs\n\n", len(categories), len(runners), len(runs))

	perCategory := make(map[string]int, len(categories))
	for _, run := range runs {
		if run.Category != nil {
			perCategory[run.Category.ID]++
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return perCategory[categories[i].ID] > perCategory[categories[j].ID]
	})

	printRule(58)
	fmt.Printf("%-10s %-38s %s\n", "ID", "CATEGORY", "RUNS")
	printRule(58)
	for _, category := range categories {
		fmt.Printf("%-10s %-38s %d\n", category.ID, truncate(category.Name, 36), perCategory[category.ID])
	}
	printRule(58)

	return nil
}
