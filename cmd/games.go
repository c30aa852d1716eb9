package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var gamesLimit int

// gamesCmd represents the games command
var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List every game on splits.io",
	Long: `List the full splits.io game catalog. The catalog spans tens of
thousands of games; all pages are fetched before anything is printed.`,
	RunE: runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)

	gamesCmd.Flags().IntVar(&gamesLimit, "limit", 0, "print at most N games (0 prints all)")
}

func runGames(cmd *cobra.Command, args []string) error {
	games, err := client.AllGames(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch games: %w", err)
	}

	shown := len(games)
	if gamesLimit > 0 && gamesLimit < shown {
		shown = gamesLimit
	}

	printRule(70)
	fmt.Printf("%-10s %-44s %s\n", "ID", "NAME", "SHORTNAME")
	printRule(70)
	for _, game := range games[:shown] {
		shortname := "-"
		if game.Shortname != nil {
			shortname = *game.Shortname
		}
		fmt.Printf("%-10s %-44s %s\n", game.ID, truncate(game.Name, 42), shortname)
	}
	printRule(70)
	fmt.Printf("%d of %d games\n", shown, len(games))

	return nil
}
