package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	runnerRuns  bool
	runnerPBs   bool
	runnerGames bool
)

// runnerCmd represents the runner command
var runnerCmd = &cobra.Command{
	Use:   "runner <name|id>",
	Short: "Look up a runner by username or id",
	Long: `Look up a splits.io runner. Usernames are matched the way the server
matches them: lower-cased, so "BigMikey_" and "bigmikey_" are the same runner.`,
	Args: cobra.ExactArgs(1),
	RunE: runRunner,
}

func init() {
	rootCmd.AddCommand(runnerCmd)

	runnerCmd.Flags().BoolVar(&runnerRuns, "runs", false, "list the runner's runs")
	runnerCmd.Flags().BoolVar(&runnerPBs, "pbs", false, "list the runner's personal bests")
	runnerCmd.Flags().BoolVar(&runnerGames, "games", false, "list the runner's games")
}

func runRunner(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	runner, err := client.Runner(ctx, resourceIdentifier(args[0]))
	if err != nil {
		return fmt.Errorf("failed to fetch runner: %w", err)
	}

	fmt.Printf("Runner: %s\n", runner.DisplayName)
	fmt.Printf("ID:     %s\n", runner.ID)
	fmt.Printf("Name:   %s\n", runner.Name)
	if runner.TwitchName != nil {
		fmt.Printf("Twitch: %s\n", *runner.TwitchName)
	}

	if runnerGames {
		games, err := runner.Games(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch games: %w", err)
		}
		fmt.Printf("\n%d games:\n", len(games))
		for _, game := range games {
			fmt.Printf("  %s\n", game.Name)
		}
	}

	if runnerPBs {
		pbs, err := runner.PBs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch personal bests: %w", err)
		}
		fmt.Printf("\nPersonal bests:\n")
		printRunTable(pbs)
	}

	if runnerRuns {
		runs, err := runner.Runs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch runs: %w", err)
		}
		fmt.Printf("\nRuns:\n")
		printRunTable(runs)
	}

	return nil
}
