package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/splitstats/splitsio"
)

var runHistoric bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Inspect an uploaded run",
	Long: `Inspect a run's timing and segments. With --historic the run is fetched
with its full per-attempt history and an attempt summary is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runHistoric, "historic", false, "fetch per-attempt histories")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var (
		run *splitsio.Run
		err error
	)
	if runHistoric {
		run, err = client.HistoricRun(ctx, splitsio.ID(args[0]))
	} else {
		run, err = client.Run(ctx, splitsio.ID(args[0]))
	}
	if err != nil {
		return fmt.Errorf("failed to fetch run: %w", err)
	}

	fmt.Printf("Run:      %s\n", run.ID)
	if run.Game != nil {
		fmt.Printf("Game:     %s\n", run.Game.Name)
	}
	if run.Category != nil {
		fmt.Printf("Category: %s\n", run.Category.Name)
	}
	fmt.Printf("Realtime: %s\n", formatMS(run.RealtimeDurationMS))
	fmt.Printf("Gametime: %s\n", formatOptionalMS(run.GametimeDurationMS))
	if run.Attempts != nil {
		fmt.Printf("Attempts: %d\n", *run.Attempts)
	}
	fmt.Printf("Program:  %s\n", run.Program)

	if len(run.Segments) > 0 {
		fmt.Println()
		printRule(72)
		fmt.Printf("%-4s %-40s %-12s %s\n", "#", "SEGMENT", "REALTIME", "BEST")
		printRule(72)
		for _, segment := range run.Segments {
			name := segment.DisplayName
			if name == "" {
				name = segment.Name
			}
			gold := ""
			if segment.RealtimeGold {
				gold = " *"
			}
			fmt.Printf("%-4d %-40s %-12s %s%s\n",
				segment.SegmentNumber,
				truncate(name, 38),
				formatMS(segment.RealtimeDurationMS),
				formatOptionalMS(segment.RealtimeShortestDurationMS),
				gold,
			)
		}
		printRule(72)
	}

	if runHistoric {
		histories, err := run.Histories()
		if err != nil {
			return err
		}
		printHistorySummary(histories)
	}

	return nil
}

// printHistorySummary prints aggregate statistics over a run's recorded
// attempts.
func printHistorySummary(histories []splitsio.History) {
	var (
		finished int
		totalMS  int64
		bestMS   int64
		worstMS  int64
	)
	for _, history := range histories {
		if history.RealtimeDurationMS == nil || *history.RealtimeDurationMS == 0 {
			continue
		}
		ms := *history.RealtimeDurationMS
		totalMS += ms
		if finished == 0 || ms < bestMS {
			bestMS = ms
		}
		if ms > worstMS {
			worstMS = ms
		}
		finished++
	}

	fmt.Printf("\nAttempt history: %d recorded, %d finished\n", len(histories), finished)
	if finished == 0 {
		return
	}
	fmt.Printf("Best:  %s\n", formatMS(bestMS))
	fmt.Printf("Worst: %s\n", formatMS(worstMS))
	fmt.Printf("Mean:  %s\n", formatMS(totalMS/int64(finished)))
}
