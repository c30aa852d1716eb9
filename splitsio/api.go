package splitsio

import (
	"context"
)

// API defines the read surface of the splits.io client
type API interface {
	// Game fetches a game by numeric id or shortname
	Game(ctx context.Context, id Identifier) (*Game, error)

	// Category fetches a category by numeric id
	Category(ctx context.Context, id Identifier) (*Category, error)

	// Runner fetches a runner by numeric id or username
	Runner(ctx context.Context, id Identifier) (*Runner, error)

	// Run fetches a run by numeric id
	Run(ctx context.Context, id Identifier) (*Run, error)

	// HistoricRun fetches a run with attempt histories embedded
	HistoricRun(ctx context.Context, id Identifier) (*Run, error)

	// AllGames fetches the full game catalog
	AllGames(ctx context.Context) ([]Game, error)
}

var _ API = (*Client)(nil)
