// Package splitsio provides a read-only client for the splits.io REST API.
//
// splits.io hosts speedrunning statistics: games, their categories, the
// runners who race them, and uploaded runs with per-segment timing. This
// package maps that resource graph onto typed Go records and lets callers
// navigate between them without constructing endpoints by hand.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: the HTTP transport plus one typed fetch accessor per resource
//     kind
//   - Registry: a static table declaring each kind's endpoint, alternate
//     lookup key, and relationship collections
//   - Mapper: a schema-driven routine converting API JSON into typed records
//   - Collection fetcher: transparent page-following for paginated endpoints
//
// # Usage
//
// Create a client and fetch resources by id or alternate key:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := splitsio.NewClient("", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	game, err := client.Game(ctx, splitsio.Key("sms"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Navigate relationships on demand; each call is one fresh fetch.
//	categories, err := game.Categories(ctx)
//
// Runs carry attempt histories only when fetched in historic mode:
//
//	run, err := client.HistoricRun(ctx, splitsio.ID("c198"))
//	histories, err := run.Histories()
//
// # Identifiers
//
// Resources are addressed by their canonical numeric id via splitsio.ID, or
// by an alternate human-readable key via splitsio.Key where the API supports
// one: a game's shortname (exact match) or a runner's username (lower-cased
// before the request). Categories and runs accept numeric ids only.
//
// # Error Handling
//
// The package defines several error types:
//
//   - APIError: a failed request, carrying HTTP status, body and endpoint
//   - MappingError: a response that did not match the expected shape
//   - ErrNotHistoric: historic-only data requested from a plain-mode run
//   - RegistryError: an internal registry inconsistency, checked at
//     NewClient time
//
// Errors propagate unchanged; nothing is retried or silently defaulted, and
// a collection fetch either fully succeeds or fails as a whole.
package splitsio
