package splitsio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public splits.io API root.
const DefaultBaseURL = "https://splits.io/api/v4"

// Client is a read-only splits.io API client. All fetches are synchronous;
// cancellation and deadlines come from the caller's context and the HTTP
// client's timeout.
type Client struct {
	baseURL    string
	userAgent  string
	pageSize   int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new splits.io client. An empty baseURL selects the
// public API.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	options := defaultClientOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := checkRegistry(); err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:   baseURL,
		userAgent: options.userAgent,
		pageSize:  options.pageSize,
		httpClient: &http.Client{
			Timeout: options.timeout,
		},
		logger: logger,
	}
	if options.httpClient != nil {
		client.httpClient = options.httpClient
	}

	return client, nil
}

// get performs a GET against the API, returning the response headers and
// raw body. Any non-2xx status becomes an *APIError carrying the status,
// body and endpoint.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (http.Header, json.RawMessage, error) {
	requestURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       string(body),
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("splits.io request")

	return resp.Header, body, nil
}

// fetchSingle retrieves one resource and unwraps its singular JSON envelope.
func (c *Client) fetchSingle(ctx context.Context, kind Kind, id Identifier, params url.Values) (json.RawMessage, error) {
	spec := registry[kind]
	ident, err := spec.resolveIdentifier(id)
	if err != nil {
		return nil, err
	}

	_, body, err := c.get(ctx, spec.collection+"/"+ident, params)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MappingError{Kind: kind, Reason: "response is not a JSON object", Err: err}
	}
	raw, ok := envelope[spec.wrapperKey]
	if !ok || isNull(raw) {
		return nil, &MappingError{Kind: kind, Field: spec.wrapperKey, Reason: "missing envelope key"}
	}
	return raw, nil
}

// Game fetches a game by numeric id or shortname.
func (c *Client) Game(ctx context.Context, id Identifier) (*Game, error) {
	raw, err := c.fetchSingle(ctx, KindGame, id, nil)
	if err != nil {
		return nil, err
	}
	game, err := mapResource[Game](KindGame, raw)
	if err != nil {
		return nil, err
	}
	game.attach(c)
	return game, nil
}

// Category fetches a category by numeric id.
func (c *Client) Category(ctx context.Context, id Identifier) (*Category, error) {
	raw, err := c.fetchSingle(ctx, KindCategory, id, nil)
	if err != nil {
		return nil, err
	}
	category, err := mapResource[Category](KindCategory, raw)
	if err != nil {
		return nil, err
	}
	category.attach(c)
	return category, nil
}

// Runner fetches a runner by numeric id or username. Usernames are
// lower-cased before the request the way the server normalizes them.
func (c *Client) Runner(ctx context.Context, id Identifier) (*Runner, error) {
	raw, err := c.fetchSingle(ctx, KindRunner, id, nil)
	if err != nil {
		return nil, err
	}
	runner, err := mapResource[Runner](KindRunner, raw)
	if err != nil {
		return nil, err
	}
	runner.attach(c)
	return runner, nil
}

// Run fetches a run by numeric id, without attempt histories.
func (c *Client) Run(ctx context.Context, id Identifier) (*Run, error) {
	return c.run(ctx, id, false)
}

// HistoricRun fetches a run by numeric id with per-attempt histories
// embedded at the run and segment level.
func (c *Client) HistoricRun(ctx context.Context, id Identifier) (*Run, error) {
	return c.run(ctx, id, true)
}

func (c *Client) run(ctx context.Context, id Identifier, historic bool) (*Run, error) {
	var params url.Values
	if historic {
		params = url.Values{"historic": {"1"}}
	}
	raw, err := c.fetchSingle(ctx, KindRun, id, params)
	if err != nil {
		return nil, err
	}
	run, err := mapResource[Run](KindRun, raw)
	if err != nil {
		return nil, err
	}
	run.attach(c)
	run.setHistoric(historic)
	return run, nil
}

// AllGames fetches the full game catalog, following pagination until the
// server reports no further pages.
func (c *Client) AllGames(ctx context.Context) ([]Game, error) {
	games, err := fetchCollection[Game](ctx, c, KindGame, "games", "games", true)
	if err != nil {
		return nil, err
	}
	for i := range games {
		games[i].attach(c)
	}
	return games, nil
}
