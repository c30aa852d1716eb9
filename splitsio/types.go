package splitsio

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Every record below is an immutable snapshot of a server-side resource at
// fetch time. Re-fetching the same id yields a new, independent instance.
// Timestamps are opaque ISO-8601 strings; parsing them is a caller concern.
// Nullable fields are pointers so "absent" stays distinguishable from zero.

// Game is a container for categories and runs. Its alternate lookup key is
// its speedrun.com shortname, e.g. "sms", "sm64", "portal".
type Game struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Shortname *string `json:"shortname"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`

	categories []Category
	client     *Client
}

// UnmarshalJSON decodes the game, capturing the categories list the game
// payload embeds.
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	aux := struct {
		*plain
		Categories []Category `json:"categories"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.categories = aux.Categories
	return nil
}

// CanonicalID returns the identifier splits.io itself uses for the game:
// the shortname when one exists, otherwise the name.
func (g *Game) CanonicalID() string {
	if g.Shortname != nil {
		return *g.Shortname
	}
	return g.Name
}

// Categories returns the game's categories, preferring the list embedded in
// the game payload and fetching the relationship collection only when the
// payload carried none.
func (g *Game) Categories(ctx context.Context) ([]Category, error) {
	if g.categories != nil {
		return g.categories, nil
	}
	return related[Category](ctx, g.client, KindGame, "categories", g.ID)
}

// Runners fetches every runner with at least one run of the game.
func (g *Game) Runners(ctx context.Context) ([]Runner, error) {
	return related[Runner](ctx, g.client, KindGame, "runners", g.ID)
}

// Runs fetches every run of the game.
func (g *Game) Runs(ctx context.Context) ([]Run, error) {
	return related[Run](ctx, g.client, KindGame, "runs", g.ID)
}

// CategoryCount pairs a category with its number of runs.
type CategoryCount struct {
	Category Category
	NumRuns  int
}

// CategoryCounts returns the game's categories ranked by decreasing number
// of runs. It costs one runs fetch, plus one categories fetch when the game
// payload embedded no category list.
func (g *Game) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	categories, err := g.Categories(ctx)
	if err != nil {
		return nil, err
	}
	runs, err := g.Runs(ctx)
	if err != nil {
		return nil, err
	}
	perCategory := make(map[string]int, len(categories))
	for _, run := range runs {
		if run.Category != nil {
			perCategory[run.Category.ID]++
		}
	}
	counts := make([]CategoryCount, 0, len(categories))
	for _, category := range categories {
		counts = append(counts, CategoryCount{Category: category, NumRuns: perCategory[category.ID]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].NumRuns > counts[j].NumRuns
	})
	return counts, nil
}

// Category is a ruleset for a game (Any%, 100%, MST, ...) and a container
// for runs. It is addressable by numeric id only.
type Category struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`

	client *Client
}

// Runners fetches every runner with at least one run in the category.
func (c *Category) Runners(ctx context.Context) ([]Runner, error) {
	return related[Runner](ctx, c.client, KindCategory, "runners", c.ID)
}

// Runs fetches every run in the category.
func (c *Category) Runs(ctx context.Context) ([]Run, error) {
	return related[Run](ctx, c.client, KindCategory, "runs", c.ID)
}

// Runner is a user with at least one run tied to their account. Its
// alternate lookup key is the username, lower-cased before use to match the
// server's own normalization.
type Runner struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Avatar      *string `json:"avatar"`
	TwitchID    *string `json:"twitch_id"`
	TwitchName  *string `json:"twitch_name"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`

	client *Client
}

// CanonicalID returns the identifier splits.io itself uses for the runner:
// the all-lowercase username.
func (r *Runner) CanonicalID() string {
	return strings.ToLower(r.Name)
}

// Runs fetches the runner's runs.
func (r *Runner) Runs(ctx context.Context) ([]Run, error) {
	return related[Run](ctx, r.client, KindRunner, "runs", r.ID)
}

// PBs fetches the runner's personal best runs.
func (r *Runner) PBs(ctx context.Context) ([]Run, error) {
	return related[Run](ctx, r.client, KindRunner, "pbs", r.ID)
}

// Games fetches the games the runner has at least one run of.
func (r *Runner) Games(ctx context.Context) ([]Game, error) {
	return related[Game](ctx, r.client, KindRunner, "games", r.ID)
}

// Categories fetches the categories the runner has participated in.
func (r *Runner) Categories(ctx context.Context) ([]Category, error) {
	return related[Category](ctx, r.client, KindRunner, "categories", r.ID)
}

// Run maps 1:1 to an uploaded splits file. It is addressable by numeric id
// only. A run fetched through HistoricRun additionally carries per-attempt
// histories on itself and each of its segments.
type Run struct {
	ID                  string    `json:"id"`
	SrdcID              *string   `json:"srdc_id"`
	RealtimeDurationMS  int64     `json:"realtime_duration_ms"`
	RealtimeSumOfBestMS *int64    `json:"realtime_sum_of_best_ms"`
	GametimeDurationMS  *int64    `json:"gametime_duration_ms"`
	GametimeSumOfBestMS *int64    `json:"gametime_sum_of_best_ms"`
	DefaultTiming       string    `json:"default_timing"`
	Program             string    `json:"program"`
	Attempts            *int64    `json:"attempts"`
	ImageURL            *string   `json:"image_url"`
	VideoURL            *string   `json:"video_url"`
	ParsedAt            *string   `json:"parsed_at"`
	CreatedAt           string    `json:"created_at"`
	UpdatedAt           string    `json:"updated_at"`
	Game                *Game     `json:"game"`
	Category            *Category `json:"category"`
	Runners             []Runner  `json:"runners"`
	Segments            []Segment `json:"segments"`

	histories []History
	historic  bool
	client    *Client
}

// UnmarshalJSON decodes the run, keeping the embedded attempt histories
// behind the historic-mode accessor.
func (r *Run) UnmarshalJSON(data []byte) error {
	type plain Run
	aux := struct {
		*plain
		Histories []History `json:"histories"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.histories = aux.Histories
	return nil
}

// IsHistoric reports whether the run was fetched in historic mode.
func (r *Run) IsHistoric() bool {
	return r.historic
}

// Histories returns the run's per-attempt history. It fails with
// ErrNotHistoric when the run was not fetched in historic mode; use
// Historic to refetch it with histories embedded.
func (r *Run) Histories() ([]History, error) {
	if !r.historic {
		return nil, fmt.Errorf("run %s: %w", r.ID, ErrNotHistoric)
	}
	return r.histories, nil
}

// Historic refetches the run in historic mode, returning a new instance
// with attempt histories embedded at the run and segment level.
func (r *Run) Historic(ctx context.Context) (*Run, error) {
	if r.client == nil {
		return nil, fmt.Errorf("run %s: %w", r.ID, ErrNotAttached)
	}
	return r.client.HistoricRun(ctx, ID(r.ID))
}

// RealtimeDuration returns the run's realtime duration.
func (r *Run) RealtimeDuration() time.Duration {
	return time.Duration(r.RealtimeDurationMS) * time.Millisecond
}

// GametimeDuration returns the run's gametime duration and whether the run
// has one.
func (r *Run) GametimeDuration() (time.Duration, bool) {
	if r.GametimeDurationMS == nil {
		return 0, false
	}
	return time.Duration(*r.GametimeDurationMS) * time.Millisecond, true
}

// Segment is a single piece of a run, also called a split. Segments exist
// only embedded within their owning run.
type Segment struct {
	ID                         string `json:"id"`
	Name                       string `json:"name"`
	DisplayName                string `json:"display_name"`
	SegmentNumber              int    `json:"segment_number"`
	RealtimeStartMS            int64  `json:"realtime_start_ms"`
	RealtimeDurationMS         int64  `json:"realtime_duration_ms"`
	RealtimeEndMS              int64  `json:"realtime_end_ms"`
	RealtimeShortestDurationMS *int64 `json:"realtime_shortest_duration_ms"`
	RealtimeGold               bool   `json:"realtime_gold"`
	RealtimeSkipped            bool   `json:"realtime_skipped"`
	RealtimeReduced            bool   `json:"realtime_reduced"`
	GametimeStartMS            int64  `json:"gametime_start_ms"`
	GametimeDurationMS         *int64 `json:"gametime_duration_ms"`
	GametimeEndMS              int64  `json:"gametime_end_ms"`
	GametimeShortestDurationMS *int64 `json:"gametime_shortest_duration_ms"`
	GametimeGold               bool   `json:"gametime_gold"`
	GametimeSkipped            bool   `json:"gametime_skipped"`
	GametimeReduced            bool   `json:"gametime_reduced"`

	histories []History
	historic  bool
}

// UnmarshalJSON decodes the segment, keeping the embedded attempt histories
// behind the historic-mode accessor.
func (s *Segment) UnmarshalJSON(data []byte) error {
	type plain Segment
	aux := struct {
		*plain
		Histories []History `json:"histories"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.histories = aux.Histories
	return nil
}

// Histories returns the segment's per-attempt history. It fails with
// ErrNotHistoric when the owning run was not fetched in historic mode.
func (s *Segment) Histories() ([]History, error) {
	if !s.historic {
		return nil, fmt.Errorf("segment %s: %w", s.Name, ErrNotHistoric)
	}
	return s.histories, nil
}

// RealtimeDuration returns the segment's realtime duration.
func (s *Segment) RealtimeDuration() time.Duration {
	return time.Duration(s.RealtimeDurationMS) * time.Millisecond
}

// History is one recorded attempt of a run or segment. Histories exist only
// embedded within a run fetched in historic mode.
type History struct {
	AttemptNumber      int     `json:"attempt_number"`
	RealtimeDurationMS *int64  `json:"realtime_duration_ms"`
	GametimeDurationMS *int64  `json:"gametime_duration_ms"`
	StartedAt          *string `json:"started_at"`
	EndedAt            *string `json:"ended_at"`
}

// RealtimeDuration returns the attempt's realtime duration and whether one
// was recorded.
func (h *History) RealtimeDuration() (time.Duration, bool) {
	if h.RealtimeDurationMS == nil {
		return 0, false
	}
	return time.Duration(*h.RealtimeDurationMS) * time.Millisecond, true
}

// GametimeDuration returns the attempt's gametime duration and whether one
// was recorded.
func (h *History) GametimeDuration() (time.Duration, bool) {
	if h.GametimeDurationMS == nil {
		return 0, false
	}
	return time.Duration(*h.GametimeDurationMS) * time.Millisecond, true
}

// attach wires fetched records to the client that produced them so
// relationship accessors can issue follow-up fetches.

func (g *Game) attach(c *Client) {
	g.client = c
	for i := range g.categories {
		g.categories[i].attach(c)
	}
}

func (cat *Category) attach(c *Client) {
	cat.client = c
}

func (r *Runner) attach(c *Client) {
	r.client = c
}

func (r *Run) attach(c *Client) {
	r.client = c
	if r.Game != nil {
		r.Game.attach(c)
	}
	if r.Category != nil {
		r.Category.attach(c)
	}
	for i := range r.Runners {
		r.Runners[i].attach(c)
	}
}

// setHistoric marks the run and its segments as carrying attempt histories.
func (r *Run) setHistoric(historic bool) {
	r.historic = historic
	for i := range r.Segments {
		r.Segments[i].historic = historic
	}
}
