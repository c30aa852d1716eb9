package splitsio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	gameFixture = `{"game": {
		"id": "15",
		"name": "Super Mario Sunshine",
		"shortname": "sms",
		"created_at": "2014-03-23T06:46:36.000Z",
		"updated_at": "2017-03-05T21:06:10.000Z"
	}}`

	categoryFixture = `{"category": {
		"id": "86832",
		"name": "No ACE",
		"created_at": "2018-07-18T01:46:55.350Z",
		"updated_at": "2018-07-18T01:46:55.350Z"
	}}`

	runnerFixture = `{"runner": {
		"id": "44235",
		"name": "bigmikey_",
		"display_name": "BigMikey_",
		"avatar": "https://splits.io/avatars/44235.png",
		"twitch_id": "67717300",
		"twitch_name": "bigmikey_",
		"created_at": "2018-07-11T18:01:25.350Z",
		"updated_at": "2019-03-17T02:50:10.350Z"
	}}`
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "splitstats", client.userAgent)
	assert.Equal(t, 0, client.pageSize)
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("https://example.com/api/v4/", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/v4", client.baseURL)
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("", zerolog.Nop(), WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with page size", func(t *testing.T) {
		client, err := NewClient("", zerolog.Nop(), WithPageSize(50))
		require.NoError(t, err)
		assert.Equal(t, 50, client.pageSize)
	})

	t.Run("with user agent", func(t *testing.T) {
		client, err := NewClient("", zerolog.Nop(), WithUserAgent("splitstats/1.2.3"))
		require.NoError(t, err)
		assert.Equal(t, "splitstats/1.2.3", client.userAgent)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("", zerolog.Nop(), WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})
}

func TestGameByIDAndShortname(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/15", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, gameFixture)
	})
	mux.HandleFunc("/games/sms", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, gameFixture)
	})
	client, _ := newTestClient(t, mux)

	ctx := context.Background()
	byID, err := client.Game(ctx, ID("15"))
	require.NoError(t, err)
	byKey, err := client.Game(ctx, Key("sms"))
	require.NoError(t, err)

	// id and alternate key resolve to field-for-field identical records
	assert.Equal(t, byID, byKey)
	assert.Equal(t, "15", byKey.ID)
	assert.Equal(t, "Super Mario Sunshine", byKey.Name)
	require.NotNil(t, byKey.Shortname)
	assert.Equal(t, "sms", *byKey.Shortname)
	assert.Equal(t, "sms", byKey.CanonicalID())
}

func TestCategoryByID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories/86832", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, categoryFixture)
	})
	client, _ := newTestClient(t, mux)

	category, err := client.Category(context.Background(), ID("86832"))
	require.NoError(t, err)
	assert.Equal(t, "No ACE", category.Name)
}

func TestRunnerLookupIsCaseFolded(t *testing.T) {
	var requestedPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/runners/bigmikey_", func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		writeJSON(t, w, runnerFixture)
	})
	client, _ := newTestClient(t, mux)

	ctx := context.Background()
	mixed, err := client.Runner(ctx, Key("BigMikey_"))
	require.NoError(t, err)
	assert.Equal(t, "/runners/bigmikey_", requestedPath)

	lower, err := client.Runner(ctx, Key("bigmikey_"))
	require.NoError(t, err)

	assert.Equal(t, mixed, lower)
	require.NotNil(t, mixed.TwitchName)
	assert.Equal(t, "bigmikey_", *mixed.TwitchName)
	assert.Equal(t, "bigmikey_", mixed.CanonicalID())
}

func TestFetchIsIdempotent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/sms", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, gameFixture)
	})
	client, _ := newTestClient(t, mux)

	ctx := context.Background()
	first, err := client.Game(ctx, Key("sms"))
	require.NoError(t, err)
	second, err := client.Game(ctx, Key("sms"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)

	// instances are independent snapshots
	first.Name = "mutated"
	assert.Equal(t, "Super Mario Sunshine", second.Name)
}

func TestAPIErrorPropagates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/nope", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":404,"error":"Not Found"}`, http.StatusNotFound)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Game(context.Background(), Key("nope"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "games/nope", apiErr.Endpoint)
	assert.Contains(t, apiErr.Body, "Not Found")
}

func TestMissingEnvelopeKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/sms", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"games": []}`)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Game(context.Background(), Key("sms"))
	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "game", mapErr.Field)
}

// historicRunBody builds a run fixture with the given number of attempt
// histories, numbered newest first the way the API returns them.
func historicRunBody(t *testing.T, attempts int, historic bool) []byte {
	t.Helper()

	histories := make([]map[string]any, 0, attempts)
	for i := 0; i < attempts; i++ {
		entry := map[string]any{
			"attempt_number":       attempts - i,
			"realtime_duration_ms": 1495000 + i*1000,
		}
		if i%2 == 0 {
			entry["started_at"] = "2019-01-01T00:00:00.000Z"
			entry["ended_at"] = "2019-01-01T00:25:00.000Z"
		}
		histories = append(histories, entry)
	}

	segment := map[string]any{
		"id":                   "c198a25f-9f8a-43cd-92ab-472a952f9336",
		"name":                 "Bianco 1",
		"display_name":         "Bianco 1",
		"segment_number":       0,
		"realtime_start_ms":    0,
		"realtime_duration_ms": 200000,
		"realtime_end_ms":      200000,
		"realtime_gold":        false,
		"realtime_skipped":     false,
		"realtime_reduced":     false,
	}
	if historic {
		segment["histories"] = histories
	}

	run := map[string]any{
		"id":                   "8mqz",
		"srdc_id":              "yv6o2y8z",
		"realtime_duration_ms": 1495000,
		"default_timing":       "real",
		"program":              "livesplit",
		"attempts":             attempts,
		"created_at":           "2019-03-01T00:00:00.000Z",
		"updated_at":           "2019-03-01T00:00:00.000Z",
		"runners":              []map[string]any{},
		"segments":             []map[string]any{segment},
	}
	if historic {
		run["histories"] = histories
	}

	body, err := json.Marshal(map[string]any{"run": run})
	require.NoError(t, err)
	return body
}

func TestHistoricModeGating(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/runs/8mqz", func(w http.ResponseWriter, r *http.Request) {
		historic := r.URL.Query().Get("historic") == "1"
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write(historicRunBody(t, 90, historic))
		require.NoError(t, err)
	})
	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	t.Run("plain run refuses historic accessors", func(t *testing.T) {
		run, err := client.Run(ctx, ID("8mqz"))
		require.NoError(t, err)
		assert.False(t, run.IsHistoric())

		_, err = run.Histories()
		require.ErrorIs(t, err, ErrNotHistoric)

		require.Len(t, run.Segments, 1)
		_, err = run.Segments[0].Histories()
		require.ErrorIs(t, err, ErrNotHistoric)
	})

	t.Run("historic run carries attempt histories", func(t *testing.T) {
		run, err := client.HistoricRun(ctx, ID("8mqz"))
		require.NoError(t, err)
		assert.True(t, run.IsHistoric())

		histories, err := run.Histories()
		require.NoError(t, err)
		require.Len(t, histories, 90)
		assert.Equal(t, 90, histories[0].AttemptNumber)
		assert.Equal(t, 89, histories[1].AttemptNumber)
		require.NotNil(t, histories[1].RealtimeDurationMS)
		assert.Equal(t, int64(1496000), *histories[1].RealtimeDurationMS)

		// started_at / ended_at round-trip independently
		assert.NotNil(t, histories[0].StartedAt)
		assert.Nil(t, histories[1].StartedAt)
		assert.Nil(t, histories[1].EndedAt)

		require.Len(t, run.Segments, 1)
		segmentHistories, err := run.Segments[0].Histories()
		require.NoError(t, err)
		assert.Len(t, segmentHistories, 90)
	})

	t.Run("historic refetch from a plain run", func(t *testing.T) {
		run, err := client.Run(ctx, ID("8mqz"))
		require.NoError(t, err)

		refetched, err := run.Historic(ctx)
		require.NoError(t, err)
		assert.True(t, refetched.IsHistoric())
		assert.False(t, run.IsHistoric())

		histories, err := refetched.Histories()
		require.NoError(t, err)
		assert.Len(t, histories, 90)
	})
}

func TestRunOptionalGametimeAbsent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/runs/8mqz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write(historicRunBody(t, 3, false))
		require.NoError(t, err)
	})
	client, _ := newTestClient(t, mux)

	run, err := client.Run(context.Background(), ID("8mqz"))
	require.NoError(t, err)
	assert.Nil(t, run.GametimeDurationMS)
	assert.Equal(t, 24*time.Minute+55*time.Second, run.RealtimeDuration())
}

func TestUserAgentHeaderSent(t *testing.T) {
	var gotAgent string
	mux := http.NewServeMux()
	mux.HandleFunc("/games/sms", func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		writeJSON(t, w, gameFixture)
	})
	client, _ := newTestClient(t, mux, WithUserAgent("splitstats/test"))

	_, err := client.Game(context.Background(), Key("sms"))
	require.NoError(t, err)
	assert.Equal(t, "splitstats/test", gotAgent)
}
