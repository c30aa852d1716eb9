package splitsio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// fetchCollection retrieves the complete ordered contents of a collection
// endpoint, mapping each item to T. Paginated endpoints are followed with a
// 1-based page parameter until the server signals exhaustion; the splits.io
// API exposes Per-Page and Total response headers, but endpoints that omit
// them still terminate on a short or empty page. Any failed page aborts the
// whole fetch.
func fetchCollection[T any](ctx context.Context, c *Client, kind Kind, endpoint, envelopeKey string, paginated bool) ([]T, error) {
	if !paginated {
		_, body, err := c.get(ctx, endpoint, nil)
		if err != nil {
			return nil, err
		}
		items, err := decodeEnvelopeList(kind, envelopeKey, body)
		if err != nil {
			return nil, err
		}
		return mapItems[T](kind, items)
	}

	all := make([]T, 0)
	page := 1
	for {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		if c.pageSize > 0 {
			params.Set("per_page", strconv.Itoa(c.pageSize))
		}

		header, body, err := c.get(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		rawItems, err := decodeEnvelopeList(kind, envelopeKey, body)
		if err != nil {
			return nil, err
		}
		items, err := mapItems[T](kind, rawItems)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		perPage := headerInt(header, "Per-Page")
		total := headerInt(header, "Total")

		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("page", page).
			Int("count", len(items)).
			Int("total", len(all)).
			Msg("retrieved collection page")

		if len(items) == 0 {
			break
		}
		if total > 0 && len(all) >= total {
			break
		}
		if perPage > 0 && len(items) < perPage {
			break
		}
		if perPage == 0 && total == 0 {
			// no pagination headers: the response was the whole collection
			break
		}
		page++
	}
	return all, nil
}

// related resolves a relationship declared in the registry and fetches its
// collection, attaching each mapped record to the owning client.
func related[T any, PT interface {
	*T
	attach(*Client)
}](ctx context.Context, c *Client, owner Kind, name, ownerID string) ([]T, error) {
	if c == nil {
		return nil, ErrNotAttached
	}
	endpoint, rel, err := relationshipEndpoint(owner, name, ownerID)
	if err != nil {
		return nil, err
	}
	items, err := fetchCollection[T](ctx, c, rel.target, endpoint, name, rel.paginated)
	if err != nil {
		return nil, err
	}
	for i := range items {
		PT(&items[i]).attach(c)
	}
	return items, nil
}

// decodeEnvelopeList unwraps a collection response's JSON envelope into its
// raw items.
func decodeEnvelopeList(kind Kind, key string, body json.RawMessage) ([]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MappingError{Kind: kind, Reason: "response is not a JSON object", Err: err}
	}
	raw, ok := envelope[key]
	if !ok || isNull(raw) {
		return nil, &MappingError{Kind: kind, Field: key, Reason: "missing envelope key"}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &MappingError{Kind: kind, Field: key, Reason: "expected a JSON list", Err: err}
	}
	return items, nil
}

func headerInt(header http.Header, name string) int {
	value := header.Get(name)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
