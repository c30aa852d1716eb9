package splitsio

import (
	"fmt"
	"strings"
)

// Kind identifies a resource kind exposed by the splits.io API.
type Kind string

const (
	KindGame     Kind = "game"
	KindCategory Kind = "category"
	KindRunner   Kind = "runner"
	KindRun      Kind = "run"
	KindSegment  Kind = "segment"
	KindHistory  Kind = "history"
)

// Identifier selects a resource either by its canonical numeric id or by an
// alternate human-readable key (a game's shortname, a runner's name).
type Identifier struct {
	value string
	alt   bool
}

// ID builds an identifier from a canonical numeric id.
func ID(value string) Identifier {
	return Identifier{value: value}
}

// Key builds an identifier from an alternate lookup key. Only resource kinds
// that declare an alternate key in the registry accept one.
func Key(value string) Identifier {
	return Identifier{value: value, alt: true}
}

// String returns the raw identifier value.
func (i Identifier) String() string {
	return i.value
}

// altKeyRule describes how a kind normalizes its alternate lookup key.
type altKeyRule int

const (
	altKeyNone  altKeyRule = iota // numeric id only
	altKeyExact                   // accepted as-is (game shortname)
	altKeyLower                   // lower-cased before use (runner name)
)

// relationship describes a collection endpoint scoped under an owning
// resource.
type relationship struct {
	target    Kind
	paginated bool
}

// resourceSpec is one registry entry: where a kind lives on the API and
// which related collections hang off it.
type resourceSpec struct {
	collection    string // URL path segment, e.g. "games"
	wrapperKey    string // singular envelope key on single-resource responses
	altKey        altKeyRule
	relationships map[string]relationship
}

// registry is the static table driving endpoint construction. Relationship
// endpoints are parameterized by the owning resource's numeric id:
// <collection>/<owner id>/<name>.
var registry = map[Kind]resourceSpec{
	KindGame: {
		collection: "games",
		wrapperKey: "game",
		altKey:     altKeyExact,
		relationships: map[string]relationship{
			"categories": {target: KindCategory},
			"runners":    {target: KindRunner, paginated: true},
			"runs":       {target: KindRun, paginated: true},
		},
	},
	KindCategory: {
		collection: "categories",
		wrapperKey: "category",
		relationships: map[string]relationship{
			"runners": {target: KindRunner, paginated: true},
			"runs":    {target: KindRun, paginated: true},
		},
	},
	KindRunner: {
		collection: "runners",
		wrapperKey: "runner",
		altKey:     altKeyLower,
		relationships: map[string]relationship{
			"runs":       {target: KindRun, paginated: true},
			"pbs":        {target: KindRun, paginated: true},
			"games":      {target: KindGame, paginated: true},
			"categories": {target: KindCategory, paginated: true},
		},
	},
	KindRun: {
		collection: "runs",
		wrapperKey: "run",
	},
	// Segments and histories are embedded within runs and have no
	// independently addressable endpoints; their entries exist so the
	// mapper can resolve them as nested kinds.
	KindSegment: {
		collection: "segments",
		wrapperKey: "segment",
	},
	KindHistory: {
		collection: "histories",
		wrapperKey: "history",
	},
}

// resolveIdentifier turns an identifier into the path segment the endpoint
// accepts, applying the kind's alternate-key normalization.
func (s resourceSpec) resolveIdentifier(id Identifier) (string, error) {
	if id.value == "" {
		return "", fmt.Errorf("%s: empty identifier", s.collection)
	}
	if !id.alt {
		return id.value, nil
	}
	switch s.altKey {
	case altKeyExact:
		return id.value, nil
	case altKeyLower:
		return strings.ToLower(id.value), nil
	default:
		return "", fmt.Errorf("%s: %w", s.collection, ErrNoAlternateKey)
	}
}

// relationshipEndpoint resolves a named relationship on an owning kind into
// a concrete collection endpoint.
func relationshipEndpoint(owner Kind, name, ownerID string) (string, relationship, error) {
	spec, ok := registry[owner]
	if !ok {
		return "", relationship{}, &RegistryError{Kind: owner}
	}
	rel, ok := spec.relationships[name]
	if !ok {
		return "", relationship{}, &RegistryError{Kind: owner, Relationship: name}
	}
	if ownerID == "" {
		return "", relationship{}, fmt.Errorf("%s/%s: empty owner id", spec.collection, name)
	}
	return spec.collection + "/" + ownerID + "/" + name, rel, nil
}

// checkRegistry verifies the static registry is internally consistent: every
// entry is complete, every declared relationship targets a known kind with a
// schema, and every kind with a schema has a registry entry. NewClient runs
// this so an inconsistent table fails at construction instead of mid-fetch.
func checkRegistry() error {
	for kind, spec := range registry {
		if spec.collection == "" || spec.wrapperKey == "" {
			return &RegistryError{Kind: kind}
		}
		if _, ok := schemas[kind]; !ok {
			return &RegistryError{Kind: kind}
		}
		for name, rel := range spec.relationships {
			target, ok := registry[rel.target]
			if !ok || target.collection == "" {
				return &RegistryError{Kind: kind, Relationship: name}
			}
		}
	}
	for kind := range schemas {
		if _, ok := registry[kind]; !ok {
			return &RegistryError{Kind: kind}
		}
	}
	return nil
}
