package splitsio

import (
	"bytes"
	"encoding/json"
)

// fieldShape classifies the JSON value expected for a field. Timestamps are
// a distinct shape for documentation purposes but are carried as opaque
// ISO-8601 strings; no parsing or timezone conversion happens in this layer.
type fieldShape int

const (
	shapeString fieldShape = iota
	shapeNumber
	shapeBool
	shapeTimestamp
	shapeObject
	shapeList
)

func (s fieldShape) String() string {
	switch s {
	case shapeString:
		return "string"
	case shapeNumber:
		return "number"
	case shapeBool:
		return "boolean"
	case shapeTimestamp:
		return "timestamp"
	case shapeObject:
		return "object"
	case shapeList:
		return "list"
	default:
		return "unknown"
	}
}

// fieldSpec declares one field of a resource kind. Optional fields absent or
// null in the source map to nil pointers, never to zero values. elem names
// the nested kind for object and list shapes.
type fieldSpec struct {
	name     string
	shape    fieldShape
	required bool
	elem     Kind
}

// schemas drives the single generic mapping routine; one entry per resource
// kind instead of per-kind parsing code. Fields the API returns but the
// schema does not list are ignored.
var schemas = map[Kind][]fieldSpec{
	KindGame: {
		{name: "id", shape: shapeString, required: true},
		{name: "name", shape: shapeString, required: true},
		{name: "shortname", shape: shapeString},
		{name: "created_at", shape: shapeTimestamp, required: true},
		{name: "updated_at", shape: shapeTimestamp, required: true},
		{name: "categories", shape: shapeList, elem: KindCategory},
	},
	KindCategory: {
		{name: "id", shape: shapeString, required: true},
		{name: "name", shape: shapeString, required: true},
		{name: "created_at", shape: shapeTimestamp},
		{name: "updated_at", shape: shapeTimestamp},
	},
	KindRunner: {
		{name: "id", shape: shapeString, required: true},
		{name: "name", shape: shapeString, required: true},
		{name: "display_name", shape: shapeString, required: true},
		{name: "avatar", shape: shapeString},
		{name: "twitch_id", shape: shapeString},
		{name: "twitch_name", shape: shapeString},
		{name: "created_at", shape: shapeTimestamp},
		{name: "updated_at", shape: shapeTimestamp},
	},
	KindRun: {
		{name: "id", shape: shapeString, required: true},
		{name: "srdc_id", shape: shapeString},
		{name: "realtime_duration_ms", shape: shapeNumber, required: true},
		{name: "realtime_sum_of_best_ms", shape: shapeNumber},
		{name: "gametime_duration_ms", shape: shapeNumber},
		{name: "gametime_sum_of_best_ms", shape: shapeNumber},
		{name: "default_timing", shape: shapeString},
		{name: "program", shape: shapeString, required: true},
		{name: "attempts", shape: shapeNumber},
		{name: "image_url", shape: shapeString},
		{name: "video_url", shape: shapeString},
		{name: "parsed_at", shape: shapeTimestamp},
		{name: "created_at", shape: shapeTimestamp, required: true},
		{name: "updated_at", shape: shapeTimestamp},
		{name: "game", shape: shapeObject, elem: KindGame},
		{name: "category", shape: shapeObject, elem: KindCategory},
		{name: "runners", shape: shapeList, elem: KindRunner},
		{name: "segments", shape: shapeList, elem: KindSegment},
		{name: "histories", shape: shapeList, elem: KindHistory},
	},
	KindSegment: {
		{name: "id", shape: shapeString},
		{name: "name", shape: shapeString, required: true},
		{name: "display_name", shape: shapeString},
		{name: "segment_number", shape: shapeNumber},
		{name: "realtime_start_ms", shape: shapeNumber},
		{name: "realtime_duration_ms", shape: shapeNumber, required: true},
		{name: "realtime_end_ms", shape: shapeNumber},
		{name: "realtime_shortest_duration_ms", shape: shapeNumber},
		{name: "realtime_gold", shape: shapeBool},
		{name: "realtime_skipped", shape: shapeBool},
		{name: "realtime_reduced", shape: shapeBool},
		{name: "gametime_start_ms", shape: shapeNumber},
		{name: "gametime_duration_ms", shape: shapeNumber},
		{name: "gametime_end_ms", shape: shapeNumber},
		{name: "gametime_shortest_duration_ms", shape: shapeNumber},
		{name: "gametime_gold", shape: shapeBool},
		{name: "gametime_skipped", shape: shapeBool},
		{name: "gametime_reduced", shape: shapeBool},
		{name: "histories", shape: shapeList, elem: KindHistory},
	},
	KindHistory: {
		{name: "attempt_number", shape: shapeNumber, required: true},
		{name: "realtime_duration_ms", shape: shapeNumber},
		{name: "gametime_duration_ms", shape: shapeNumber},
		{name: "started_at", shape: shapeTimestamp},
		{name: "ended_at", shape: shapeTimestamp},
	},
}

// mapResource validates one JSON object against the schema for kind and
// decodes it into the typed record. All shape violations surface as
// *MappingError naming the resource kind and offending field.
func mapResource[T any](kind Kind, raw json.RawMessage) (*T, error) {
	if err := checkShape(kind, raw); err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, &MappingError{Kind: kind, Reason: "decode failed", Err: err}
	}
	return out, nil
}

// mapItems maps each element of a collection independently; an empty input
// yields an empty slice, not nil.
func mapItems[T any](kind Kind, items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		mapped, err := mapResource[T](kind, item)
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

// checkShape verifies a raw JSON object against the field schema for kind,
// recursing into nested objects and lists.
func checkShape(kind Kind, raw json.RawMessage) error {
	schema, ok := schemas[kind]
	if !ok {
		return &MappingError{Kind: kind, Reason: "no schema defined"}
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return &MappingError{Kind: kind, Reason: "expected a JSON object", Err: err}
	}
	for _, field := range schema {
		value, present := object[field.name]
		if !present || isNull(value) {
			if field.required {
				return &MappingError{Kind: kind, Field: field.name, Reason: "required field missing"}
			}
			continue
		}
		if err := checkValue(kind, field, value); err != nil {
			return err
		}
	}
	return nil
}

// checkValue verifies a single non-null field value against its declared
// shape.
func checkValue(kind Kind, field fieldSpec, value json.RawMessage) error {
	wrongShape := func() error {
		return &MappingError{Kind: kind, Field: field.name, Reason: "expected " + field.shape.String()}
	}
	switch field.shape {
	case shapeString, shapeTimestamp:
		if firstByte(value) != '"' {
			return wrongShape()
		}
	case shapeNumber:
		b := firstByte(value)
		if b != '-' && (b < '0' || b > '9') {
			return wrongShape()
		}
	case shapeBool:
		b := firstByte(value)
		if b != 't' && b != 'f' {
			return wrongShape()
		}
	case shapeObject:
		if firstByte(value) != '{' {
			return wrongShape()
		}
		return checkShape(field.elem, value)
	case shapeList:
		if firstByte(value) != '[' {
			return wrongShape()
		}
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			return &MappingError{Kind: kind, Field: field.name, Reason: "malformed list", Err: err}
		}
		for _, item := range items {
			if err := checkShape(field.elem, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
