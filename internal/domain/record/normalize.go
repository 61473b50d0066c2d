package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FieldResults is the list field of the paginated envelope shape.
const FieldResults = "results"

// Normalize decodes a collection response body. A bare array is used as is;
// an object carrying a "results" array yields that array; any other shape
// yields an empty collection. The result is never nil.
func Normalize(body []byte) (Collection, error) {
	v, err := decode(body)
	if err != nil {
		return nil, err
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items, _ = t[FieldResults].([]any)
	}

	out := make(Collection, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %s", ErrNotObject, i, kindOf(item))
		}
		out = append(out, Record(m))
	}
	return out, nil
}

// Decode decodes a single-record response body.
func Decode(body []byte) (Record, error) {
	v, err := decode(body)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body is %s", ErrNotObject, kindOf(v))
	}
	return Record(m), nil
}

// decode keeps numbers as json.Number so identifiers survive untouched.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformed)
	}
	return v, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}
