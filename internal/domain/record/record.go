// Package record models the upstream resources as opaque field mappings and
// resolves the loosely typed parts of the wire format once, at decode time.
package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Identifier fields in lookup order. The upstream serializes Mongo ids as
// "_id"; some deployments expose a plain "id".
const (
	FieldID    = "_id"
	FieldAltID = "id"
)

// Record is one item of a collection. Fields beyond the identifier are
// resource specific and any of them may be absent.
type Record map[string]any

// Collection is an ordered sequence of records of one kind. It is replaced
// wholesale on every fetch.
type Collection []Record

// ID returns the record identifier.
func (r Record) ID() (string, bool) {
	for _, field := range []string{FieldID, FieldAltID} {
		if id, ok := scalarID(r[field]); ok {
			return id, true
		}
	}
	return "", false
}

// Value returns the raw decoded value of field.
func (r Record) Value(field string) (any, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String renders a scalar field as text. Missing, null, empty and
// non-scalar values report false.
func (r Record) String(field string) (string, bool) {
	s, ok := scalarText(r[field])
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// First returns the first field in fields that renders as non-empty text.
func (r Record) First(fields ...string) (string, bool) {
	for _, f := range fields {
		if s, ok := r.String(f); ok {
			return s, true
		}
	}
	return "", false
}

// Number returns a numeric field. Numeric strings are accepted.
func (r Record) Number(field string) (float64, bool) {
	switch v := r[field].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Ref resolves a related-object field that may hold an embedded object or a
// bare identifier.
func (r Record) Ref(field string) (Ref, bool) {
	return RefOf(r[field])
}

// Refs resolves a sequence of related objects. Non-sequence values yield nil;
// null entries are skipped.
func (r Record) Refs(field string) []Ref {
	items, ok := r[field].([]any)
	if !ok {
		return nil
	}
	refs := make([]Ref, 0, len(items))
	for _, item := range items {
		if ref, ok := RefOf(item); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Strings returns the scalar entries of a sequence field as text.
func (r Record) Strings(field string) []string {
	items, ok := r[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := scalarText(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a deep copy so callers can hold a record without aliasing
// the collection it came from.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out, _ := cloneValue(map[string]any(r)).(map[string]any)
	return Record(out)
}

// Clone returns a deep copy of the collection. A nil collection clones to an
// empty one.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// Find returns the first record whose identifier equals id.
func (c Collection) Find(id string) (Record, bool) {
	for _, r := range c {
		if rid, ok := r.ID(); ok && rid == id {
			return r, true
		}
	}
	return nil, false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case Record:
		return cloneValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	default:
		return v
	}
}

func scalarID(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	}
	return "", false
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t), true
	case nil, map[string]any, Record, []any:
		return "", false
	}
	return scalarID(v)
}
