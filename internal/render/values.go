package render

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/okian/octofit/internal/domain/record"
)

// truthy treats null, empty strings, false and zero as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

// text renders a decoded JSON value for a table cell.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, text(item))
		}
		return strings.Join(parts, ", ")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// firstTruthy returns the first truthy field among fields, else fallback.
func firstTruthy(r record.Record, fallback string, fields ...string) string {
	for _, f := range fields {
		if v := r[f]; truthy(v) {
			return text(v)
		}
	}
	return fallback
}

// firstPresent returns the first non-null field among fields, else fallback.
// Zero and empty values count as present.
func firstPresent(r record.Record, fallback string, fields ...string) string {
	for _, f := range fields {
		if v, ok := r.Value(f); ok {
			return text(v)
		}
	}
	return fallback
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} //nolint:gochecknoglobals // immutable

// FormatDate renders a date given as an ISO string, an extended JSON
// {"$date": ...} object or epoch milliseconds.
func FormatDate(v any) string {
	if m, ok := v.(map[string]any); ok {
		v = m["$date"]
		if inner, ok := v.(map[string]any); ok {
			v = inner["$numberLong"]
		}
	}
	if !truthy(v) {
		return NA
	}
	switch t := v.(type) {
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms).UTC().Format("Jan 2, 2006")
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC().Format("Jan 2, 2006")
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.Format("Jan 2, 2006")
			}
		}
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC().Format("Jan 2, 2006")
		}
	}
	return text(v)
}

// listOr joins a sequence field with sep, or returns NA when empty.
func listOr(r record.Record, field, sep string) string {
	items, ok := r[field].([]any)
	if !ok || len(items) == 0 {
		return NA
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, text(item))
	}
	return strings.Join(parts, sep)
}
