// Package extraction reads the raw documents produced by the upstream
// OCR/LLM pipeline. Every field in those documents may be absent, and every
// leaf may arrive either as a bare scalar or wrapped one level as
// {value: <scalar>} by the pipeline's confidence annotation. The accessors
// here probe both shapes so callers never deal with the variance.
package extraction

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Document is one extraction record. Data holds the nested llmData mapping
// and is nil when the document carries no extraction output at all.
type Document struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
	Data      map[string]any
}

// Unwrap returns the scalar behind a possibly confidence-wrapped value.
func Unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	return v
}

// Section returns the named sub-mapping, probing the wrapped shape first and
// falling back to the bare one. A missing or non-mapping section yields nil,
// which every other accessor treats as "field absent".
func Section(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok {
		return nil
	}
	if sec, ok := Unwrap(v).(map[string]any); ok {
		return sec
	}
	if sec, ok := v.(map[string]any); ok {
		return sec
	}
	return nil
}

// String resolves a non-empty string field in wrapped or bare form.
func String(m map[string]any, key string) (string, bool) {
	v, ok := rawField(m, key)
	if !ok {
		return "", false
	}
	s, ok := Unwrap(v).(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Number resolves a finite numeric field in wrapped or bare form. Values that
// fail to parse as a number report absence so callers can apply their
// documented defaults instead of storing garbage.
func Number(m map[string]any, key string) (float64, bool) {
	v, ok := rawField(m, key)
	if !ok {
		return 0, false
	}
	return toNumber(Unwrap(v))
}

// Time resolves a date field, accepting the handful of layouts the pipeline
// has been seen to emit.
func Time(m map[string]any, key string) (time.Time, bool) {
	s, ok := String(m, key)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(s)
}

// Scalar returns the unwrapped raw value of a field, when present.
func Scalar(m map[string]any, key string) (any, bool) {
	v, ok := rawField(m, key)
	if !ok {
		return nil, false
	}
	return Unwrap(v), true
}

// Items locates the line-item collection inside one of the historically
// observed container shapes: a bare array, {items: [...]},
// {value: {items: [...]}} and {value: [...]}. Entries that are not mappings
// are dropped; everything else is kept regardless of content.
func Items(container any) []map[string]any {
	arr := itemArray(container)
	out := make([]map[string]any, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func itemArray(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		if items, ok := t["items"]; ok {
			if arr, ok := items.([]any); ok {
				return arr
			}
			if arr, ok := Unwrap(items).([]any); ok {
				return arr
			}
		}
		if inner, ok := t["value"]; ok {
			return itemArray(inner)
		}
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// ParseDate tries the known pipeline date layouts in order.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func rawField(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
