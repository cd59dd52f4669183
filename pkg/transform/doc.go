// Package transform maps CMS documents to relational upsert requests
// and back. Each document type gets its own file.
package transform

import (
	"encoding/json"
	"time"
)

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func stringPtrField(doc map[string]any, key string) *string {
	s, ok := doc[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// timeField parses an ISO timestamp or bare date. Returns nil for
// absent or unparseable values.
func timeField(doc map[string]any, key string) *time.Time {
	s, ok := doc[key].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func intField(doc map[string]any, key string) int {
	switch v := doc[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// jsonPtrField serializes a structured field (portable text, arrays) to
// a JSON string for storage in a text column.
func jsonPtrField(doc map[string]any, key string) *string {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

// slugField reads a CMS slug object ({current: "..."}) or a plain
// string.
func slugField(doc map[string]any, key string) *string {
	switch v := doc[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return &v
	case map[string]any:
		current, _ := v["current"].(string)
		if current == "" {
			return nil
		}
		return &current
	default:
		return nil
	}
}
