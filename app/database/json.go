package database

import "encoding/json"

// SQLite has no native array or map columns; list-valued and open-map fields
// are stored as JSON text.

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStrings(data string) []string {
	if data == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return []string{}
	}
	return out
}

func unmarshalMap(data string) map[string]any {
	if data == "" {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return map[string]any{}
	}
	return out
}
