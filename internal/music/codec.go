package music

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serialises an entity into its stored payload.
func Encode[T Entity](e T) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Kind(), err)
	}
	return payload, nil
}

// Decode restores an entity from its stored payload.
func Decode[T Entity](payload []byte) (T, error) {
	var e T
	if err := json.Unmarshal(payload, &e); err != nil {
		return e, fmt.Errorf("decode %s: %w", e.Kind(), err)
	}
	return e, nil
}

// alwaysProjected are the attributes kept by every projection.
var alwaysProjected = []string{"id", "title"}

// Project returns a copy of full holding only its id, title and the
// attributes named in the comma-separated fields list. Unknown names are
// ignored. An empty list returns full unchanged.
func Project[T Entity](full T, fields string) (T, error) {
	if strings.TrimSpace(fields) == "" {
		return full, nil
	}

	raw, err := json.Marshal(full)
	if err != nil {
		return full, fmt.Errorf("project %s: %w", full.Kind(), err)
	}
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return full, fmt.Errorf("project %s: %w", full.Kind(), err)
	}

	kept := make(map[string]json.RawMessage, len(alwaysProjected))
	for _, name := range alwaysProjected {
		if v, ok := attrs[name]; ok {
			kept[name] = v
		}
	}
	for _, name := range strings.Split(fields, ",") {
		name = strings.TrimSpace(name)
		if v, ok := attrs[name]; ok {
			kept[name] = v
		}
	}

	stripped, err := json.Marshal(kept)
	if err != nil {
		return full, fmt.Errorf("project %s: %w", full.Kind(), err)
	}
	var out T
	if err := json.Unmarshal(stripped, &out); err != nil {
		return full, fmt.Errorf("project %s: %w", full.Kind(), err)
	}
	return out, nil
}
