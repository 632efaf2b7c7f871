package models

import (
	"encoding/json"
	"reflect"
)

// Content is the structured resume payload. Its schema is owned by the
// frontend; the core treats it as an opaque, serializable JSON object.
type Content map[string]any

// Clone returns an independent deep copy of the content. Branch forks and
// reverts copy content so that edits on one branch never leak into another.
func (c Content) Clone() Content {
	if c == nil {
		return Content{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		// Content always originates from decoded JSON, so this cannot
		// fail in practice; return an empty payload rather than panic.
		return Content{}
	}
	var out Content
	if err := json.Unmarshal(data, &out); err != nil {
		return Content{}
	}
	if out == nil {
		out = Content{}
	}
	return out
}

// Equal reports structural (deep) equality of two payloads.
func (c Content) Equal(other Content) bool {
	if len(c) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(c), map[string]any(other))
}
