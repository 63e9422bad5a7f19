// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"encoding/json"
)

// Kind classifies a section value.
type Kind string

const (
	KindScalar Kind = "scalar"
	KindObject Kind = "object"
	KindList   Kind = "array"
)

// KindOf reports the kind of a JSON value. Anything that is not an object or
// an array, including null, is a scalar.
func KindOf(v json.RawMessage) Kind {
	trimmed := bytes.TrimLeft(v, " \t\r\n")
	if len(trimmed) == 0 {
		return KindScalar
	}
	switch trimmed[0] {
	case '{':
		return KindObject
	case '[':
		return KindList
	default:
		return KindScalar
	}
}

// Field describes one top-level section of a default template for generic editors.
type Field struct {
	Name    string   `json:"name"`
	Type    Kind     `json:"type"`
	Fields  []string `json:"fields"`
	IsArray bool     `json:"isArray"`
}

// describe derives a field description from a template section. Lists report
// the keys of their first element; objects their own keys.
func describe(name string, v json.RawMessage) Field {
	f := Field{Name: name, Type: KindOf(v), Fields: []string{}}

	switch f.Type {
	case KindObject:
		if keys, err := objectKeys(v); err == nil {
			f.Fields = keys
		}
	case KindList:
		f.IsArray = true
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err == nil && len(items) > 0 && KindOf(items[0]) == KindObject {
			if keys, err := objectKeys(items[0]); err == nil {
				f.Fields = keys
			}
		}
	}
	return f
}
