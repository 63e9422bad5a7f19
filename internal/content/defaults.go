// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// template is a default page: its sections in file order.
type template struct {
	order    []string
	sections map[string]json.RawMessage
}

var templates = mustLoadTemplates(defaultsFS)

func mustLoadTemplates(fsys fs.FS) map[string]template {
	out, err := loadTemplates(fsys)
	if err != nil {
		panic(err)
	}
	return out
}

func loadTemplates(fsys fs.FS) (map[string]template, error) {
	files, err := fs.Glob(fsys, "defaults/*.json")
	if err != nil {
		return nil, err
	}

	out := make(map[string]template, len(files))
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, err
		}
		order, err := objectKeys(data)
		if err != nil {
			return nil, fmt.Errorf("default template %s: %w", f, err)
		}
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("default template %s: %w", f, err)
		}
		for k, v := range sections {
			sections[k] = compact(v)
		}
		out[strings.TrimSuffix(path.Base(f), ".json")] = template{order: order, sections: sections}
	}
	return out, nil
}

// DefaultPages returns the names of pages that have a default template, sorted.
func DefaultPages() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultSections returns a copy of the template sections for page, or nil.
func defaultSections(page string) map[string]json.RawMessage {
	tpl, ok := templates[page]
	if !ok {
		return nil
	}
	out := make(map[string]json.RawMessage, len(tpl.sections))
	for k, v := range tpl.sections {
		out[k] = bytes.Clone(v)
	}
	return out
}

func defaultSection(page, section string) (json.RawMessage, bool) {
	v, ok := templates[page].sections[section]
	if !ok {
		return nil, false
	}
	return bytes.Clone(v), true
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func compact(v json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return v
	}
	return buf.Bytes()
}
