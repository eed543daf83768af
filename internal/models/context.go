package models

import (
	"encoding/json"
	"strings"
)

// NotFoundSentinel is the literal value the context collector uses for a
// repository artifact that does not exist.
const NotFoundSentinel = "Null"

// ContextBundle is the normalized repository context assembled by the
// collector's tool loop. Text fields hold either content or the
// NotFoundSentinel; list fields are empty when nothing was found.
type ContextBundle struct {
	Readme        string   `json:"readme"`
	Changelog     string   `json:"changelog"`
	Contributing  string   `json:"contributing"`
	CommitHistory []string `json:"commit_history"`
	Docstrings    []string `json:"docstrings"`
}

// contextBundleWire tolerates the shapes the model actually emits: list
// fields may arrive as a single string (including the sentinel) or a list.
type contextBundleWire struct {
	Readme        json.RawMessage `json:"readme"`
	Changelog     json.RawMessage `json:"changelog"`
	Contributing  json.RawMessage `json:"contributing"`
	CommitHistory json.RawMessage `json:"commit_history"`
	Docstrings    json.RawMessage `json:"docstrings"`
}

func (c *ContextBundle) UnmarshalJSON(data []byte) error {
	var wire contextBundleWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	var err error
	if c.Readme, err = decodeText(wire.Readme); err != nil {
		return err
	}
	if c.Changelog, err = decodeText(wire.Changelog); err != nil {
		return err
	}
	if c.Contributing, err = decodeText(wire.Contributing); err != nil {
		return err
	}
	if c.CommitHistory, err = decodeTextList(wire.CommitHistory); err != nil {
		return err
	}
	if c.Docstrings, err = decodeTextList(wire.Docstrings); err != nil {
		return err
	}
	return nil
}

// HasReadme reports whether the bundle carries real README content.
func (c *ContextBundle) HasReadme() bool {
	return c != nil && c.Readme != "" && c.Readme != NotFoundSentinel
}

func decodeText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return NotFoundSentinel, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	// Anything non-string (an object, a list) is kept verbatim.
	return string(raw), nil
}

func decodeTextList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" || s == NotFoundSentinel {
			return nil, nil
		}
		return []string{s}, nil
	}
	// A list of non-string entries: flatten each to its JSON text.
	var anyList []json.RawMessage
	if err := json.Unmarshal(raw, &anyList); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(anyList))
	for _, entry := range anyList {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, strings.TrimSpace(string(entry)))
	}
	return out, nil
}
