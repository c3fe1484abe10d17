package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TagList accepts either a JSON array of strings or a single comma-separated string
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = SplitTags(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = MergeTags(items)
		return nil
	default:
		return fmt.Errorf("tags must be a string or an array of strings")
	}
}

// SplitTags splits a comma-separated tag string, trimming and dropping empties
func SplitTags(s string) []string {
	return MergeTags(strings.Split(s, ","))
}

// MergeTags concatenates the lists, trims every entry and removes
// case-insensitive duplicates. The first spelling of a value wins.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, raw := range list {
			v := strings.TrimSpace(raw)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}
