// Package store contains the DAOs for steward's domain data: notes,
// bookmarks, pantry items, spending entries, and knowledge chunks. Each
// DAO wraps the shared database handle with typed accessors; the tool
// handlers in internal/tool/builtin are their only production callers.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// encodeTags serializes tags for storage. An empty or nil slice is
// stored as "[]" so scans never deal with NULL.
func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

// escapeLike escapes LIKE wildcards in user-supplied terms. Queries
// using the result must declare ESCAPE '\'.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
