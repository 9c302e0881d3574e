package discovery

import (
	"path/filepath"
	"strings"

	"rspecify/internal/nodeid"
)

// Filter selects tests by a name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName returns the node IDs matching pattern
func (f *Filter) FilterByName(ids []string, pattern string) []string {
	if pattern == "" {
		return ids
	}

	var filtered []string
	for _, id := range ids {
		if f.Match(id, pattern) {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// Match reports whether the test part of a node ID (everything after the
// file segment) matches pattern. Supports patterns like "TestUser*" or
// "*Payment*"; a pattern without wildcards matches as a substring.
func (f *Filter) Match(id, pattern string) bool {
	if pattern == "" {
		return true
	}

	testName := strings.TrimPrefix(id, nodeid.File(id))
	testName = strings.TrimPrefix(testName, nodeid.Separator)
	if testName == "" {
		testName = id
	}

	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, testName)
	if err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible match: every literal part must appear in order
	if strings.Contains(pattern, "*") {
		rest := testName
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			i := strings.Index(rest, part)
			if i < 0 {
				return false
			}
			rest = rest[i+len(part):]
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(testName, pattern)
	}
	return false
}
