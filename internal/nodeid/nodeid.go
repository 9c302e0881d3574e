// Package nodeid splits test identifiers of the form
// "file-path::class-name::test-name". Splitting is purely syntactic.
package nodeid

import "strings"

// Separator joins the segments of a node ID
const Separator = "::"

// Split returns the segments of a node ID
func Split(id string) []string {
	return strings.Split(id, Separator)
}

// Join builds a node ID from its segments
func Join(parts ...string) string {
	return strings.Join(parts, Separator)
}

// File returns the file path segment (everything before the first separator)
func File(id string) string {
	file, _, _ := strings.Cut(id, Separator)
	return file
}

// Class returns the class segment. It is only present when the ID has at
// least three segments.
func Class(id string) (string, bool) {
	parts := Split(id)
	if len(parts) < 3 {
		return "", false
	}
	return parts[1], true
}

// Name returns the last segment
func Name(id string) string {
	parts := Split(id)
	return parts[len(parts)-1]
}

// Humanize turns the last segment into a readable title: underscores become
// spaces, a leading "test" token is dropped and a trailing space is kept.
func Humanize(id string) string {
	words := strings.Split(Name(id), "_")
	if strings.EqualFold(words[0], "test") {
		words = words[1:]
	}
	return strings.Join(words, " ") + " "
}
