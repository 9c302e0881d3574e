package reporter

import (
	"rspecify/internal/domain"
	"rspecify/internal/nodeid"
	"rspecify/internal/ui"
)

type cursorState int

const (
	cursorBlank  cursorState = iota // at the start of a line
	cursorGroup                     // inside the group named by key
	cursorForced                    // the next group always starts a new line
)

type cursor struct {
	state cursorState
	key   string
}

func (c cursor) holds(key string) bool {
	return c.state == cursorGroup && c.key == key
}

// Output wraps the terminal writer with the group cursor that decides when
// a fragment needs a preceding line break. Reporters decorating each other
// share one Output so their fragments interleave consistently.
type Output struct {
	tw     *ui.TerminalWriter
	cursor cursor
}

// NewOutput creates an Output at the start of a line
func NewOutput(tw *ui.TerminalWriter) *Output {
	return &Output{tw: tw}
}

// Writer returns the underlying terminal writer
func (o *Output) Writer() *ui.TerminalWriter {
	return o.tw
}

// Write writes a fragment without touching the cursor
func (o *Output) Write(text string, markup domain.Markup) {
	o.tw.Write(text, markup)
}

// EnsureNewline ends the current line unless already at its start
func (o *Output) EnsureNewline() {
	if o.cursor.state != cursorBlank {
		o.tw.Line()
		o.cursor = cursor{}
	}
}

// Force makes the next group start on a new line
func (o *Output) Force() {
	o.cursor = cursor{state: cursorForced}
}

// EnsurePrefix writes prefix on a new line unless the cursor already holds
// it, then appends extra. Writing extra forces the next group onto a new line.
func (o *Output) EnsurePrefix(prefix, extra string, markup domain.Markup) {
	if !o.cursor.holds(prefix) {
		o.breakLine()
		o.cursor = cursor{state: cursorGroup, key: prefix}
		o.tw.Write(prefix, markup)
	}
	if extra != "" {
		o.tw.Write(extra, markup)
		o.cursor = cursor{state: cursorForced}
	}
}

// FSPath writes the file segment of id as a group header, shown relative to
// the start directory.
func (o *Output) FSPath(id string, markup domain.Markup) {
	fspath := nodeid.File(id)
	o.Header(fspath, o.tw.BestRelPath(fspath), markup)
}

// Header writes text followed by a space when the cursor is on another
// group, breaking the line first unless at its start. Fragments written
// afterwards continue the header's line.
func (o *Output) Header(key, text string, markup domain.Markup) {
	if o.cursor.holds(key) {
		return
	}
	o.breakLine()
	o.cursor = cursor{state: cursorGroup, key: key}
	o.tw.Write(text+" ", markup)
}

func (o *Output) breakLine() {
	if o.cursor.state != cursorBlank {
		o.tw.Line()
	}
}
