package domain

// Color is a foreground color understood by the terminal writer
type Color int

const (
	ColorNone Color = iota
	ColorGreen
	ColorRed
	ColorYellow
	ColorCyan
)

// Markup holds the style attributes of a text fragment
type Markup struct {
	Bold  bool
	Color Color
}

// Word is the human readable status of a report. Markup is nil when the
// classifier leaves styling to the reporter.
type Word struct {
	Label  string
	Markup *Markup
}

// Status is the category/letter/word classification of a report
type Status struct {
	Category string // Stats bucket, e.g. "passed"
	Letter   string // Single character code, e.g. "."
	Word     Word
}

// Intermediate reports whether the status has no terminal outcome
// (a passing setup or teardown phase).
func (s Status) Intermediate() bool {
	return s.Letter == "" && s.Word.Label == ""
}

// SessionInfo describes a test session to reporters
type SessionInfo struct {
	ID      string
	RootDir string
	Workers int
}
