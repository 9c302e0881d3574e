package reporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/logging"
	"rspecify/internal/nodeid"
	"rspecify/internal/status"
	"rspecify/internal/ui"
)

// Terminal is the default reporter: a file header followed by one status
// letter per test, one line per test in verbose mode, a progress bar in
// quiet mode.
type Terminal struct {
	cfg        *config.Config
	out        *Output
	classifier status.Classifier
	stats      *Stats
	log        *slog.Logger

	progressOut io.Writer
	progress    *ui.ProgressBar
}

// TerminalOption configures a Terminal
type TerminalOption func(*Terminal)

// WithClassifier sets the status classifier
func WithClassifier(c status.Classifier) TerminalOption {
	return func(t *Terminal) {
		t.classifier = c
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(log *slog.Logger) TerminalOption {
	return func(t *Terminal) {
		t.log = log
	}
}

// WithProgressWriter sets where the quiet mode progress bar is drawn
func WithProgressWriter(w io.Writer) TerminalOption {
	return func(t *Terminal) {
		t.progressOut = w
	}
}

// NewTerminal creates the default reporter writing to tw
func NewTerminal(cfg *config.Config, tw *ui.TerminalWriter, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		cfg:         cfg,
		out:         NewOutput(tw),
		stats:       NewStats(),
		log:         logging.Discard(),
		progressOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the reporter configuration
func (t *Terminal) Config() *config.Config {
	return t.cfg
}

// Output returns the shared output
func (t *Terminal) Output() *Output {
	return t.out
}

// Stats returns the collected stats
func (t *Terminal) Stats() *Stats {
	return t.stats
}

// Err returns the first error of the underlying writer
func (t *Terminal) Err() error {
	return t.out.Writer().Err()
}

// SessionStart prints the session header
func (t *Terminal) SessionStart(info domain.SessionInfo) {
	t.log.Debug("session started", "id", info.ID, "rootdir", info.RootDir, "workers", info.Workers)

	tw := t.out.Writer()
	tw.Sep("=", "test session starts", domain.Markup{Bold: true})
	tw.Write("rootdir: "+info.RootDir, domain.Markup{})
	tw.Line()
	if info.Workers > 1 {
		tw.Write(fmt.Sprintf("workers: %d", info.Workers), domain.Markup{})
		tw.Line()
	}

	if t.cfg.Verbosity < 0 {
		t.progress = ui.NewProgressBar(t.progressOut)
	}
}

// LogStart prints the file header, or the location line in verbose mode
func (t *Terminal) LogStart(id string, loc domain.Location) {
	switch {
	case t.cfg.ShowLongTestInfo():
		t.out.EnsurePrefix(t.LocationLine(id, loc), "", domain.Markup{})
	case t.cfg.ShowFSPath():
		t.out.FSPath(id, domain.Markup{})
	}
}

// LogReport prints the status of a finished test phase
func (t *Terminal) LogReport(rep *domain.Report) {
	st, markup := t.Record(rep)
	if st.Intermediate() {
		return
	}

	switch {
	case t.cfg.Verbosity < 0:
		t.updateProgress()
	case t.cfg.Verbosity == 0:
		if rep.Node == nil {
			t.out.FSPath(rep.NodeID, domain.Markup{})
		}
		t.out.Write(st.Letter, markup)
	default:
		line := t.LocationLine(rep.NodeID, rep.Location)
		if rep.Node == nil {
			t.out.EnsurePrefix(line, st.Word.Label, markup)
			return
		}
		t.out.EnsureNewline()
		t.out.Write(fmt.Sprintf("[%s] ", rep.Node.GatewayID), domain.Markup{})
		t.out.Write(st.Word.Label, markup)
		t.out.Write(" "+line, domain.Markup{})
		t.out.Force()
	}
}

// Record classifies rep and adds it to the stats. It returns the status and
// the markup its word is rendered with.
func (t *Terminal) Record(rep *domain.Report) (domain.Status, domain.Markup) {
	st := status.Resolve(t.classifier, rep)
	t.stats.Add(st.Category, rep)
	t.stats.TestsRan = true
	return st, status.WordMarkup(st, rep)
}

// LocationLine formats the one-line description of a test: the node ID with
// its file segment relative to the start directory. At verbosity 2 and above
// a location in another file is appended.
func (t *Terminal) LocationLine(id string, loc domain.Location) string {
	if loc.Path == "" {
		return "[location] "
	}
	tw := t.out.Writer()
	file := nodeid.File(id)
	line := tw.BestRelPath(file) + strings.TrimPrefix(id, file)
	if t.cfg.Verbosity >= 2 && file != loc.Path {
		line += " <- " + tw.BestRelPath(loc.Path)
	}
	return line + " "
}

// SessionFinish prints the failures and the summary line
func (t *Terminal) SessionFinish() {
	if t.progress != nil {
		t.progress.Finish()
	}
	t.out.EnsureNewline()

	tw := t.out.Writer()
	if failed := t.stats.Failed(); len(failed) > 0 {
		tw.Sep("=", "FAILURES", domain.Markup{})
		for _, rep := range failed {
			tw.Sep("_", rep.NodeID, domain.Markup{Bold: true, Color: domain.ColorRed})
			if rep.Longrepr != "" {
				tw.Write(strings.TrimRight(rep.Longrepr, "\n"), domain.Markup{})
				tw.Line()
			}
		}
	}

	text, markup := t.summary()
	tw.Sep("=", text, markup)
	t.log.Debug("session finished", "summary", text)
}

func (t *Terminal) summary() (string, domain.Markup) {
	categories := t.stats.summaryCategories()
	if len(categories) == 0 {
		return "no tests ran", domain.Markup{Bold: true, Color: domain.ColorYellow}
	}

	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%d %s", t.stats.Count(c), c))
	}

	markup := domain.Markup{Bold: true, Color: domain.ColorGreen}
	switch {
	case t.stats.HasFailures():
		markup.Color = domain.ColorRed
	case t.stats.Count("passed") == 0:
		markup.Color = domain.ColorYellow
	}
	return strings.Join(parts, ", "), markup
}

func (t *Terminal) updateProgress() {
	if t.progress == nil {
		return
	}
	skipped := t.stats.Count("skipped") + t.stats.Count("xfailed")
	passed := t.stats.Count("passed") + t.stats.Count("xpassed")
	failed := t.stats.Count("failed") + t.stats.Count("error")
	t.progress.Update(passed, failed, skipped)
}
