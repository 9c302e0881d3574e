package ui

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"rspecify/internal/config"
	"rspecify/internal/domain"
)

// ColorMode selects when markup is rendered as ANSI escapes
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// TerminalWriter is the line oriented text sink shared by all reporters.
// Write errors are sticky: the first one is kept and later writes are dropped.
type TerminalWriter struct {
	out      io.Writer
	mode     ColorMode
	width    int
	rootDir  string
	startDir string
	err      error
}

// WriterOption configures a TerminalWriter
type WriterOption func(*TerminalWriter)

// WithColorMode sets the color mode
func WithColorMode(mode ColorMode) WriterOption {
	return func(w *TerminalWriter) {
		w.mode = mode
	}
}

// WithWidth overrides the detected terminal width
func WithWidth(width int) WriterOption {
	return func(w *TerminalWriter) {
		w.width = width
	}
}

// WithDirs sets the root directory and the directory paths are displayed relative to
func WithDirs(rootDir, startDir string) WriterOption {
	return func(w *TerminalWriter) {
		w.rootDir = rootDir
		w.startDir = startDir
	}
}

// NewTerminalWriter creates a new TerminalWriter on out
func NewTerminalWriter(out io.Writer, opts ...WriterOption) *TerminalWriter {
	w := &TerminalWriter{
		out:      out,
		rootDir:  ".",
		startDir: ".",
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.width <= 0 {
		w.width = detectWidth(out)
	}
	return w
}

func detectWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return config.DefaultTerminalWidth
}

// IsTerminal reports whether the writer is attached to a terminal
func (w *TerminalWriter) IsTerminal() bool {
	f, ok := w.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width used for rules
func (w *TerminalWriter) Width() int {
	return w.width
}

// RootDir returns the root directory node IDs are relative to
func (w *TerminalWriter) RootDir() string {
	return w.rootDir
}

// Write writes a text fragment with the given markup
func (w *TerminalWriter) Write(text string, markup domain.Markup) {
	if text == "" {
		return
	}
	w.emit(w.style(markup).Sprint(text))
}

// Line ends the current line
func (w *TerminalWriter) Line() {
	w.emit("\n")
}

// Sep writes a full width rule made of sep with an optional centered title
func (w *TerminalWriter) Sep(sep, title string, markup domain.Markup) {
	var line string
	if title == "" {
		line = strings.Repeat(sep, w.width/len(sep))
	} else {
		n := (w.width - len(title) - 2) / (2 * len(sep))
		if n < 1 {
			n = 1
		}
		fill := strings.Repeat(sep, n)
		line = fill + " " + title + " " + fill
	}
	w.Write(line, markup)
	w.Line()
}

// BestRelPath returns path relative to the start directory when possible.
// Relative input paths are taken relative to the root directory.
func (w *TerminalWriter) BestRelPath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.rootDir, path)
	}
	rel, err := filepath.Rel(w.startDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Err returns the first write error
func (w *TerminalWriter) Err() error {
	return w.err
}

func (w *TerminalWriter) emit(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

func (w *TerminalWriter) style(markup domain.Markup) *color.Color {
	var attrs []color.Attribute
	if markup.Bold {
		attrs = append(attrs, color.Bold)
	}
	switch markup.Color {
	case domain.ColorGreen:
		attrs = append(attrs, color.FgGreen)
	case domain.ColorRed:
		attrs = append(attrs, color.FgRed)
	case domain.ColorYellow:
		attrs = append(attrs, color.FgYellow)
	case domain.ColorCyan:
		attrs = append(attrs, color.FgCyan)
	}

	c := color.New(attrs...)
	switch {
	case len(attrs) == 0, w.mode == ColorNever:
		c.DisableColor()
	case w.mode == ColorAlways:
		c.EnableColor()
	}
	return c
}
