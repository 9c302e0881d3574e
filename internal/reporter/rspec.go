package reporter

import (
	"fmt"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/nodeid"
)

// Rspec takes over from a Terminal reporter and prints results grouped under
// one header per file and per class, with humanized test names and a
// colored status word:
//
//	internal/widget
//	TestWidget
//	creates widget (PASSED)
//	rejects bad input (FAILED)
//
// It reuses the Terminal's configuration, output and stats; session start and
// finish are left to the Terminal.
type Rspec struct {
	*Terminal

	cfg *config.Config
	out *Output

	testFiles   []string
	testClasses []string
	seenFiles   map[string]bool
	seenClasses map[string]bool
}

// NewRspec creates an Rspec reporter decorating base
func NewRspec(base *Terminal) *Rspec {
	return &Rspec{
		Terminal:    base,
		cfg:         base.Config(),
		out:         base.Output(),
		seenFiles:   make(map[string]bool),
		seenClasses: make(map[string]bool),
	}
}

// TestFiles returns the files whose header was printed, in order
func (r *Rspec) TestFiles() []string {
	return r.testFiles
}

// TestClasses returns the classes whose header was printed, in order
func (r *Rspec) TestClasses() []string {
	return r.testClasses
}

// LogStart prints the location line in verbose mode, otherwise the file and
// class headers the first time they are seen.
func (r *Rspec) LogStart(id string, loc domain.Location) {
	switch {
	case r.cfg.ShowLongTestInfo():
		r.out.EnsurePrefix(r.LocationLine(id, loc), "", domain.Markup{})
	case r.cfg.ShowFSPath():
		r.writePathName(id)
		r.writeClassName(id)
	}
}

func (r *Rspec) writePathName(id string) {
	file := nodeid.File(id)
	if r.seenFiles[file] {
		return
	}
	if len(r.testFiles) > 0 {
		r.out.EnsureNewline()
	}
	r.seenFiles[file] = true
	r.testFiles = append(r.testFiles, file)
	r.out.FSPath(file, domain.Markup{Bold: true})
}

func (r *Rspec) writeClassName(id string) {
	class, ok := nodeid.Class(id)
	if !ok || r.seenClasses[class] {
		return
	}
	r.seenClasses[class] = true
	r.testClasses = append(r.testClasses, class)
	r.out.Header(class, class, domain.Markup{})
}

// LogReport prints the humanized test name followed by the status word.
// Reports from a worker are printed on their own line with the worker tag.
func (r *Rspec) LogReport(rep *domain.Report) {
	title := nodeid.Humanize(rep.NodeID)
	st, markup := r.Record(rep)
	if st.Intermediate() {
		return
	}

	line := r.LocationLine(rep.NodeID, rep.Location)
	if rep.Node == nil {
		r.out.EnsurePrefix(title, "("+st.Word.Label+")", markup)
		return
	}

	r.out.EnsureNewline()
	r.out.Write(fmt.Sprintf("[%s] ", rep.Node.GatewayID), domain.Markup{})
	r.out.Write(st.Word.Label, markup)
	r.out.Write(" "+line, domain.Markup{})
	r.out.Force()
}
