package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"rspecify/internal/domain"
	"rspecify/internal/nodeid"
)

const maxLineSize = 4 * 1024 * 1024

const xfailReason = "expected failure"

// GoTestParser parses the output of `go test -json`. Tests map to node IDs
// "package::TestName"; subtests add one segment per level, so
// TestA/b/c becomes "package::TestA::b::c".
//
// A parent test with subtests reports its own result as a teardown phase:
// hidden when it passed, and dropped entirely when one of its subtests
// already failed.
//
// A package level failure is reported as a setup error for the package
// unless one of its tests already reported the failure; this covers build
// errors as well as failures outside of tests, such as TestMain exiting
// non-zero after all tests passed.
type GoTestParser struct {
	node     *domain.WorkerNode
	filter   func(id string) bool
	expected func(id string) bool

	tests map[string]*testState
	pkgs  map[string]*pkgState
	stray strings.Builder
}

type testState struct {
	output    strings.Builder
	subtests  bool
	subFailed bool
}

type pkgState struct {
	output strings.Builder
	failed bool
}

// GoTestOption configures a GoTestParser
type GoTestOption func(*GoTestParser)

// WithNode tags every report with the worker that produced it
func WithNode(node *domain.WorkerNode) GoTestOption {
	return func(p *GoTestParser) {
		p.node = node
	}
}

// WithFilter drops test events whose node ID is not accepted by keep
func WithFilter(keep func(id string) bool) GoTestOption {
	return func(p *GoTestParser) {
		p.filter = keep
	}
}

// WithExpectedFailures marks the tests accepted by match as expected to
// fail: a failure is reported as xfailed and a pass as xpassed.
func WithExpectedFailures(match func(id string) bool) GoTestOption {
	return func(p *GoTestParser) {
		p.expected = match
	}
}

// NewGoTestParser creates a new GoTestParser
func NewGoTestParser(opts ...GoTestOption) *GoTestParser {
	p := &GoTestParser{
		tests: make(map[string]*testState),
		pkgs:  make(map[string]*pkgState),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stream reads r line by line and sends the decoded events on out
func (p *GoTestParser) Stream(ctx context.Context, r io.Reader, out chan<- domain.Event) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		for _, ev := range p.ParseLine(scanner.Bytes()) {
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read go test output: %w", err)
	}
	return nil
}

// ParseLine decodes one line of output into zero or more events
func (p *GoTestParser) ParseLine(line []byte) []domain.Event {
	if !bytes.HasPrefix(bytes.TrimSpace(line), []byte("{")) || !gjson.ValidBytes(line) {
		p.stray.Write(line)
		p.stray.WriteByte('\n')
		return nil
	}

	fields := gjson.GetManyBytes(line, "Action", "Package", "Test", "Output", "ImportPath")
	action, pkg, test, output := fields[0].String(), fields[1].String(), fields[2].String(), fields[3].String()

	if action == "build-output" {
		importPath, _, _ := strings.Cut(fields[4].String(), " ")
		p.pkg(importPath).output.WriteString(output)
		return nil
	}
	if test == "" {
		return p.packageEvent(action, pkg, output)
	}
	if p.filter != nil && !p.filter(testNodeID(pkg, test)) {
		// a deselected failure still accounts for the package failing
		if action == "fail" {
			p.pkg(pkg).failed = true
		}
		return nil
	}
	return p.testEvent(action, pkg, test, output)
}

func (p *GoTestParser) packageEvent(action, pkg, output string) []domain.Event {
	st := p.pkg(pkg)
	switch action {
	case "output":
		st.output.WriteString(output)
	case "fail":
		if st.failed {
			return nil
		}
		st.failed = true
		longrepr := st.output.String() + p.stray.String()
		p.stray.Reset()
		return []domain.Event{p.report(pkg, domain.Location{Path: pkg, Line: -1}, domain.PhaseSetup, domain.OutcomeFailed, longrepr)}
	}
	return nil
}

func (p *GoTestParser) testEvent(action, pkg, test, output string) []domain.Event {
	key := pkg + " " + test
	id := testNodeID(pkg, test)
	loc := domain.Location{Path: pkg, Line: -1, Domain: strings.ReplaceAll(test, "/", ".")}

	switch action {
	case "run":
		p.tests[key] = &testState{}
		if parent, ok := p.tests[pkg+" "+parentTest(test)]; ok && parent != p.tests[key] {
			parent.subtests = true
		}
		return []domain.Event{&domain.TestStart{NodeID: id, Location: loc}}

	case "output":
		if st, ok := p.tests[key]; ok && !strings.HasPrefix(output, "=== ") {
			st.output.WriteString(output)
		}
		return nil

	case "pass", "fail", "skip":
		st, ok := p.tests[key]
		if !ok {
			st = &testState{}
		}
		delete(p.tests, key)

		outcome := outcomeOf(action)
		if outcome == domain.OutcomeFailed {
			p.markAncestorsFailed(pkg, test)
			p.pkg(pkg).failed = true
		}

		when := domain.PhaseCall
		if st.subtests {
			if outcome == domain.OutcomeFailed && st.subFailed {
				return nil
			}
			when = domain.PhaseTeardown
		}

		var longrepr string
		if outcome != domain.OutcomePassed {
			longrepr = st.output.String()
		}
		rep := p.report(id, loc, when, outcome, longrepr)
		if when == domain.PhaseCall && p.expected != nil && p.expected(id) {
			p.expectFailure(rep)
		}
		return []domain.Event{rep}
	}
	return nil
}

func (p *GoTestParser) report(id string, loc domain.Location, when domain.Phase, outcome domain.Outcome, longrepr string) *domain.Report {
	return &domain.Report{
		NodeID:   id,
		Location: loc,
		When:     when,
		Outcome:  outcome,
		Longrepr: longrepr,
		Node:     p.node,
	}
}

// expectFailure turns the outcome of an expected failure into the xfail form:
// a failure becomes a skip and both carry the reason.
func (p *GoTestParser) expectFailure(rep *domain.Report) {
	switch rep.Outcome {
	case domain.OutcomeFailed:
		rep.Outcome = domain.OutcomeSkipped
		rep.WasXFail = xfailReason
	case domain.OutcomePassed:
		rep.WasXFail = xfailReason
	}
}

func (p *GoTestParser) markAncestorsFailed(pkg, test string) {
	for parent := parentTest(test); parent != test; test, parent = parent, parentTest(parent) {
		if st, ok := p.tests[pkg+" "+parent]; ok {
			st.subFailed = true
		}
	}
}

func (p *GoTestParser) pkg(name string) *pkgState {
	st, ok := p.pkgs[name]
	if !ok {
		st = &pkgState{}
		p.pkgs[name] = st
	}
	return st
}

func outcomeOf(action string) domain.Outcome {
	switch action {
	case "pass":
		return domain.OutcomePassed
	case "fail":
		return domain.OutcomeFailed
	}
	return domain.OutcomeSkipped
}

// testNodeID builds the node ID of a test in a package
func testNodeID(pkg, test string) string {
	return nodeid.Join(append([]string{pkg}, strings.Split(test, "/")...)...)
}

// parentTest returns the parent of a subtest name, or the name itself for a
// top level test.
func parentTest(test string) string {
	i := strings.LastIndex(test, "/")
	if i < 0 {
		return test
	}
	return test[:i]
}
