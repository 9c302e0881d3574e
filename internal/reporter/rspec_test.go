package reporter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/ui"
)

type countingWriter struct {
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return len(p), nil
}

func newTestRspec(t *testing.T, out io.Writer, verbosity int) *Rspec {
	t.Helper()
	cfg := config.New()
	cfg.Verbosity = verbosity
	tw := ui.NewTerminalWriter(out,
		ui.WithColorMode(ui.ColorNever),
		ui.WithWidth(40),
		ui.WithDirs("/repo", "/repo"),
	)
	return NewRspec(NewTerminal(cfg, tw, WithProgressWriter(io.Discard)))
}

func call(id string, outcome domain.Outcome) *domain.Report {
	return &domain.Report{
		NodeID:   id,
		Location: domain.Location{Path: strings.Split(id, "::")[0], Line: -1},
		When:     domain.PhaseCall,
		Outcome:  outcome,
	}
}

func start(r Reporter, id string) {
	r.LogStart(id, domain.Location{Path: strings.Split(id, "::")[0], Line: -1})
}

func TestRspec_GroupedOutput(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	start(r, "example.com/widget::TestWidget::creates_widget")
	r.LogReport(&domain.Report{NodeID: "example.com/widget::TestWidget::creates_widget", When: domain.PhaseSetup, Outcome: domain.OutcomePassed})
	r.LogReport(call("example.com/widget::TestWidget::creates_widget", domain.OutcomePassed))
	r.LogReport(&domain.Report{NodeID: "example.com/widget::TestWidget::creates_widget", When: domain.PhaseTeardown, Outcome: domain.OutcomePassed})

	start(r, "example.com/widget::TestWidget::deletes_widget")
	r.LogReport(call("example.com/widget::TestWidget::deletes_widget", domain.OutcomeFailed))

	start(r, "example.com/gadget::Test_other")
	r.LogReport(call("example.com/gadget::Test_other", domain.OutcomeSkipped))

	expected := "example.com/widget \n" +
		"TestWidget \n" +
		"creates widget (PASSED)\n" +
		"deletes widget (FAILED)\n" +
		"example.com/gadget \n" +
		"other (SKIPPED)"
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, []string{"example.com/widget", "example.com/gadget"}, r.TestFiles())
	assert.Equal(t, []string{"TestWidget"}, r.TestClasses())
}

func TestRspec_FileHeaderOncePerSession(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	ids := []string{
		"pkg/a::TestA::one",
		"pkg/a::TestA::two",
		"pkg/b::TestB::one",
		"pkg/a::TestA::three",
		"pkg/c::TestC::one",
	}
	for _, id := range ids {
		start(r, id)
		r.LogReport(call(id, domain.OutcomePassed))
	}

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "pkg/a "))
	assert.Equal(t, 1, strings.Count(out, "pkg/b "))
	assert.Equal(t, 1, strings.Count(out, "pkg/c "))
	assert.True(t, strings.HasPrefix(out, "pkg/a "), "first file header is not preceded by a line break")
	assert.Contains(t, out, "(PASSED)\npkg/b ")
	assert.NotContains(t, out, "\n\n")
	assert.Equal(t, []string{"pkg/a", "pkg/b", "pkg/c"}, r.TestFiles())
}

func TestRspec_NewSessionPrintsHeadersAgain(t *testing.T) {
	var buf bytes.Buffer
	first := newTestRspec(t, &buf, 0)
	id := "example.com/widget::TestWidget::creates_widget"

	start(first, id)
	first.LogReport(call(id, domain.OutcomePassed))
	first.Output().EnsureNewline()

	second := NewRspec(first.Terminal)
	assert.Empty(t, second.TestFiles())
	assert.Empty(t, second.TestClasses())

	start(second, id)
	second.LogReport(call(id, domain.OutcomePassed))

	header := "example.com/widget \nTestWidget \ncreates widget (PASSED)"
	assert.Equal(t, header+"\n"+header, buf.String())
	assert.Equal(t, []string{"example.com/widget"}, second.TestFiles())
	assert.Equal(t, []string{"TestWidget"}, second.TestClasses())
}

func TestRspec_ClassHeaderIndependentOfFile(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	start(r, "pkg/a::Shared::one")
	start(r, "pkg/b::Shared::two")
	start(r, "pkg/b::Other::three")

	assert.Equal(t, 1, strings.Count(buf.String(), "Shared "))
	assert.Equal(t, []string{"Shared", "Other"}, r.TestClasses())
	assert.Equal(t, "pkg/a \nShared \npkg/b \nOther ", buf.String())
}

func TestRspec_NoClassHeaderForShortIDs(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	start(r, "pkg/a::test_one")
	start(r, "pkg/a")

	assert.Empty(t, r.TestClasses())
	assert.Equal(t, "pkg/a ", buf.String())
}

func TestRspec_IntermediateReportWritesNothing(t *testing.T) {
	cw := &countingWriter{}
	r := newTestRspec(t, cw, 0)

	r.LogReport(&domain.Report{NodeID: "pkg::TestA::one", When: domain.PhaseSetup, Outcome: domain.OutcomePassed})
	r.LogReport(&domain.Report{NodeID: "pkg::TestA::one", When: domain.PhaseTeardown, Outcome: domain.OutcomePassed})

	assert.Zero(t, cw.writes)
	assert.True(t, r.Stats().TestsRan)
	assert.Empty(t, r.Stats().Categories())
}

func TestRspec_WorkerReport(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	start(r, "pkg/a::TestA::one")
	rep := call("pkg/a::TestA::one", domain.OutcomePassed)
	rep.Node = &domain.WorkerNode{GatewayID: "gw1"}
	r.LogReport(rep)

	start(r, "pkg/a::TestB::two")

	expected := "pkg/a \n" +
		"TestA \n" +
		"[gw1] PASSED pkg/a::TestA::one \n" +
		"TestB "
	assert.Equal(t, expected, buf.String())
}

func TestRspec_WorkerReportAtLineStart(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	rep := call("pkg/a::TestA::one", domain.OutcomeFailed)
	rep.Node = &domain.WorkerNode{GatewayID: "gw0"}
	r.LogReport(rep)
	r.LogReport(rep)

	assert.Equal(t, "[gw0] FAILED pkg/a::TestA::one \n[gw0] FAILED pkg/a::TestA::one ", buf.String())
}

func TestRspec_VerboseOutput(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 1)

	start(r, "pkg/a::TestA::test_one")
	r.LogReport(call("pkg/a::TestA::test_one", domain.OutcomePassed))
	start(r, "pkg/a::TestA::two")
	r.LogReport(call("pkg/a::TestA::two", domain.OutcomeFailed))

	expected := "pkg/a::TestA::test_one \n" +
		"one (PASSED)\n" +
		"pkg/a::TestA::two \n" +
		"two (FAILED)"
	assert.Equal(t, expected, buf.String())
	assert.Empty(t, r.TestFiles(), "verbose mode prints no group headers")
}

func TestRspec_QuietLogStartIsNoop(t *testing.T) {
	cw := &countingWriter{}
	r := newTestRspec(t, cw, -1)

	start(r, "pkg/a::TestA::one")

	assert.Zero(t, cw.writes)
	assert.Empty(t, r.TestFiles())
}

func TestRspec_WordMarkup(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.New()
	tw := ui.NewTerminalWriter(&buf, ui.WithColorMode(ui.ColorAlways), ui.WithWidth(40))
	r := NewRspec(NewTerminal(cfg, tw))

	r.LogReport(call("pkg::TestA::passes", domain.OutcomePassed))
	assert.Contains(t, buf.String(), "\x1b[32m(PASSED)")

	buf.Reset()
	r.LogReport(call("pkg::TestA::fails", domain.OutcomeFailed))
	assert.Contains(t, buf.String(), "\x1b[31m(FAILED)")

	buf.Reset()
	xfail := call("pkg::TestA::known", domain.OutcomeSkipped)
	xfail.WasXFail = "flaky upstream"
	r.LogReport(xfail)
	assert.Contains(t, buf.String(), "\x1b[33m(XFAIL)")
}

func TestRspec_StatsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRspec(t, &buf, 0)

	r.SessionStart(domain.SessionInfo{ID: "id", RootDir: "/repo", Workers: 1})
	start(r, "pkg/a::TestA::one")
	r.LogReport(call("pkg/a::TestA::one", domain.OutcomePassed))
	failed := call("pkg/a::TestA::two", domain.OutcomeFailed)
	failed.Longrepr = "expected 1, got 2\n"
	r.LogReport(failed)
	r.SessionFinish()

	require.NoError(t, r.Err())
	assert.Equal(t, 1, r.Stats().Count("passed"))
	assert.Equal(t, 1, r.Stats().Count("failed"))

	out := buf.String()
	assert.Contains(t, out, "test session starts")
	assert.Contains(t, out, "two (FAILED)\n")
	assert.Contains(t, out, "expected 1, got 2\n")
	assert.Contains(t, out, " 1 failed, 1 passed ")
}
