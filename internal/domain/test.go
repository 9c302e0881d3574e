package domain

// Location points at the source of a test
type Location struct {
	Path   string // File or package path the test lives in
	Line   int    // Line number, -1 when unknown
	Domain string // Dotted test name inside the file
}

// Event is a test lifecycle event produced by an event source
type Event interface {
	eventNodeID() string
}

// TestStart is emitted right before a test runs
type TestStart struct {
	NodeID   string
	Location Location
}

func (s *TestStart) eventNodeID() string { return s.NodeID }

// WorkerNode identifies the worker process that produced a report
type WorkerNode struct {
	GatewayID string
}

// Phase is the test phase a report describes
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// Outcome is the result of a single phase
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Report describes the outcome of one test phase
type Report struct {
	NodeID   string
	Location Location
	When     Phase
	Outcome  Outcome
	Longrepr string      // Captured output / failure text
	WasXFail string      // Reason when the test was expected to fail
	Node     *WorkerNode // Set only under multi-worker execution
}

func (r *Report) eventNodeID() string { return r.NodeID }

// Passed reports whether the phase passed
func (r *Report) Passed() bool { return r.Outcome == OutcomePassed }

// Failed reports whether the phase failed
func (r *Report) Failed() bool { return r.Outcome == OutcomeFailed }

// Skipped reports whether the phase was skipped
func (r *Report) Skipped() bool { return r.Outcome == OutcomeSkipped }

// NodeIDOf returns the node ID an event refers to
func NodeIDOf(e Event) string {
	return e.eventNodeID()
}
