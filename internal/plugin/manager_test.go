package plugin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/logging"
	"rspecify/internal/reporter"
	"rspecify/internal/status"
	"rspecify/internal/ui"
)

func newManager(t *testing.T, cfg *config.Config) (*Manager, *reporter.Terminal) {
	t.Helper()
	m := NewManager()
	tw := ui.NewTerminalWriter(&bytes.Buffer{}, ui.WithColorMode(ui.ColorNever))
	term := reporter.NewTerminal(cfg, tw, reporter.WithClassifier(m.Classifier()))
	require.NoError(t, m.Register(TerminalReporter, term))
	return m, term
}

func TestManager_Registry(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register("a", 1))
	require.NoError(t, m.Register("b", "two"))
	assert.Error(t, m.Register("a", 3))

	p, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "two", p)

	m.Unregister(1)
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, m.Names())

	_, err := m.Reporter()
	assert.Error(t, err)

	require.NoError(t, m.Register(TerminalReporter, "not a reporter"))
	_, err = m.Reporter()
	assert.Error(t, err)
}

func TestManager_StatusHooks(t *testing.T) {
	m := NewManager()
	classifier := m.Classifier()

	// hooks added after the classifier was handed out are still consulted
	m.AddStatusHook(status.ClassifierFunc(func(rep *domain.Report) (domain.Status, bool) {
		return domain.Status{Category: "custom", Letter: "C"}, true
	}))

	st := status.Resolve(classifier, &domain.Report{When: domain.PhaseCall, Outcome: domain.OutcomePassed})
	assert.Equal(t, "custom", st.Category)
}

func TestConfigureRspec(t *testing.T) {
	tests := []struct {
		name      string
		rspecify  bool
		worker    string
		verbosity int
		swapped   bool
	}{
		{name: "flag off", rspecify: false, swapped: false},
		{name: "flag on", rspecify: true, swapped: true},
		{name: "flag on verbose", rspecify: true, verbosity: 2, swapped: true},
		{name: "worker process", rspecify: true, worker: "gw1", swapped: false},
		{name: "quiet", rspecify: true, verbosity: -1, swapped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Rspecify = tt.rspecify
			cfg.WorkerID = tt.worker
			cfg.Verbosity = tt.verbosity
			m, standard := newManager(t, cfg)

			require.NoError(t, ConfigureRspec(cfg, m, logging.Discard()))

			r, err := m.Reporter()
			require.NoError(t, err)
			if tt.swapped {
				rspec, ok := r.(*reporter.Rspec)
				require.True(t, ok, "expected rspec reporter, got %T", r)
				assert.Same(t, standard.Output(), rspec.Output())
				assert.Same(t, standard.Stats(), rspec.Stats())
			} else {
				assert.Same(t, standard, r)
			}
		})
	}
}

func TestConfigureRspec_MissingReporter(t *testing.T) {
	cfg := config.New()
	cfg.Rspecify = true
	assert.Error(t, ConfigureRspec(cfg, NewManager(), logging.Discard()))
}
