package plugin

import (
	"fmt"
	"log/slog"

	"rspecify/internal/config"
	"rspecify/internal/reporter"
)

// ConfigureRspec swaps the registered terminal reporter for the grouped
// Rspec reporter when --rspecify is set. Workers never activate it; the
// primary process does all the reporting. In quiet mode the default
// reporter stays in place.
func ConfigureRspec(cfg *config.Config, m *Manager, log *slog.Logger) error {
	if cfg.IsWorker() {
		log.Debug("rspecify inactive on worker", "worker", cfg.WorkerID)
		return nil
	}
	if !cfg.Rspecify {
		return nil
	}
	if cfg.Verbosity < 0 {
		log.Debug("rspecify inactive in quiet mode", "verbosity", cfg.Verbosity)
		return nil
	}

	p, ok := m.Get(TerminalReporter)
	if !ok {
		return fmt.Errorf("no %s registered", TerminalReporter)
	}
	standard, ok := p.(*reporter.Terminal)
	if !ok {
		return fmt.Errorf("%s is %T, expected the default terminal reporter", TerminalReporter, p)
	}

	m.Unregister(standard)
	if err := m.Register(TerminalReporter, reporter.NewRspec(standard)); err != nil {
		return err
	}
	log.Debug("rspecify reporter activated")
	return nil
}
