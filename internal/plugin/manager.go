// Package plugin holds the registry of named plugins the session dispatches
// to. The active terminal reporter is registered under TerminalReporter and
// can be swapped for another implementation before the session starts.
package plugin

import (
	"fmt"

	"rspecify/internal/reporter"
	"rspecify/internal/status"
)

// TerminalReporter is the registry name of the active reporter
const TerminalReporter = "terminalreporter"

// Manager is a registry of named plugins plus the status classification hooks
type Manager struct {
	plugins map[string]any
	order   []string
	hooks   status.Chain
}

// NewManager creates an empty Manager
func NewManager() *Manager {
	return &Manager{plugins: make(map[string]any)}
}

// Register adds p under name
func (m *Manager) Register(name string, p any) error {
	if _, ok := m.plugins[name]; ok {
		return fmt.Errorf("plugin already registered: %s", name)
	}
	m.plugins[name] = p
	m.order = append(m.order, name)
	return nil
}

// Unregister removes p, wherever it is registered
func (m *Manager) Unregister(p any) {
	for i, name := range m.order {
		if m.plugins[name] == p {
			delete(m.plugins, name)
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Get returns the plugin registered under name
func (m *Manager) Get(name string) (any, bool) {
	p, ok := m.plugins[name]
	return p, ok
}

// Names returns the registered names in registration order
func (m *Manager) Names() []string {
	return append([]string(nil), m.order...)
}

// Reporter returns the active terminal reporter
func (m *Manager) Reporter() (reporter.Reporter, error) {
	p, ok := m.plugins[TerminalReporter]
	if !ok {
		return nil, fmt.Errorf("no %s registered", TerminalReporter)
	}
	r, ok := p.(reporter.Reporter)
	if !ok {
		return nil, fmt.Errorf("%s is %T, not a reporter", TerminalReporter, p)
	}
	return r, nil
}

// AddStatusHook adds a classifier consulted before the default classification
func (m *Manager) AddStatusHook(c status.Classifier) {
	m.hooks = append(m.hooks, c)
}

// Classifier returns the classifier chain reporters should use
func (m *Manager) Classifier() status.Classifier {
	return &m.hooks
}
