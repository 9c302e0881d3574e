// Package reporter renders test lifecycle events on a terminal writer.
//
// Terminal is the default reporter. Rspec decorates an existing Terminal
// and prints results grouped by file and class with humanized test names.
package reporter

import (
	"sort"

	"rspecify/internal/domain"
)

// Reporter receives test lifecycle events in order, one at a time
type Reporter interface {
	SessionStart(info domain.SessionInfo)
	LogStart(nodeID string, loc domain.Location)
	LogReport(rep *domain.Report)
	SessionFinish()
	Stats() *Stats
	Err() error
}

// Stats collects reports per status category in arrival order
type Stats struct {
	order    []string
	reports  map[string][]*domain.Report
	TestsRan bool
}

// NewStats creates empty stats
func NewStats() *Stats {
	return &Stats{reports: make(map[string][]*domain.Report)}
}

// Add records rep under category
func (s *Stats) Add(category string, rep *domain.Report) {
	if _, ok := s.reports[category]; !ok {
		s.order = append(s.order, category)
	}
	s.reports[category] = append(s.reports[category], rep)
}

// Get returns the reports recorded under category
func (s *Stats) Get(category string) []*domain.Report {
	return s.reports[category]
}

// Count returns the number of reports under category
func (s *Stats) Count(category string) int {
	return len(s.Get(category))
}

// Categories returns the non-empty categories in arrival order
func (s *Stats) Categories() []string {
	var out []string
	for _, c := range s.order {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Failed returns failed and errored reports
func (s *Stats) Failed() []*domain.Report {
	var out []*domain.Report
	out = append(out, s.Get("failed")...)
	out = append(out, s.Get("error")...)
	return out
}

// HasFailures reports whether any test failed or errored
func (s *Stats) HasFailures() bool {
	return s.Count("failed")+s.Count("error") > 0
}

var knownCategories = []string{"failed", "passed", "skipped", "xfailed", "xpassed", "error"}

// summaryCategories returns the categories in summary order: the known ones
// first, then any custom category alphabetically.
func (s *Stats) summaryCategories() []string {
	known := make(map[string]bool, len(knownCategories))
	var out []string
	for _, c := range knownCategories {
		known[c] = true
		if s.Count(c) > 0 {
			out = append(out, c)
		}
	}
	var extra []string
	for _, c := range s.Categories() {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
