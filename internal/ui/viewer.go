package ui

import "rspecify/internal/domain"

// Viewer displays failed reports in an interactive TUI
type Viewer interface {
	View(reports []*domain.Report) error
}

var _ Viewer = (*FailureBrowser)(nil)
