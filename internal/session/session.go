// Package session drives a reporter through one test session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/plugin"
	"rspecify/internal/reporter"
)

// ErrTestsFailed is returned by Run when at least one test failed or errored
var ErrTestsFailed = errors.New("tests failed")

// Session dispatches test events to the active reporter
type Session struct {
	config  *config.Config
	manager *plugin.Manager
	log     *slog.Logger
}

// New creates a new Session
func New(cfg *config.Config, m *plugin.Manager, log *slog.Logger) *Session {
	return &Session{config: cfg, manager: m, log: log}
}

// Run reports every event received on events until the channel is closed or
// ctx is done. It returns the reporter it used so callers can inspect the
// collected stats.
func (s *Session) Run(ctx context.Context, events <-chan domain.Event) (reporter.Reporter, error) {
	rep, err := s.manager.Reporter()
	if err != nil {
		return nil, err
	}

	info := domain.SessionInfo{
		ID:      uuid.NewString(),
		RootDir: s.config.RootDir(),
		Workers: s.config.Workers,
	}
	s.log.Debug("dispatching session", "id", info.ID, "reporter", fmt.Sprintf("%T", rep), "plugins", s.manager.Names())

	rep.SessionStart(info)
	runErr := s.dispatch(ctx, rep, events)
	rep.SessionFinish()

	if runErr != nil {
		return rep, runErr
	}
	if err := rep.Err(); err != nil {
		return rep, fmt.Errorf("write report: %w", err)
	}
	if rep.Stats().HasFailures() {
		return rep, ErrTestsFailed
	}
	return rep, nil
}

func (s *Session) dispatch(ctx context.Context, rep reporter.Reporter, events <-chan domain.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.log.Debug("event", "node", domain.NodeIDOf(ev), "type", fmt.Sprintf("%T", ev))
			switch e := ev.(type) {
			case *domain.TestStart:
				rep.LogStart(e.NodeID, e.Location)
			case *domain.Report:
				rep.LogReport(e)
			}
		}
	}
}
