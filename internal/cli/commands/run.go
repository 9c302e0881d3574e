package commands

import (
	"context"
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rspecify/internal/domain"
	"rspecify/internal/execution"
	"rspecify/internal/session"
)

const eventBuffer = 64

// RunCommand handles the run command
type RunCommand struct {
	cmds *Commands
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	c := rc.cmds
	cfg := c.config

	testPath := c.testPath(args)
	packages, err := c.discover(testPath)
	if err != nil {
		return err
	}
	if len(packages) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}
	packages = projectPatterns(cfg.ProjectPath, testPath, packages)
	c.log.Debug("discovered packages", "count", len(packages), "workers", cfg.Workers)

	pool := execution.NewWorkerPool(cfg, execution.NewRunner(cfg), execution.NewRoundRobinScheduler(), c.log)
	if keep := matcher(cfg.Flags.NameFilter); keep != nil {
		pool.SetFilter(keep)
	}
	if expected := matcher(cfg.ExpectedFailures...); expected != nil {
		pool.SetExpectedFailures(expected)
	}

	tw := c.terminalWriter()
	sess, err := c.newSession(tw)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events := make(chan domain.Event, eventBuffer)
	execDone := make(chan error, 1)
	var executor execution.Executor = pool
	go func() {
		execDone <- executor.Execute(ctx, packages, events)
	}()

	rep, runErr := sess.Run(ctx, events)
	cancel()
	execErr := <-execDone
	if runErr != nil && !errors.Is(runErr, session.ErrTestsFailed) {
		return runErr
	}
	if execErr != nil {
		return execErr
	}
	if err := c.browse(tw, rep); err != nil {
		return err
	}
	return runErr
}
