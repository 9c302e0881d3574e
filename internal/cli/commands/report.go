package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rspecify/internal/domain"
	"rspecify/internal/parser"
	"rspecify/internal/session"
)

// ReportCommand handles the report command
type ReportCommand struct {
	cmds *Commands
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	c := rc.cmds

	in := cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open report input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var opts []parser.GoTestOption
	if keep := matcher(c.config.Flags.NameFilter); keep != nil {
		opts = append(opts, parser.WithFilter(keep))
	}
	if expected := matcher(c.config.ExpectedFailures...); expected != nil {
		opts = append(opts, parser.WithExpectedFailures(expected))
	}
	var p parser.Parser = parser.NewGoTestParser(opts...)

	tw := c.terminalWriter()
	sess, err := c.newSession(tw)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events := make(chan domain.Event, eventBuffer)
	streamErr := make(chan error, 1)
	go func() {
		defer close(events)
		streamErr <- p.Stream(ctx, in, events)
	}()

	rep, runErr := sess.Run(ctx, events)
	cancel()
	readErr := <-streamErr
	if runErr != nil && !errors.Is(runErr, session.ErrTestsFailed) {
		return runErr
	}
	if readErr != nil {
		return readErr
	}
	if err := c.browse(tw, rep); err != nil {
		return err
	}
	return runErr
}
