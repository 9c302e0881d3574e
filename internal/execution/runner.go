package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/parser"
)

// Runner executes go test for a set of packages
type Runner struct {
	config *config.Config
	goBin  string
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg, goBin: "go"}
}

// Command builds the go test command for a worker. workerID is empty when
// only one worker runs.
func (r *Runner) Command(ctx context.Context, packages []string, workerID string) *exec.Cmd {
	args := []string{"test", "-json"}
	args = append(args, r.config.GoTestArgs...)
	args = append(args, packages...)
	cmd := exec.CommandContext(ctx, r.goBin, args...)

	cmd.Env = os.Environ()
	if workerID != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", config.EnvWorker, workerID))
	}

	// Set working directory
	cmd.Dir = r.config.ProjectPath
	return cmd
}

// Run executes go test and streams its output through p onto out. A non-zero
// exit status is not an error: failures are reported as events.
func (r *Runner) Run(ctx context.Context, packages []string, workerID string, p parser.Parser, out chan<- domain.Event) error {
	cmd := r.Command(ctx, packages, workerID)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go test: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		waitErr <- err
	}()

	streamErr := p.Stream(ctx, pr, out)
	if streamErr != nil {
		// unblock the process if it is still writing
		pr.CloseWithError(streamErr)
	}
	err := <-waitErr

	if streamErr != nil {
		return streamErr
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("run go test: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
