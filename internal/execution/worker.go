package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"rspecify/internal/config"
	"rspecify/internal/domain"
	"rspecify/internal/parser"
)

// WorkerPool runs go test in parallel workers. Every worker parses its own
// output; events from all workers are merged onto a single channel so the
// session still sees them one at a time.
type WorkerPool struct {
	config    *config.Config
	runner    *Runner
	scheduler Scheduler
	filter    func(id string) bool
	expected  func(id string) bool
	log       *slog.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, scheduler Scheduler, log *slog.Logger) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		log:       log,
	}
}

// SetFilter drops test events whose node ID is not accepted by keep
func (wp *WorkerPool) SetFilter(keep func(id string) bool) {
	wp.filter = keep
}

// SetExpectedFailures marks the tests accepted by match as expected to fail
func (wp *WorkerPool) SetExpectedFailures(match func(id string) bool) {
	wp.expected = match
}

// GatewayID returns the label of the i-th worker
func GatewayID(i int) string {
	return fmt.Sprintf("gw%d", i)
}

// Execute runs packages across the configured number of workers and sends
// their events on out. out is closed once every worker is done.
func (wp *WorkerPool) Execute(ctx context.Context, packages []string, out chan<- domain.Event) error {
	defer close(out)
	if len(packages) == 0 {
		return nil
	}

	shards := wp.scheduler.Schedule(packages, wp.config.Workers)
	distributed := len(shards) > 1

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, shard := range shards {
		wg.Add(1)
		go func(i int, shard []string) {
			defer wg.Done()

			var opts []parser.GoTestOption
			workerID := ""
			if distributed {
				workerID = GatewayID(i)
				opts = append(opts, parser.WithNode(&domain.WorkerNode{GatewayID: workerID}))
			}
			if wp.filter != nil {
				opts = append(opts, parser.WithFilter(wp.filter))
			}
			if wp.expected != nil {
				opts = append(opts, parser.WithExpectedFailures(wp.expected))
			}

			wp.log.Debug("worker started", "worker", workerID, "packages", len(shard))
			err := wp.runner.Run(ctx, shard, workerID, parser.NewGoTestParser(opts...), out)
			wp.log.Debug("worker finished", "worker", workerID, "error", err)

			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("worker %s: %w", workerID, err))
				mu.Unlock()
			}
		}(i, shard)
	}
	wg.Wait()

	return errors.Join(errs...)
}
