package execution

import (
	"context"

	"rspecify/internal/domain"
)

// Executor runs test packages and streams their events on out, closing it
// when done
type Executor interface {
	Execute(ctx context.Context, packages []string, out chan<- domain.Event) error
}
