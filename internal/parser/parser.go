package parser

import (
	"context"
	"io"

	"rspecify/internal/domain"
)

// Parser turns a test runner's output into lifecycle events
type Parser interface {
	Stream(ctx context.Context, r io.Reader, out chan<- domain.Event) error
}
