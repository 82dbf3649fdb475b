package handler

import (
	"context"
	"iter"

	"github.com/davidvella/marc/record"
)

// Handler defines the interface for processing the records of one batch.
type Handler interface {
	// Handle processes the records framed from the named batch. Records that
	// failed to decode or build arrive as a nil record and a non-nil error.
	Handle(ctx context.Context, name string, records iter.Seq2[*record.Record, error]) error
}

// Func is a function type that implements Handler.
type Func func(ctx context.Context, name string, records iter.Seq2[*record.Record, error]) error

// Handle calls the function.
func (f Func) Handle(ctx context.Context, name string, records iter.Seq2[*record.Record, error]) error {
	return f(ctx, name, records)
}
