package store

import (
	"context"
	"errors"
	"iter"

	"github.com/davidvella/marc/record"
)

var (
	ErrNotFound        = errors.New("store: entry not found")
	ErrNoControlNumber = errors.New("store: record has no control number")
	ErrClosed          = errors.New("store: closed")
)

// Entry is a decoded record together with where it was framed from.
type Entry struct {
	ControlNumber string
	Source        string
	Offset        int64
	Length        int64
	Text          string
}

// FromRecord builds the entry for rec read from the named source.
func FromRecord(sourceName string, rec *record.Record) (Entry, error) {
	id := rec.ControlNumber()
	if id == "" {
		return Entry{}, ErrNoControlNumber
	}
	return Entry{
		ControlNumber: id,
		Source:        sourceName,
		Offset:        rec.Offset,
		Length:        int64(rec.Length),
		Text:          rec.Text(),
	}, nil
}

// Store keeps entries keyed by control number. A later Put with the same
// control number replaces the earlier entry.
type Store interface {
	Put(ctx context.Context, e Entry) error
	Get(ctx context.Context, controlNumber string) (Entry, error)
	// All yields entries in ascending control number order.
	All(ctx context.Context) iter.Seq2[Entry, error]
	Close() error
}
