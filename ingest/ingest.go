package ingest

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/davidvella/marc"
	"github.com/davidvella/marc/record"
	"github.com/davidvella/marc/source"
	"github.com/davidvella/marc/store"
	"github.com/sirupsen/logrus"
)

// Summary counts the outcome of loading one or more batches.
type Summary struct {
	Loaded             int
	DecodeErrors       int
	ConstructionErrors int
	Skipped            int
}

func (s *Summary) add(o Summary) {
	s.Loaded += o.Loaded
	s.DecodeErrors += o.DecodeErrors
	s.ConstructionErrors += o.ConstructionErrors
	s.Skipped += o.Skipped
}

// Loader puts every record it is handed into a store. It implements
// handler.Handler.
type Loader struct {
	store  store.Store
	logger logrus.FieldLogger

	mu      sync.Mutex
	summary Summary
}

func NewLoader(s store.Store, logger logrus.FieldLogger) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{
		store:  s,
		logger: logger.WithField("component", "ingest"),
	}
}

// Handle loads the records of one batch. Records that failed to decode or
// build, or that carry no control number, are counted and skipped. A framing
// error stops the batch.
func (l *Loader) Handle(ctx context.Context, name string, records iter.Seq2[*record.Record, error]) error {
	var batch Summary
	defer func() {
		l.mu.Lock()
		l.summary.add(batch)
		l.mu.Unlock()
	}()

	logger := l.logger.WithField("batch", name)

	for rec, err := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			de *marc.DecodeError
			ce *marc.ConstructionError
		)
		switch {
		case errors.As(err, &de):
			batch.DecodeErrors++
			continue
		case errors.As(err, &ce):
			batch.ConstructionErrors++
			continue
		case err != nil:
			return err
		}

		e, err := store.FromRecord(name, rec)
		if errors.Is(err, store.ErrNoControlNumber) {
			batch.Skipped++
			logger.WithField("offset", rec.Offset).Debug("skipping record without control number")
			continue
		}
		if err != nil {
			return err
		}

		if err := l.store.Put(ctx, e); err != nil {
			return fmt.Errorf("failed to store record %s: %w", e.ControlNumber, err)
		}
		batch.Loaded++
	}

	logger.WithFields(logrus.Fields{
		"loaded":              batch.Loaded,
		"decode_errors":       batch.DecodeErrors,
		"construction_errors": batch.ConstructionErrors,
		"skipped":             batch.Skipped,
	}).Info("batch loaded")

	return nil
}

// Summary returns the totals across every batch handled so far.
func (l *Loader) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.summary
}

// LoadInputs reads each input in turn and loads its records.
func (l *Loader) LoadInputs(ctx context.Context, inputs []source.Input, opts ...marc.Option) error {
	for _, in := range inputs {
		r, err := marc.NewReader(in, opts...)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", in.Name(), err)
		}

		err = l.Handle(ctx, in.Name(), r.All())
		r.Close()
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", in.Name(), err)
		}
	}
	return nil
}
