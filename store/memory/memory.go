package memory

import (
	"context"
	"iter"
	"sync"

	"github.com/davidvella/marc/store"
	"github.com/google/btree"
)

// Storage keeps entries in a B-tree ordered by control number.
type Storage struct {
	mu      sync.RWMutex
	entries *btree.BTreeG[store.Entry]
	closed  bool
}

func NewStorage() *Storage {
	return &Storage{
		entries: btree.NewG[store.Entry](2, func(a, b store.Entry) bool {
			return a.ControlNumber < b.ControlNumber
		}),
	}
}

func (s *Storage) Put(_ context.Context, e store.Entry) error {
	if e.ControlNumber == "" {
		return store.ErrNoControlNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	s.entries.ReplaceOrInsert(e)
	return nil
}

func (s *Storage) Get(_ context.Context, controlNumber string) (store.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return store.Entry{}, store.ErrClosed
	}
	e, ok := s.entries.Get(store.Entry{ControlNumber: controlNumber})
	if !ok {
		return store.Entry{}, store.ErrNotFound
	}
	return e, nil
}

// All yields a snapshot of the entries taken when iteration starts.
func (s *Storage) All(ctx context.Context) iter.Seq2[store.Entry, error] {
	return func(yield func(store.Entry, error) bool) {
		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			yield(store.Entry{}, store.ErrClosed)
			return
		}
		snapshot := s.entries.Clone()
		s.mu.RUnlock()

		snapshot.Ascend(func(e store.Entry) bool {
			if err := ctx.Err(); err != nil {
				yield(store.Entry{}, err)
				return false
			}
			return yield(e, nil)
		})
	}
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Len()
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
