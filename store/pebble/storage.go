package pebble

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/davidvella/marc/entryio"
	"github.com/davidvella/marc/store"
)

// entryPrefix namespaces entry keys.
var entryPrefix = []byte("entry/")

// StorageOptions configures the storage.
type StorageOptions struct {
	Path         string
	CacheSize    int64
	MaxOpenFiles int
	// Sync forces a disk sync after each Put.
	Sync bool
}

// DefaultStorageOptions returns options for a database at path.
func DefaultStorageOptions(path string) StorageOptions {
	return StorageOptions{
		Path:         path,
		CacheSize:    8 << 20,
		MaxOpenFiles: 100,
	}
}

// Storage implements store.Store using Pebble. Values are encoded with
// entryio.
type Storage struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

func NewStorage(opts StorageOptions) (*Storage, error) {
	cache := pebble.NewCache(opts.CacheSize)
	defer cache.Unref()

	pebbleOpts := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: opts.MaxOpenFiles,
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := pebble.Open(opts.Path, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", opts.Path, err)
	}

	writeOpts := pebble.NoSync
	if opts.Sync {
		writeOpts = pebble.Sync
	}

	return &Storage{
		db:        db,
		writeOpts: writeOpts,
	}, nil
}

func entryKey(controlNumber string) []byte {
	key := make([]byte, 0, len(entryPrefix)+len(controlNumber))
	key = append(key, entryPrefix...)
	return append(key, controlNumber...)
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *Storage) Put(_ context.Context, e store.Entry) error {
	if e.ControlNumber == "" {
		return store.ErrNoControlNumber
	}

	value, err := entryio.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to serialize entry: %w", err)
	}

	if err := s.db.Set(entryKey(e.ControlNumber), value, s.writeOpts); err != nil {
		return fmt.Errorf("failed to put entry %s: %w", e.ControlNumber, err)
	}
	return nil
}

func (s *Storage) Get(_ context.Context, controlNumber string) (store.Entry, error) {
	value, closer, err := s.db.Get(entryKey(controlNumber))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return store.Entry{}, store.ErrNotFound
		}
		return store.Entry{}, err
	}
	defer closer.Close()

	e, err := entryio.Unmarshal(value)
	if err != nil {
		return store.Entry{}, fmt.Errorf("failed to deserialize entry %s: %w", controlNumber, err)
	}
	return e, nil
}

func (s *Storage) All(ctx context.Context) iter.Seq2[store.Entry, error] {
	return func(yield func(store.Entry, error) bool) {
		it, err := s.db.NewIter(&pebble.IterOptions{
			LowerBound: entryPrefix,
			UpperBound: prefixUpperBound(entryPrefix),
		})
		if err != nil {
			yield(store.Entry{}, err)
			return
		}
		defer it.Close()

		for it.First(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				yield(store.Entry{}, err)
				return
			}

			e, err := entryio.Unmarshal(it.Value())
			if err != nil {
				err = fmt.Errorf("failed to deserialize entry %s: %w", it.Key()[len(entryPrefix):], err)
			}
			if !yield(e, err) {
				return
			}
		}

		if err := it.Error(); err != nil {
			yield(store.Entry{}, err)
		}
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}
