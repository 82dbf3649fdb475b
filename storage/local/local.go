package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions treated as MARC batches.
var DefaultExtensions = []string{".mrc", ".marc", ".dat"}

// Storage implements consumer.Storage using the local filesystem. Batches are
// read from the inbox directory and moved to the done directory once
// processed. With no done directory they are removed instead.
type Storage struct {
	inboxDir   string
	doneDir    string
	extensions []string
}

func NewLocalStorage(inboxDir, doneDir string) *Storage {
	return &Storage{
		inboxDir:   inboxDir,
		doneDir:    doneDir,
		extensions: DefaultExtensions,
	}
}

// WithExtensions restricts the batches listed to the given extensions.
func (s *Storage) WithExtensions(ext ...string) *Storage {
	s.extensions = ext
	return s
}

// Dir returns the inbox directory.
func (s *Storage) Dir() string {
	return s.inboxDir
}

func (s *Storage) isBatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(s.extensions, ext)
}

// List lists the batch files in the inbox, sorted by name.
func (s *Storage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && s.isBatch(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// Open opens a batch for reading.
func (s *Storage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.inboxDir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", name, err)
	}
	return file, nil
}

// Complete moves a processed batch out of the inbox.
func (s *Storage) Complete(_ context.Context, name string) error {
	path := filepath.Join(s.inboxDir, filepath.Base(name))

	if s.doneDir == "" {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete file %s: %w", name, err)
		}
		return nil
	}

	if err := os.MkdirAll(s.doneDir, 0o755); err != nil {
		return fmt.Errorf("failed to create done directory: %w", err)
	}
	if err := os.Rename(path, filepath.Join(s.doneDir, filepath.Base(name))); err != nil {
		return fmt.Errorf("failed to move file %s: %w", name, err)
	}
	return nil
}
