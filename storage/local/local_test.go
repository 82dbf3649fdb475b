package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (inboxDir, doneDir string) {
	t.Helper()
	return t.TempDir(), t.TempDir()
}

func TestStorage_List(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "empty directory",
			files: []string{},
			want:  nil,
		},
		{
			name:  "batch files sorted",
			files: []string{"b.mrc", "a.dat", "c.MARC"},
			want:  []string{"a.dat", "b.mrc", "c.MARC"},
		},
		{
			name:  "other files and subdirectories skipped",
			files: []string{"a.mrc", "notes.txt", "subdir/"},
			want:  []string{"a.mrc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inboxDir, doneDir := setupTest(t)

			for _, f := range tt.files {
				if filepath.Ext(f) == "" {
					require.NoError(t, os.MkdirAll(filepath.Join(inboxDir, f), 0o700))
				} else {
					require.NoError(t, os.WriteFile(filepath.Join(inboxDir, f), []byte("content"), 0o600))
				}
			}

			s := NewLocalStorage(inboxDir, doneDir)
			files, err := s.List(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestStorage_ListMissingDir(t *testing.T) {
	s := NewLocalStorage(filepath.Join(t.TempDir(), "missing"), "")
	_, err := s.List(context.Background())
	assert.Error(t, err)
}

func TestStorage_WithExtensions(t *testing.T) {
	inboxDir, doneDir := setupTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(inboxDir, "a.mrc"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(inboxDir, "b.iso"), nil, 0o600))

	files, err := NewLocalStorage(inboxDir, doneDir).WithExtensions(".iso").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.iso"}, files)
}

func TestStorage_Open(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		setup   func(string) error
		want    string
		wantErr bool
	}{
		{
			name: "valid file open",
			path: "test.mrc",
			setup: func(dir string) error {
				return os.WriteFile(filepath.Join(dir, "test.mrc"), []byte("hello world"), 0o600)
			},
			want: "hello world",
		},
		{
			name:    "non-existent file",
			path:    "nonexistent.mrc",
			setup:   func(string) error { return nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inboxDir, doneDir := setupTest(t)
			require.NoError(t, tt.setup(inboxDir))

			s := NewLocalStorage(inboxDir, doneDir)
			r, err := s.Open(context.Background(), tt.path)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			defer r.Close()

			content, err := io.ReadAll(r)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(content))
		})
	}
}

func TestStorage_Complete(t *testing.T) {
	t.Run("moves to done directory", func(t *testing.T) {
		inboxDir := t.TempDir()
		doneDir := filepath.Join(t.TempDir(), "done")
		require.NoError(t, os.WriteFile(filepath.Join(inboxDir, "a.mrc"), []byte("x"), 0o600))

		s := NewLocalStorage(inboxDir, doneDir)
		require.NoError(t, s.Complete(context.Background(), "a.mrc"))

		_, err := os.Stat(filepath.Join(inboxDir, "a.mrc"))
		assert.ErrorIs(t, err, os.ErrNotExist)
		_, err = os.Stat(filepath.Join(doneDir, "a.mrc"))
		assert.NoError(t, err)
	})

	t.Run("deletes without done directory", func(t *testing.T) {
		inboxDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(inboxDir, "a.mrc"), []byte("x"), 0o600))

		s := NewLocalStorage(inboxDir, "")
		require.NoError(t, s.Complete(context.Background(), "a.mrc"))

		_, err := os.Stat(filepath.Join(inboxDir, "a.mrc"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing file", func(t *testing.T) {
		inboxDir, doneDir := setupTest(t)
		s := NewLocalStorage(inboxDir, doneDir)
		assert.Error(t, s.Complete(context.Background(), "missing.mrc"))

		s = NewLocalStorage(inboxDir, "")
		assert.Error(t, s.Complete(context.Background(), "missing.mrc"))
	})
}
