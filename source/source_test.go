package source_test

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidvella/marc/decode"
	"github.com/davidvella/marc/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingReader struct {
	io.Reader
	closed int
}

func (r *trackingReader) Close() error {
	r.closed++
	return nil
}

func readAll(t *testing.T, in source.Input, h decode.Handling) string {
	t.Helper()

	src, err := in.Open(h)
	require.NoError(t, err)
	defer src.Close()

	b, err := io.ReadAll(src)
	require.NoError(t, err)
	return string(b)
}

func TestInput_Open(t *testing.T) {
	tests := []struct {
		name  string
		input source.Input
		want  string
	}{
		{
			name:  "buffered reader",
			input: source.Buffered(bufio.NewReader(strings.NewReader("00005"))),
			want:  "00005",
		},
		{
			name:  "plain stream",
			input: source.Stream(strings.NewReader("abc")),
			want:  "abc",
		},
		{
			name:  "bytes",
			input: source.Bytes([]byte{0x1d, 0x1e}),
			want:  "\x1d\x1e",
		},
		{
			name:  "text",
			input: source.Text("00026nam"),
			want:  "00026nam",
		},
		{
			name:  "empty bytes",
			input: source.Bytes(nil),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input, decode.Strict))
		})
	}
}

func TestInput_BufferedPassthrough(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("0123456789"))

	src, err := source.Buffered(br).Open(decode.Strict)
	require.NoError(t, err)

	p := make([]byte, 5)
	_, err = io.ReadFull(src, p)
	require.NoError(t, err)

	// The cursor is shared with the caller's reader.
	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "56789", string(rest))
}

func TestInput_TextHandling(t *testing.T) {
	_, err := source.Text("café").Open(decode.Strict)
	assert.ErrorIs(t, err, decode.ErrNonASCII)

	assert.Equal(t, "caf?", readAll(t, source.Text("café"), decode.Replace))
	assert.Equal(t, "caf&#233;", readAll(t, source.Text("café"), decode.XMLCharRefReplace))
	assert.Equal(t, "caf", readAll(t, source.Text("café"), decode.Ignore))
}

func TestInput_StreamCloses(t *testing.T) {
	tr := &trackingReader{Reader: bytes.NewReader([]byte("x"))}

	src, err := source.Stream(tr).Open(decode.Strict)
	require.NoError(t, err)

	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())
	assert.Equal(t, 1, tr.closed)
}

func TestInput_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.mrc")
	require.NoError(t, os.WriteFile(path, []byte("00005"), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)

	src, err := source.Reopen(f).Open(decode.Strict)
	require.NoError(t, err)
	defer src.Close()

	// The original handle was closed before the new one was opened.
	_, err = f.Read(make([]byte, 1))
	assert.ErrorIs(t, err, os.ErrClosed)

	b, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "00005", string(b))
	assert.Equal(t, path, src.Name())
}

func TestInput_ReopenAlreadyClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.mrc")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "abc", readAll(t, source.Reopen(f), decode.Strict))
}

func TestInput_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.mrc")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	assert.Equal(t, "data", readAll(t, source.Path(path), decode.Strict))
	assert.Equal(t, path, source.Path(path).Name())

	_, err := source.Path(filepath.Join(t.TempDir(), "missing.mrc")).Open(decode.Strict)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInput_Zero(t *testing.T) {
	var in source.Input

	_, err := in.Open(decode.Strict)
	assert.ErrorIs(t, err, source.ErrNoInput)

	_, err = source.Stream(nil).Open(decode.Strict)
	assert.ErrorIs(t, err, source.ErrNoInput)
}
