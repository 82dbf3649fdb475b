package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/davidvella/marc/decode"
)

var (
	ErrNoInput = errors.New("source: no input supplied")
)

type kind int

const (
	kindNone kind = iota
	kindBuffered
	kindStream
	kindReopen
	kindPath
	kindText
	kindBytes
)

// Named is a handle whose underlying resource can be found again by name.
// *os.File satisfies it.
type Named interface {
	Name() string
	Close() error
}

// Input is one of the accepted input shapes. Build it with one of the
// constructors; the zero value opens to ErrNoInput.
type Input struct {
	kind     kind
	buffered *bufio.Reader
	stream   io.Reader
	named    Named
	path     string
	text     string
	data     []byte
}

// Buffered uses r as-is.
func Buffered(r *bufio.Reader) Input {
	return Input{kind: kindBuffered, buffered: r}
}

// Stream wraps the byte stream r. If r is an io.Closer it is closed when the
// Source is released.
func Stream(r io.Reader) Input {
	return Input{kind: kindStream, stream: r}
}

// Reopen closes h and opens the file it names for binary reads.
func Reopen(h Named) Input {
	return Input{kind: kindReopen, named: h}
}

// Path opens the file at path.
func Path(path string) Input {
	return Input{kind: kindPath, path: path}
}

// Text encodes s to ASCII under the reader's handling mode.
func Text(s string) Input {
	return Input{kind: kindText, text: s}
}

// Bytes reads from b in memory.
func Bytes(b []byte) Input {
	return Input{kind: kindBytes, data: b}
}

// Name describes the input for diagnostics.
func (in Input) Name() string {
	switch in.kind {
	case kindBuffered:
		return "<buffered>"
	case kindStream:
		if n, ok := in.stream.(interface{ Name() string }); ok {
			return n.Name()
		}
		return "<stream>"
	case kindReopen:
		return in.named.Name()
	case kindPath:
		return in.path
	case kindText:
		return "<text>"
	case kindBytes:
		return "<bytes>"
	default:
		return "<none>"
	}
}

// Open resolves the input to a Source. Only Text uses h.
func (in Input) Open(h decode.Handling) (*Source, error) {
	switch in.kind {
	case kindBuffered:
		if in.buffered == nil {
			return nil, ErrNoInput
		}
		return newSource(in.Name(), in.buffered, nil), nil

	case kindStream:
		if in.stream == nil {
			return nil, ErrNoInput
		}
		closer, _ := in.stream.(io.Closer)
		if br, ok := in.stream.(*bufio.Reader); ok {
			return newSource(in.Name(), br, closer), nil
		}
		return newSource(in.Name(), bufio.NewReader(in.stream), closer), nil

	case kindReopen:
		if in.named == nil {
			return nil, ErrNoInput
		}
		name := in.named.Name()
		if err := in.named.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			return nil, fmt.Errorf("source: failed to close %s: %w", name, err)
		}
		return openFile(name)

	case kindPath:
		return openFile(in.path)

	case kindText:
		raw, err := decode.Policy{Handling: h}.EncodeASCII(in.text)
		if err != nil {
			return nil, fmt.Errorf("source: failed to encode text payload: %w", err)
		}
		return newSource(in.Name(), bufio.NewReader(bytes.NewReader(raw)), nil), nil

	case kindBytes:
		return newSource(in.Name(), bufio.NewReader(bytes.NewReader(in.data)), nil), nil

	default:
		return nil, ErrNoInput
	}
}

func openFile(path string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoInput
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: failed to open file %s: %w", path, err)
	}
	return newSource(path, bufio.NewReader(f), f), nil
}

// Source is the sequential byte cursor a reader owns.
type Source struct {
	name   string
	r      *bufio.Reader
	closer io.Closer
	once   sync.Once
	err    error
}

func newSource(name string, r *bufio.Reader, closer io.Closer) *Source {
	return &Source{name: name, r: r, closer: closer}
}

func (s *Source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *Source) Name() string {
	return s.name
}

// Close releases the underlying handle. Calling it more than once is safe.
func (s *Source) Close() error {
	s.once.Do(func() {
		if s.closer != nil {
			s.err = s.closer.Close()
		}
	})
	return s.err
}
