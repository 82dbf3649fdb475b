package entryio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/davidvella/marc/store"
)

// MaxStringSize bounds a single string field. A MARC record is at most 99999
// bytes; decoded text can grow under xmlcharrefreplace but stays far below it.
const MaxStringSize = 1 << 24

var (
	Uint64Size = int64(binary.Size(uint64(0)))
	Int64Size  = int64(binary.Size(int64(0)))
	// MagicBytes Magic bytes to identify a stored entry (MRC).
	MagicBytes           = []byte{0x4d, 0x52, 0x43}
	ErrInvalidMagicBytes = errors.New("invalid magic bytes - not a stored entry")
	ErrStringTooLong     = errors.New("string length exceeds the remaining data")
)

// BinaryWriter handles writing binary data with error handling.
type BinaryWriter struct {
	w io.Writer
}

func NewBinaryWriter(w io.Writer) BinaryWriter {
	return BinaryWriter{w: w}
}

func (bw BinaryWriter) WriteString(s string) (int64, error) {
	if err := binary.Write(bw.w, binary.LittleEndian, uint64(len(s))); err != nil {
		return 0, fmt.Errorf("error writing string length: %w", err)
	}

	n, err := io.WriteString(bw.w, s)
	if err != nil {
		return Uint64Size, fmt.Errorf("error writing string content: %w", err)
	}

	return Uint64Size + int64(n), nil
}

func (bw BinaryWriter) WriteInt64(i int64) (int64, error) {
	err := binary.Write(bw.w, binary.LittleEndian, i)
	if err != nil {
		return 0, err
	}
	return Int64Size, nil
}

// BinaryReader handles reading binary data with error handling.
type BinaryReader struct {
	r io.Reader
}

func NewBinaryReader(r io.Reader) BinaryReader {
	return BinaryReader{r: r}
}

// ReadString reads a length-prefixed string. The length is checked against
// MaxStringSize, and against the unread bytes when the reader reports them,
// before anything is allocated.
func (br BinaryReader) ReadString() (string, error) {
	var length uint64
	if err := binary.Read(br.r, binary.LittleEndian, &length); err != nil {
		return "", fmt.Errorf("error reading string length: %w", midEntry(err))
	}

	if length > MaxStringSize {
		return "", fmt.Errorf("%w: %d bytes", ErrStringTooLong, length)
	}
	if lr, ok := br.r.(interface{ Len() int }); ok && length > uint64(lr.Len()) {
		return "", fmt.Errorf("%w: %d bytes, %d left", ErrStringTooLong, length, lr.Len())
	}

	b := make([]byte, length)
	if _, err := io.ReadFull(br.r, b); err != nil {
		return "", fmt.Errorf("error reading string content: %w", midEntry(err))
	}
	return string(b), nil
}

func (br BinaryReader) ReadInt64() (int64, error) {
	var value int64
	err := binary.Read(br.r, binary.LittleEndian, &value)
	return value, midEntry(err)
}

// midEntry reports a clean end of data inside an entry as truncation.
func midEntry(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Write writes a single entry to the writer.
func Write(w io.Writer, e store.Entry) (int64, error) {
	var (
		totalBytes int64
		n          int64
	)

	mn, err := w.Write(MagicBytes)
	if err != nil {
		return int64(mn), fmt.Errorf("failed to write magic bytes: %w", err)
	}
	totalBytes += int64(mn)

	bw := NewBinaryWriter(w)

	n, err = bw.WriteString(e.ControlNumber)
	if err != nil {
		return totalBytes, fmt.Errorf("error writing control number: %w", err)
	}
	totalBytes += n

	n, err = bw.WriteString(e.Source)
	if err != nil {
		return totalBytes, fmt.Errorf("error writing source: %w", err)
	}
	totalBytes += n

	n, err = bw.WriteInt64(e.Offset)
	if err != nil {
		return totalBytes, fmt.Errorf("error writing offset: %w", err)
	}
	totalBytes += n

	n, err = bw.WriteInt64(e.Length)
	if err != nil {
		return totalBytes, fmt.Errorf("error writing length: %w", err)
	}
	totalBytes += n

	n, err = bw.WriteString(e.Text)
	if err != nil {
		return totalBytes, fmt.Errorf("error writing text: %w", err)
	}
	totalBytes += n

	return totalBytes, nil
}

// ReadEntry reads a single entry from the reader. It returns io.EOF, unwrapped,
// only when r ends before the first byte of an entry.
func ReadEntry(r io.Reader) (store.Entry, error) {
	magicBytes := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magicBytes); err != nil {
		if err == io.EOF {
			return store.Entry{}, io.EOF
		}
		return store.Entry{}, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if !bytes.Equal(magicBytes, MagicBytes) {
		return store.Entry{}, ErrInvalidMagicBytes
	}

	br := NewBinaryReader(r)

	id, err := br.ReadString()
	if err != nil {
		return store.Entry{}, fmt.Errorf("error reading control number: %w", err)
	}

	src, err := br.ReadString()
	if err != nil {
		return store.Entry{}, fmt.Errorf("error reading source: %w", err)
	}

	offset, err := br.ReadInt64()
	if err != nil {
		return store.Entry{}, fmt.Errorf("error reading offset: %w", err)
	}

	length, err := br.ReadInt64()
	if err != nil {
		return store.Entry{}, fmt.Errorf("error reading length: %w", err)
	}

	text, err := br.ReadString()
	if err != nil {
		return store.Entry{}, fmt.Errorf("error reading text: %w", err)
	}

	return store.Entry{
		ControlNumber: id,
		Source:        src,
		Offset:        offset,
		Length:        length,
		Text:          text,
	}, nil
}

// Marshal encodes e into a new byte slice.
func Marshal(e store.Entry) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, Size(e)))
	if _, err := Write(buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single entry from b.
func Unmarshal(b []byte) (store.Entry, error) {
	return ReadEntry(bytes.NewReader(b))
}

// Seq yields the entries of a stream written with Write. A read failure is
// yielded once and ends the sequence; a clean end of the stream ends it
// silently.
func Seq(r io.Reader) iter.Seq2[store.Entry, error] {
	return func(yield func(store.Entry, error) bool) {
		for n := 0; ; n++ {
			e, err := ReadEntry(r)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(store.Entry{}, fmt.Errorf("entry %d: %w", n, err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Size calculates the total size in bytes that an entry will occupy when
// written, including magic bytes and length prefixes.
func Size(e store.Entry) int64 {
	var totalSize int64

	totalSize += int64(len(MagicBytes))
	totalSize += Uint64Size + int64(len(e.ControlNumber))
	totalSize += Uint64Size + int64(len(e.Source))
	totalSize += Int64Size
	totalSize += Int64Size
	totalSize += Uint64Size + int64(len(e.Text))

	return totalSize
}
