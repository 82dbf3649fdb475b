package marc

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/davidvella/marc/decode"
	"github.com/davidvella/marc/record"
	"github.com/davidvella/marc/source"
	"github.com/sirupsen/logrus"
)

// PrefixSize is the width of the ASCII length prefix that starts every record.
const PrefixSize = 5

// Reader frames MARC21 records from a byte stream. It is not safe for
// concurrent use.
type Reader struct {
	src     *source.Source
	policy  decode.Policy
	builder record.Builder
	logger  logrus.FieldLogger

	offset int64
	last   int64
	done   bool
	err    error
}

// NewReader resolves in to a byte source and returns a Reader over it.
func NewReader(in source.Input, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	src, err := in.Open(o.policy.Handling)
	if err != nil {
		return nil, err
	}

	return &Reader{
		src:     src,
		policy:  o.policy,
		builder: o.builder,
		logger:  o.logger.WithField("source", src.Name()),
	}, nil
}

// Next returns the next record. It returns io.EOF once the stream is
// exhausted, and keeps returning io.EOF on every later call.
//
// ErrRecordLengthInvalid and ErrTruncatedRecord leave the stream position
// unusable and are returned again by every later call. A *DecodeError or
// *ConstructionError only concerns the current record; the next call reads
// the following one.
func (r *Reader) Next() (*record.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, io.EOF
	}

	raw, err := r.frame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.done = true
			r.releaseLogged()
			return nil, io.EOF
		}
		r.err = err
		r.releaseLogged()
		return nil, err
	}

	text, err := r.policy.Decode(raw)
	if err != nil {
		derr := &DecodeError{Offset: r.last, Length: len(raw), Err: err}
		if !r.policy.HideWarnings {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"offset": r.last,
				"length": len(raw),
			}).Warn("unable to decode record")
		}
		return nil, derr
	}

	rec, err := r.builder.Build(text, r.policy.HideWarnings, r.policy.Handling)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"offset": r.last,
			"length": len(raw),
		}).Error("unable to build record")
		return nil, &ConstructionError{Offset: r.last, Length: len(raw), Err: err}
	}

	rec.Offset = r.last
	rec.Length = len(raw)

	return rec, nil
}

// frame reads exactly one record's bytes. A clean end of stream before the
// prefix is reported as io.EOF.
func (r *Reader) frame() ([]byte, error) {
	prefix := make([]byte, PrefixSize)
	n, err := io.ReadFull(r.src, prefix)
	switch {
	case n == 0 && errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: got %d of %d prefix bytes at offset %d",
			ErrRecordLengthInvalid, n, PrefixSize, r.offset)
	case err != nil:
		return nil, fmt.Errorf("error reading record length at offset %d: %w", r.offset, err)
	}

	length, err := parseLength(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v at offset %d", ErrRecordLengthInvalid, err, r.offset)
	}

	raw := make([]byte, length)
	copy(raw, prefix)

	m, err := io.ReadFull(r.src, raw[PrefixSize:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: declared %d bytes, got %d at offset %d",
				ErrTruncatedRecord, length, PrefixSize+m, r.offset)
		}
		return nil, fmt.Errorf("error reading record at offset %d: %w", r.offset, err)
	}

	r.last = r.offset
	r.offset += int64(length)

	return raw, nil
}

// parseLength reads the prefix as a base-10 integer. Only ASCII digits are
// accepted.
func parseLength(prefix []byte) (int, error) {
	length := 0
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit length prefix %q", prefix)
		}
		length = length*10 + int(c-'0')
	}
	if length < PrefixSize {
		return 0, fmt.Errorf("declared length %d is shorter than its prefix", length)
	}
	return length, nil
}

// Offset returns the position of the most recently framed record.
func (r *Reader) Offset() int64 {
	return r.last
}

// All returns an iterator over the remaining records. Decode and construction
// errors are yielded alongside a nil record and iteration continues; the
// iterator stops after a framing error or at the end of the stream.
func (r *Reader) All() iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) {
				return
			}
			if r.err != nil {
				return
			}
		}
	}
}

// Close releases the source. It is safe to call more than once and after the
// stream is exhausted.
func (r *Reader) Close() error {
	r.done = true
	return r.release()
}

func (r *Reader) release() error {
	return r.src.Close()
}

func (r *Reader) releaseLogged() {
	if err := r.release(); err != nil {
		r.logger.WithError(err).Warn("unable to release source")
	}
}
