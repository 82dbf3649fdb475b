package marc

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordLengthInvalid is returned when a length prefix is short or is
	// not a base-10 number.
	ErrRecordLengthInvalid = errors.New("record length invalid")
	// ErrTruncatedRecord is returned when the stream ends inside a record.
	ErrTruncatedRecord = errors.New("truncated record")
)

// DecodeError is returned when a framed record could not be decoded under the
// strict handling mode. The record's bytes have been consumed.
type DecodeError struct {
	Offset int64
	Length int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding record at offset %d (%d bytes): %v", e.Offset, e.Length, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConstructionError is returned when the record builder rejected the decoded
// text. The record's bytes have been consumed.
type ConstructionError struct {
	Offset int64
	Length int
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("error building record at offset %d (%d bytes): %v", e.Offset, e.Length, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// IsFraming reports whether err leaves the stream position untrustworthy.
func IsFraming(err error) bool {
	return errors.Is(err, ErrRecordLengthInvalid) || errors.Is(err, ErrTruncatedRecord)
}

// IsRecoverable reports whether a reader can continue after err.
func IsRecoverable(err error) bool {
	var de *DecodeError
	var ce *ConstructionError
	return errors.As(err, &de) || errors.As(err, &ce)
}
