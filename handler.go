package marc

import (
	"fmt"

	"github.com/davidvella/marc/record"
	"github.com/davidvella/marc/source"
)

// RecordFunc is applied to each record by MapRecords.
type RecordFunc func(rec *record.Record)

// MapRecords applies f to every record of every input, one input after the
// other. Records that fail to decode or build are skipped; the reader has
// already reported them. A framing or open error stops the run.
func MapRecords(f RecordFunc, inputs []source.Input, opts ...Option) error {
	for _, in := range inputs {
		if err := mapInput(f, in, opts); err != nil {
			return fmt.Errorf("failed to map records of %s: %w", in.Name(), err)
		}
	}
	return nil
}

func mapInput(f RecordFunc, in source.Input, opts []Option) error {
	r, err := NewReader(in, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	for rec, err := range r.All() {
		if err != nil {
			if IsRecoverable(err) {
				continue
			}
			return err
		}
		f(rec)
	}
	return nil
}
