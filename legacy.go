package marc

import (
	"github.com/davidvella/marc/decode"
	"github.com/davidvella/marc/source"
)

// LegacyOptions carries the configuration accepted by the older reader
// constructor. ToUnicode and ForceUTF8 no longer change anything: records are
// always decoded to text as UTF-8.
type LegacyOptions struct {
	ToUnicode        bool
	ForceUTF8        bool
	HideUTF8Warnings bool
	UTF8Handling     decode.Handling
}

// Policy returns the decoding policy the legacy options map to.
func (lo LegacyOptions) Policy() decode.Policy {
	return decode.Policy{
		Handling:     lo.UTF8Handling,
		HideWarnings: lo.HideUTF8Warnings,
	}
}

// NewLegacyReader returns a Reader configured from legacy options. Options in
// opts are applied after the legacy ones.
func NewLegacyReader(in source.Input, lo LegacyOptions, opts ...Option) (*Reader, error) {
	return NewReader(in, append([]Option{WithPolicy(lo.Policy())}, opts...)...)
}
