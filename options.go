package marc

import (
	"github.com/davidvella/marc/decode"
	"github.com/davidvella/marc/record"
	"github.com/sirupsen/logrus"
)

// options defines all configuration options for a reader.
type options struct {
	policy  decode.Policy
	builder record.Builder
	logger  logrus.FieldLogger
}

// Option is a function that configures the reader options.
type Option func(*options)

// WithUTF8Handling sets how invalid UTF-8 is handled.
func WithUTF8Handling(h decode.Handling) Option {
	return func(o *options) {
		o.policy.Handling = h
	}
}

// WithHideUTF8Warnings suppresses decode diagnostics.
func WithHideUTF8Warnings(hide bool) Option {
	return func(o *options) {
		o.policy.HideWarnings = hide
	}
}

// WithPolicy sets the whole decoding policy.
func WithPolicy(p decode.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithBuilder sets the record builder.
func WithBuilder(b record.Builder) Option {
	return func(o *options) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		policy:  decode.Policy{Handling: decode.Strict},
		builder: record.DefaultBuilder,
		logger:  logrus.StandardLogger(),
	}
}
