package makerbus

import "time"

// Option configures a Bus at construction time. Options are applied in the
// order given to NewBus.
type Option func(*Bus)

// WithReadTimeout overrides the channel read timeout (default 1 second).
func WithReadTimeout(d time.Duration) Option {
	return func(b *Bus) {
		b.readTimeout = d
	}
}

// WithAutoFlush overrides the initial auto-flush mode (default on).
func WithAutoFlush(autoFlush bool) Option {
	return func(b *Bus) {
		b.autoFlush = autoFlush
	}
}

// WithLogger attaches a Logger the bus uses for structured diagnostics. The
// default is a no-op logger.
func WithLogger(logger Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}
