package pipeloop

import (
	"log/slog"
	"time"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithProgram sets the child executable and its arguments. Paths containing
// a separator are used as-is; bare names are resolved via PATH.
// If not set, the loop runs against "/bin/cat -" as a loopback child.
func WithProgram(program string, args ...string) Option {
	return func(o *Options) {
		o.Program = program
		o.Args = args
	}
}

// WithEnv provides additional environment variables for the child process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithCwd sets the working directory for the child process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithInterval sets the wait between loop iterations. Default 250ms.
func WithInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.Interval = interval
	}
}

// WithPrefix sets the outbound message prefix. Default "Line: ".
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithSink sets the display sink receiving TX and RX lines.
// If not set, lines are discarded.
func WithSink(sink Sink) Option {
	return func(o *Options) {
		o.Sink = sink
	}
}

// WithStderr sets a callback function for handling the child's stderr
// output. Each line is delivered as it arrives. Ignored in PTY mode.
func WithStderr(callback func(string)) Option {
	return func(o *Options) {
		o.Stderr = callback
	}
}

// WithPTY launches the child on a pseudo-terminal instead of two anonymous
// pipes. The child's stderr is merged into its output stream.
func WithPTY() Option {
	return func(o *Options) {
		o.UsePTY = true
	}
}

// WithMaxLineSize caps inbound line length before the channel is treated
// as failed. Default 1MB.
func WithMaxLineSize(n int) Option {
	return func(o *Options) {
		o.MaxLineSize = n
	}
}
