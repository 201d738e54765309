// Package config provides configuration types for the pipe loop.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/wagiedev/pipeloop-go/internal/engine"
)

// Options configures a pipe loop.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Program is the child executable to spawn. Paths containing a
	// separator are used as-is; bare names are resolved via PATH.
	// Defaults to "/bin/cat".
	Program string

	// Args are the arguments passed to the child.
	// Defaults to ["-"] when Program is the default.
	Args []string

	// Env provides additional environment variables for the child.
	Env map[string]string

	// Cwd sets the working directory for the child.
	Cwd string

	// Interval is the wait between loop iterations.
	// Defaults to engine.DefaultInterval.
	Interval time.Duration

	// Prefix is the outbound message prefix.
	// Defaults to engine.DefaultPrefix.
	Prefix string

	// Sink receives TX and RX lines for display.
	// Defaults to a sink that discards everything.
	Sink engine.Sink

	// Stderr is a callback function for handling the child's stderr output.
	Stderr func(string)

	// UsePTY launches the child on a pseudo-terminal instead of pipes.
	UsePTY bool

	// MaxLineSize caps inbound line length before the channel is treated
	// as failed. Zero means the built-in default.
	MaxLineSize int
}

// Env is the environment-variable configuration of the demo binary.
type Env struct {
	Program  string        `envconfig:"PIPELOOP_PROGRAM" default:"/bin/cat"`
	Args     []string      `envconfig:"PIPELOOP_ARGS" default:"-"`
	Interval time.Duration `envconfig:"PIPELOOP_INTERVAL" default:"250ms"`
	Prefix   string        `envconfig:"PIPELOOP_PREFIX" default:"Line: "`
	UsePTY   bool          `envconfig:"PIPELOOP_PTY" default:"false"`
	LogLevel string        `envconfig:"PIPELOOP_LOG_LEVEL" default:"info"`
}

// FromEnv loads the demo binary configuration from the environment.
func FromEnv() (*Env, error) {
	var cfg Env
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (e *Env) SlogLevel() slog.Level {
	switch e.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
