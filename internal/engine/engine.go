package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/pipeloop-go/internal/errors"
	"github.com/wagiedev/pipeloop-go/internal/frame"
)

const (
	// DefaultInterval is the wait between iterations.
	DefaultInterval = 250 * time.Millisecond

	// DefaultPrefix is the outbound message prefix.
	DefaultPrefix = "Line: "
)

// Channel identifies the logical direction of a displayed line.
type Channel int

const (
	// TX is the outbound channel (parent to child).
	TX Channel = iota
	// RX is the inbound channel (child to parent).
	RX
)

func (c Channel) String() string {
	if c == RX {
		return "rx"
	}

	return "tx"
}

// Sink consumes completed lines for display. Implementations must not
// block the loop for longer than the iteration interval.
type Sink interface {
	// Display renders one completed line on the given channel.
	Display(ch Channel, text string)

	// Refresh is invoked once per iteration after channel updates.
	Refresh()
}

// Writer is the outbound channel to the child.
type Writer interface {
	Write(ctx context.Context, data []byte) error
}

// Poller is the inbound line source.
type Poller interface {
	Poll() (string, frame.Status, error)
}

// Loop is the duplex loop state machine. Create with New, drive with Run.
// A Loop runs once; its counter is never reset.
type Loop struct {
	log      *slog.Logger
	id       string
	sink     Sink
	out      Writer
	in       Poller
	interval time.Duration
	prefix   string
	counter  uint64
}

// Config assembles a Loop's collaborators.
type Config struct {
	// Logger receives operational logging. Required.
	Logger *slog.Logger

	// Sink receives TX and RX lines. Required.
	Sink Sink

	// Out is the channel to the child. Required.
	Out Writer

	// In is the polled channel from the child. Required.
	In Poller

	// Interval is the per-iteration wait. Zero means DefaultInterval.
	Interval time.Duration

	// Prefix is the outbound message prefix. Empty means DefaultPrefix.
	Prefix string
}

// New creates a Loop with a fresh run ID.
func New(cfg *Config) *Loop {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	id := ulid.Make().String()

	return &Loop{
		log:      cfg.Logger.With("component", "engine", "run_id", id),
		id:       id,
		sink:     cfg.Sink,
		out:      cfg.Out,
		in:       cfg.In,
		interval: interval,
		prefix:   prefix,
	}
}

// ID returns the run identifier.
func (l *Loop) ID() string { return l.id }

// Counter returns the number of messages sent so far.
func (l *Loop) Counter() uint64 { return l.counter }

// Run executes the duplex loop until the inbound channel closes or fails,
// an outbound write fails, or ctx is cancelled.
//
// Cancellation is the manual stop path and returns ctx.Err(). A closed
// inbound channel returns ErrChildClosed; channel failures return the
// underlying typed error. Within an iteration the write always precedes
// the poll.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("Duplex loop starting", "interval", l.interval)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		msg := l.prefix + strconv.FormatUint(l.counter, 10) + "\n"
		l.counter++

		if err := l.out.Write(ctx, []byte(msg)); err != nil {
			l.log.Error("Outbound write failed", "error", err)

			return fmt.Errorf("send message %d: %w", l.counter-1, err)
		}

		l.sink.Display(TX, msg[:len(msg)-1])

		line, status, err := l.in.Poll()
		if err != nil {
			l.log.Error("Inbound channel failed", "error", err)

			return err
		}

		switch status {
		case frame.LineReady:
			l.sink.Display(RX, line)
		case frame.Closed:
			l.log.Info("Inbound channel closed", "messages_sent", l.counter)

			return errors.ErrChildClosed
		case frame.NoData:
			// Nothing this iteration; partial bytes stay buffered.
		}

		l.sink.Refresh()

		timer.Reset(l.interval)
		select {
		case <-ctx.Done():
			l.log.Info("Duplex loop stopped", "messages_sent", l.counter)

			return ctx.Err()
		case <-timer.C:
		}
	}
}
