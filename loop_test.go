package pipeloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// collectSink records RX lines and cancels the loop once enough arrived.
type collectSink struct {
	mu     sync.Mutex
	rx     []string
	tx     []string
	want   int
	cancel context.CancelFunc
}

func (s *collectSink) Display(ch Channel, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch == RX {
		s.rx = append(s.rx, text)
		if len(s.rx) >= s.want {
			s.cancel()
		}
	} else {
		s.tx = append(s.tx, text)
	}
}

func (s *collectSink) Refresh() {}

func (s *collectSink) lines() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.tx...), append([]string(nil), s.rx...)
}

func TestRunEchoRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := &collectSink{want: 2, cancel: cancel}

	err := Run(ctx,
		WithSink(sink),
		WithInterval(5*time.Millisecond),
	)
	require.NoError(t, err)

	tx, rx := sink.lines()
	require.GreaterOrEqual(t, len(rx), 2)
	require.Equal(t, "Line: 0", rx[0])
	require.Equal(t, "Line: 1", rx[1])
	require.Equal(t, "Line: 0", tx[0])
}

func TestRunCustomPrefixRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := &collectSink{want: 1, cancel: cancel}

	err := Run(ctx,
		WithProgram("/bin/cat", "-"),
		WithPrefix("msg "),
		WithSink(sink),
		WithInterval(5*time.Millisecond),
	)
	require.NoError(t, err)

	_, rx := sink.lines()
	require.Equal(t, "msg 0", rx[0])
}

func TestRunTerminatesWhenChildExits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := Run(ctx,
		WithProgram("/bin/sh", "-c", "exit 0"),
		WithInterval(5*time.Millisecond),
	)
	require.Error(t, err)

	// Depending on timing the loop observes either the closed inbound
	// channel or a broken outbound pipe; both must stop it, not hang.
	var chanErr *ChannelError
	if !errors.Is(err, ErrChildClosed) {
		require.ErrorAs(t, err, &chanErr)
	}

	require.NoError(t, ctx.Err(), "loop must terminate on its own, not via test timeout")
}

func TestRunReportsChildFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := Run(ctx,
		WithProgram("/bin/sh", "-c", "read line; echo oops >&2; exit 7"),
		WithInterval(5*time.Millisecond),
	)
	require.Error(t, err)

	var procErr *ProcessError
	if errors.As(err, &procErr) {
		require.Equal(t, 7, procErr.ExitCode)
		require.Contains(t, procErr.Stderr, "oops")
	}
}

func TestRunChildNotFound(t *testing.T) {
	err := Run(context.Background(), WithProgram("definitely-not-a-real-program-7d1f"))

	var notFound *ChildNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestStderrCallback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stderrLines := make(chan string, 1)

	err := Run(ctx,
		WithProgram("/bin/sh", "-c", "echo warned >&2; exec cat -"),
		WithStderr(func(line string) {
			select {
			case stderrLines <- line:
				cancel()
			default:
			}
		}),
		WithInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	require.Equal(t, "warned", <-stderrLines)
}

func TestLoopIsSingleUse(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	loop := New(
		WithProgram("/bin/sh", "-c", "exit 0"),
		WithInterval(5*time.Millisecond),
	)
	defer func() { _ = loop.Close() }()

	_ = loop.Run(ctx)

	require.ErrorIs(t, loop.Run(ctx), ErrLoopStopped)
}

func TestCloseBeforeRun(t *testing.T) {
	loop := New()
	require.NoError(t, loop.Close())
	require.ErrorIs(t, loop.Run(context.Background()), ErrLoopStopped)
}

func TestCounterAdvances(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := &collectSink{want: 3, cancel: cancel}

	loop := New(
		WithSink(sink),
		WithInterval(5*time.Millisecond),
	)
	defer func() { _ = loop.Close() }()

	require.NoError(t, loop.Run(ctx))
	require.GreaterOrEqual(t, loop.Counter(), uint64(3))
}

func TestPIDAvailableAfterRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := &collectSink{want: 1, cancel: cancel}

	loop := New(WithSink(sink), WithInterval(5*time.Millisecond))
	defer func() { _ = loop.Close() }()

	require.NoError(t, loop.Run(ctx))
	require.Positive(t, loop.PID())
}
