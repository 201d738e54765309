package pipeloop

import (
	"context"
	stderrors "errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/pipeloop-go/internal/display"
	"github.com/wagiedev/pipeloop-go/internal/engine"
	"github.com/wagiedev/pipeloop-go/internal/frame"
	"github.com/wagiedev/pipeloop-go/internal/spawn"
)

// Loop owns one child process and the duplex loop driving it.
// Loops are single-use: create with New, drive with Run, release with Close.
type Loop struct {
	options *Options

	mu      sync.Mutex
	child   *spawn.Child
	eng     *engine.Loop
	started bool
	stopped bool
}

// New creates a Loop with the given options. Nothing is spawned until Run.
func New(opts ...Option) *Loop {
	return &Loop{options: applyOptions(opts)}
}

// Run spawns the child, wires the pipe channels, and drives the duplex
// loop until a terminal condition:
//
//   - ctx cancellation: the manual stop; returns nil.
//   - the child closed its output: returns ErrChildClosed, or a
//     ProcessError when the child also exited abnormally.
//   - a channel failure: returns the typed error.
//
// The child is terminated and all descriptors released before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()

	if l.stopped {
		l.mu.Unlock()

		return ErrLoopStopped
	}

	if l.started {
		l.mu.Unlock()

		return ErrAlreadyStarted
	}

	l.started = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
	}()

	log := l.options.Logger
	if log == nil {
		log = NopLogger()
	}

	sink := l.options.Sink
	if sink == nil {
		sink = display.Nop{}
	}

	child, err := spawn.Launch(ctx, &spawn.Options{
		Program: programOrDefault(l.options),
		Args:    argsOrDefault(l.options),
		Env:     l.options.Env,
		Cwd:     l.options.Cwd,
		UsePTY:  l.options.UsePTY,
		Stderr:  l.options.Stderr,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.child = child
	l.mu.Unlock()

	asm := frame.New(log, child.Reader(), l.options.MaxLineSize)

	eng := engine.New(&engine.Config{
		Logger:   log,
		Sink:     sink,
		Out:      child,
		In:       asm,
		Interval: l.options.Interval,
		Prefix:   l.options.Prefix,
	})

	l.mu.Lock()
	l.eng = eng
	l.mu.Unlock()

	var g errgroup.Group

	g.Go(func() error {
		child.DrainStderr(ctx)

		return nil
	})

	runErr := eng.Run(ctx)

	if stderrors.Is(runErr, ErrChildClosed) {
		// The child exited on its own: its stderr reaches EOF, so the
		// drain finishes without a kill, and Wait can attach the exit
		// status and captured stderr to the diagnostics.
		_ = g.Wait()

		waitErr := child.Wait()
		_ = child.Close()

		if waitErr != nil {
			return waitErr
		}

		return runErr
	}

	// Fatal error or cancellation: the child may still be alive, so kill
	// it first to unblock the stderr drain, then reap.
	_ = child.Close()
	_ = g.Wait()
	_ = child.Wait()

	if stderrors.Is(runErr, context.Canceled) {
		log.Info("Loop stopped by cancellation")

		return nil
	}

	return runErr
}

// Close terminates the child and releases resources. Safe to call multiple
// times or before Run.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopped = true

	if l.child != nil {
		return l.child.Close()
	}

	return nil
}

// Counter returns the number of messages sent. Meaningful after Run returns.
func (l *Loop) Counter() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.eng == nil {
		return 0
	}

	return l.eng.Counter()
}

// PID returns the child's process ID, or 0 before launch.
func (l *Loop) PID() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.child == nil {
		return 0
	}

	return l.child.PID()
}

// Run creates a Loop, drives it to completion, and releases it.
// This is the one-shot convenience entry point.
func Run(ctx context.Context, opts ...Option) error {
	loop := New(opts...)
	defer func() { _ = loop.Close() }()

	return loop.Run(ctx)
}

func programOrDefault(o *Options) string {
	if o.Program == "" {
		return "/bin/cat"
	}

	return o.Program
}

func argsOrDefault(o *Options) []string {
	if o.Program == "" && o.Args == nil {
		return []string{"-"}
	}

	return o.Args
}
