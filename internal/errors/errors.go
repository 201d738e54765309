package errors

import (
	"errors"
	"fmt"
)

// PipeLoopError is the base interface for all pipeloop errors.
type PipeLoopError interface {
	error
	IsPipeLoopError() bool
}

// Compile-time verification that all error types implement PipeLoopError.
var (
	_ PipeLoopError = (*PipeError)(nil)
	_ PipeLoopError = (*ChildNotFoundError)(nil)
	_ PipeLoopError = (*SpawnError)(nil)
	_ PipeLoopError = (*ChannelError)(nil)
	_ PipeLoopError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrChildClosed indicates the child closed its output stream (EOF on
	// the inbound channel). It terminates the loop like a channel error but
	// is distinguishable in diagnostics.
	ErrChildClosed = errors.New("child closed its output")

	// ErrLoopStopped indicates the duplex loop has stopped and cannot be reused.
	ErrLoopStopped = errors.New("loop stopped: loops are single-use, create a new one with New()")

	// ErrNotStarted indicates the child process has not been launched.
	ErrNotStarted = errors.New("child not started")

	// ErrAlreadyStarted indicates the loop is already running.
	ErrAlreadyStarted = errors.New("loop already started")

	// ErrStdinClosed indicates the child's stdin was closed and no more
	// messages can be written.
	ErrStdinClosed = errors.New("stdin closed")

	// ErrLineTooLong indicates an inbound line exceeded the configured
	// maximum size before a newline was seen.
	ErrLineTooLong = errors.New("line exceeds maximum size")
)

// PipeError indicates the OS could not allocate a pipe.
type PipeError struct {
	Err error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("failed to allocate pipe: %v", e.Err)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// IsPipeLoopError implements PipeLoopError.
func (e *PipeError) IsPipeLoopError() bool { return true }

// ChildNotFoundError indicates the child program binary was not found.
type ChildNotFoundError struct {
	SearchedPaths []string
}

func (e *ChildNotFoundError) Error() string {
	return fmt.Sprintf("child program not found in: %v", e.SearchedPaths)
}

// IsPipeLoopError implements PipeLoopError.
func (e *ChildNotFoundError) IsPipeLoopError() bool { return true }

// SpawnError indicates the child process failed to start.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn child: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsPipeLoopError implements PipeLoopError.
func (e *SpawnError) IsPipeLoopError() bool { return true }

// ChannelError indicates a read or write on a pipe channel failed for a
// reason other than "no data available". It is fatal at loop level.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("pipe channel failed: %v", e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// IsPipeLoopError implements PipeLoopError.
func (e *ChannelError) IsPipeLoopError() bool { return true }

// ProcessError indicates the child process exited abnormally.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("child process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("child process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsPipeLoopError implements PipeLoopError.
func (e *ProcessError) IsPipeLoopError() bool { return true }
